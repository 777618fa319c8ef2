package interfaces

import (
	"context"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type IMqClient interface {
	PublishJson(topic string, data interface{}) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Disconnect(ctx context.Context)
	Connect(ctx context.Context) error
	IsConnected() bool
}

type ITopicManager interface {
	GetViewTopic(view string) string
	GetStatusTopic() string
	GetRefreshCommandTopic() string
	GetFilterCommandTopic() string
	GetBaseTopic() string
}
