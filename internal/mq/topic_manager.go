package mq

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type TopicManager struct {
	BaseTopic string
	logger    zerolog.Logger
}

func NewTopicManager(baseTopic string, logger zerolog.Logger) *TopicManager {
	return &TopicManager{
		BaseTopic: strings.TrimSuffix(baseTopic, "/"),
		logger:    logger,
	}
}

const (
	ViewTopicTemplate           = "%s/v1/views/+"
	StatusTopicTemplate         = "%s/v1/sync/status"
	RefreshCommandTopicTemplate = "%s/v1/commands/refresh"
	FilterCommandTopicTemplate  = "%s/v1/commands/filter"
)

func (m *TopicManager) GetViewTopic(view string) string {
	return strings.Replace(fmt.Sprintf(ViewTopicTemplate, m.BaseTopic), "+", view, 1)
}

func (m *TopicManager) GetStatusTopic() string {
	return fmt.Sprintf(StatusTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetRefreshCommandTopic() string {
	return fmt.Sprintf(RefreshCommandTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetFilterCommandTopic() string {
	return fmt.Sprintf(FilterCommandTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetBaseTopic() string {
	return m.BaseTopic
}
