package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"lpb-monitor/internal/mq"
)

type Refresher interface {
	Refresh(ctx context.Context, key string) error
}

type RefreshHandler struct {
	refresher    Refresher
	logger       zerolog.Logger
	handlerTopic string
	timeout      time.Duration
}

func NewRefreshHandler(refresher Refresher, logger zerolog.Logger, topicManager *mq.TopicManager, timeout time.Duration) *RefreshHandler {
	return &RefreshHandler{
		refresher:    refresher,
		logger:       logger,
		handlerTopic: topicManager.GetRefreshCommandTopic(),
		timeout:      timeout,
	}
}

func (h *RefreshHandler) Topic() string {
	return h.handlerTopic
}

func (h *RefreshHandler) TransformMessage(msg mqtt.Message) (*mq.RefreshCommand, error) {
	if msg == nil {
		return nil, fmt.Errorf("received nil message: %w", ErrMessageIsNil)
	}

	if len(msg.Payload()) == 0 {
		return nil, ErrEmptyMessage
	}

	var cmd mq.RefreshCommand
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		return nil, fmt.Errorf("could not parse refresh command: %w", ErrInvalidMessage)
	}

	return &cmd, nil
}

func (h *RefreshHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	cmd, err := h.TransformMessage(msg)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			return
		}

		h.logger.Error().Err(err).
			Str("topic", h.handlerTopic).
			Msg("Failed to transform message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.refresher.Refresh(ctx, cmd.Key); err != nil {
		h.logger.Warn().Err(err).
			Str("key", cmd.Key).
			Msg("Manual refresh failed")
		return
	}

	h.logger.Info().Str("key", cmd.Key).Msg("Manual refresh completed")
}
