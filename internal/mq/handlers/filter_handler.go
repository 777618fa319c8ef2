package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"lpb-monitor/internal/mq"
	"lpb-monitor/internal/query"
)

// FilterSubmitter is satisfied by *query.Debouncer.
type FilterSubmitter interface {
	Submit(f query.Filter)
}

type FilterHandler struct {
	submitter    FilterSubmitter
	logger       zerolog.Logger
	handlerTopic string
}

func NewFilterHandler(submitter FilterSubmitter, logger zerolog.Logger, topicManager *mq.TopicManager) *FilterHandler {
	return &FilterHandler{
		submitter:    submitter,
		logger:       logger,
		handlerTopic: topicManager.GetFilterCommandTopic(),
	}
}

func (h *FilterHandler) Topic() string {
	return h.handlerTopic
}

func (h *FilterHandler) TransformMessage(msg mqtt.Message) (*query.Filter, error) {
	if msg == nil {
		return nil, fmt.Errorf("received nil message: %w", ErrMessageIsNil)
	}

	if len(msg.Payload()) == 0 {
		return nil, ErrEmptyMessage
	}

	var filter query.Filter
	if err := json.Unmarshal(msg.Payload(), &filter); err != nil {
		return nil, fmt.Errorf("could not parse filter: %w", ErrInvalidMessage)
	}

	return &filter, nil
}

func (h *FilterHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	filter, err := h.TransformMessage(msg)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			return
		}

		h.logger.Error().Err(err).
			Str("topic", h.handlerTopic).
			Msg("Failed to transform message")
		return
	}

	h.logger.Debug().Interface("filter", filter).Msg("Filter command received")
	h.submitter.Submit(*filter)
}
