package mq

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestTopicManager(t *testing.T) {
	m := NewTopicManager("lpb/", zerolog.Nop())

	tests := []struct {
		got, want string
	}{
		{m.GetViewTopic("unit"), "lpb/v1/views/unit"},
		{m.GetStatusTopic(), "lpb/v1/sync/status"},
		{m.GetRefreshCommandTopic(), "lpb/v1/commands/refresh"},
		{m.GetFilterCommandTopic(), "lpb/v1/commands/filter"},
		{m.GetBaseTopic(), "lpb"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}

}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RefreshCommand{Key: "lpb_data"}, MessageSource)
	if msg.Source != "LPB_MONITOR" || msg.SentAt.IsZero() {
		t.Errorf("message = %+v", msg)
	}
}
