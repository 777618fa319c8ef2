package mq

import (
	"time"

	"lpb-monitor/internal/models"
)

// Message is the envelope for every published payload.
type Message struct {
	Data   interface{} `json:"data"`
	Source string      `json:"source"`
	SentAt time.Time   `json:"sent_at"`
}

func NewMessage(data interface{}, source string) Message {
	return Message{Data: data, Source: source, SentAt: time.Now().UTC()}
}

// ViewMessage carries one grouped rollup for a display surface.
type ViewMessage struct {
	View    models.GroupMode      `json:"view"`
	Metric  models.MetricMode     `json:"metric"`
	Entries []models.SummaryEntry `json:"entries"`
	Totals  models.SummaryEntry   `json:"totals"`
	Records int                   `json:"records"`
}

// SyncStatusMessage is the "last successful sync" indicator.
type SyncStatusMessage struct {
	CycleID   string    `json:"cycle_id"`
	Key       string    `json:"key"`
	Source    string    `json:"source"`
	Records   int       `json:"records"`
	Dropped   int       `json:"dropped"`
	FromCache bool      `json:"from_cache"`
	Stale     bool      `json:"stale"`
	Available bool      `json:"available"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// RefreshCommand asks for a forced refresh of one dataset key; empty means the default.
type RefreshCommand struct {
	Key string `json:"key"`
}
