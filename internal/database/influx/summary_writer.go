package influx

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"lpb-monitor/internal/models"
)

const SummaryMeasurement = "lpb_summary"

// PointWriter is the subset of api.WriteAPI the summary writer needs.
type PointWriter interface {
	WritePoint(point *write.Point)
}

type SummaryWriter struct {
	writeAPI PointWriter
	logger   zerolog.Logger
}

func NewSummaryWriter(writeAPI PointWriter, logger zerolog.Logger) *SummaryWriter {
	return &SummaryWriter{
		writeAPI: writeAPI,
		logger:   logger,
	}
}

func SummaryPoint(view models.GroupMode, metric models.MetricMode, entry models.SummaryEntry, at time.Time) *write.Point {
	tags := map[string]string{
		"view":   string(view),
		"metric": string(metric),
		"key":    entry.Key,
	}

	fields := map[string]interface{}{
		"total":       entry.Total,
		"valid":       entry.Valid,
		"invalid":     entry.Invalid,
		"unvalidated": entry.Unvalidated(),
		"work_orders": entry.TotalWorkOrders,
		"realized":    entry.Realized(),
	}

	return influxdb2.NewPoint(SummaryMeasurement, tags, fields, at)
}

// WriteSummaries queues one point per entry. The write API flushes asynchronously.
func (w *SummaryWriter) WriteSummaries(view models.GroupMode, metric models.MetricMode, entries []models.SummaryEntry, at time.Time) {
	for _, entry := range entries {
		w.writeAPI.WritePoint(SummaryPoint(view, metric, entry, at))
	}

	w.logger.Debug().
		Str("view", string(view)).
		Int("entries", len(entries)).
		Msg("Added summaries to influxDB")
}
