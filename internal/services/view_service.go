package services

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/aggregate"
	"lpb-monitor/internal/interfaces"
	"lpb-monitor/internal/models"
	"lpb-monitor/internal/mq"
	"lpb-monitor/internal/query"
)

const DailyView = "daily"

var viewModes = []models.GroupMode{models.GroupByUnit, models.GroupByOfficer, models.GroupByDate}

type SummarySink interface {
	WriteSummaries(view models.GroupMode, metric models.MetricMode, entries []models.SummaryEntry, at time.Time)
}

// Views is one full recomputation over the filtered dataset.
type Views struct {
	Groups  map[models.GroupMode]mq.ViewMessage `json:"groups"`
	Daily   []models.DailySeries                `json:"daily"`
	Options query.FilterOptions                 `json:"options"`
	Filter  query.Filter                        `json:"filter"`
}

// ViewService holds the current dataset and filter and republishes every view when
// either changes. client and sink are optional.
type ViewService struct {
	// publishMu serializes a state change with its publication, so the retained view
	// topics always match the latest dataset and filter pair.
	publishMu sync.Mutex
	mu        sync.Mutex
	dataset   models.Dataset
	filter    query.Filter

	engine       *aggregate.Engine
	metric       models.MetricMode
	client       interfaces.IMqClient
	topicManager interfaces.ITopicManager
	sink         SummarySink
	logger       zerolog.Logger
}

func NewViewService(
	engine *aggregate.Engine,
	metric models.MetricMode,
	client interfaces.IMqClient,
	topicManager interfaces.ITopicManager,
	sink SummarySink,
	logger zerolog.Logger,
) *ViewService {
	return &ViewService{
		engine:       engine,
		metric:       metric,
		client:       client,
		topicManager: topicManager,
		sink:         sink,
		logger:       logger,
	}
}

// SetDataset replaces the dataset, publishes the sync status and recomputes the views.
// Unfiltered summaries go to the sink, one point set per refresh.
func (v *ViewService) SetDataset(cycleID, key string, ds models.Dataset) (Views, error) {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	v.dataset = ds
	filter := v.filter
	v.mu.Unlock()

	v.publish(v.topicStatus(), mq.SyncStatusMessage{
		CycleID:   cycleID,
		Key:       key,
		Source:    ds.Source,
		Records:   len(ds.Records),
		Dropped:   ds.Dropped,
		FromCache: ds.FromCache,
		Stale:     ds.Stale,
		Available: ds.Available(),
		Timestamp: ds.Timestamp,
	})

	views, err := v.compute(ds, filter)
	if err != nil {
		return Views{}, err
	}
	v.publishViews(views)

	if v.sink != nil && ds.Available() {
		full := views
		if !filter.IsZero() {
			if full, err = v.compute(ds, query.Filter{}); err != nil {
				return Views{}, err
			}
		}
		for _, mode := range viewModes {
			v.sink.WriteSummaries(mode, v.metric, full.Groups[mode].Entries, ds.Timestamp)
		}
	}
	return views, nil
}

// SetFilter replaces the filter and recomputes the views over the current dataset.
func (v *ViewService) SetFilter(f query.Filter) (Views, error) {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	v.filter = f
	ds := v.dataset
	v.mu.Unlock()

	v.logger.Debug().Interface("filter", f).Msg("Filter changed")

	views, err := v.compute(ds, f)
	if err != nil {
		return Views{}, err
	}
	v.publishViews(views)
	return views, nil
}

// ApplyFilter is SetFilter for callers that only need the side effects.
func (v *ViewService) ApplyFilter(f query.Filter) {
	if _, err := v.SetFilter(f); err != nil {
		v.logger.Error().Err(err).Msg("Failed to recompute views")
	}
}

func (v *ViewService) Current() (Views, error) {
	v.mu.Lock()
	ds, f := v.dataset, v.filter
	v.mu.Unlock()
	return v.compute(ds, f)
}

func (v *ViewService) compute(ds models.Dataset, f query.Filter) (Views, error) {
	filtered := query.Apply(ds.Records, f)

	views := Views{
		Groups:  make(map[models.GroupMode]mq.ViewMessage, len(viewModes)),
		Daily:   aggregate.DailyRealization(filtered, singleOfficer(filtered, f)),
		Options: query.Options(ds.Records),
		Filter:  f,
	}

	for _, mode := range viewModes {
		entries, err := v.engine.Aggregate(filtered, mode, v.metric)
		if err != nil {
			return Views{}, err
		}
		views.Groups[mode] = mq.ViewMessage{
			View:    mode,
			Metric:  v.metric,
			Entries: entries,
			Totals:  aggregate.Totals(entries),
			Records: len(filtered),
		}
	}
	return views, nil
}

func (v *ViewService) publishViews(views Views) {
	if v.topicManager == nil {
		return
	}
	for _, mode := range viewModes {
		v.publish(v.topicManager.GetViewTopic(string(mode)), views.Groups[mode])
	}
	v.publish(v.topicManager.GetViewTopic(DailyView), views.Daily)
}

func (v *ViewService) topicStatus() string {
	if v.topicManager == nil {
		return ""
	}
	return v.topicManager.GetStatusTopic()
}

func (v *ViewService) publish(topic string, data interface{}) {
	if v.client == nil || topic == "" || !v.client.IsConnected() {
		return
	}
	if err := v.client.PublishJson(topic, data); err != nil {
		v.logger.Warn().Err(err).Str("topic", topic).Msg("Failed to publish view")
	}
}

// singleOfficer returns the officer name when the filter narrows the records down to one
// officer, which switches the daily series from per-unit to that officer.
func singleOfficer(records []models.Record, f query.Filter) string {
	if strings.TrimSpace(f.Officer) == "" || f.Officer == query.AnyValue || len(records) == 0 {
		return ""
	}
	name := records[0].OfficerName
	for _, r := range records[1:] {
		if r.OfficerName != name {
			return ""
		}
	}
	return name
}

func (v *ViewService) Dataset() models.Dataset {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dataset
}
