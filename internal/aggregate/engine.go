// Package aggregate derives per-unit, per-officer and per-date rollups from records.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"lpb-monitor/internal/models"
)

// UnknownKey labels records whose grouping value is missing.
const UnknownKey = "TIDAK DIKETAHUI"

const TotalKey = "TOTAL"

type KeyFunc func(r models.Record) string

type Engine struct {
	dateKey func(string) string
}

// New returns an engine that groups dates by their string value as recorded.
func New() *Engine {
	return &Engine{dateKey: func(s string) string { return s }}
}

// WithDateKey replaces the date grouping hook, e.g. to merge "1/1" and "01/01".
func (e *Engine) WithDateKey(fn func(string) string) *Engine {
	if fn != nil {
		e.dateKey = fn
	}
	return e
}

func (e *Engine) KeyFunc(mode models.GroupMode) (KeyFunc, error) {
	switch mode {
	case models.GroupByUnit:
		return func(r models.Record) string { return r.Unit }, nil
	case models.GroupByOfficer:
		return func(r models.Record) string { return r.OfficerName }, nil
	case models.GroupByDate:
		return func(r models.Record) string { return e.dateKey(r.Date) }, nil
	default:
		return nil, fmt.Errorf("unknown group mode %q", mode)
	}
}

func (e *Engine) Aggregate(records []models.Record, group models.GroupMode, metric models.MetricMode) ([]models.SummaryEntry, error) {
	key, err := e.KeyFunc(group)
	if err != nil {
		return nil, err
	}
	if metric != models.CountMode && metric != models.BillingMode {
		return nil, fmt.Errorf("unknown metric mode %q", metric)
	}
	return AggregateBy(records, key, metric), nil
}

// AggregateBy builds one entry per distinct key. Entries are sorted descending by the
// primary metric of the mode; ties keep first-seen key order.
func AggregateBy(records []models.Record, key KeyFunc, metric models.MetricMode) []models.SummaryEntry {
	index := make(map[string]int)
	entries := make([]models.SummaryEntry, 0)

	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" || k == "-" {
			k = UnknownKey
		}

		i, ok := index[k]
		if !ok {
			i = len(entries)
			index[k] = i
			entries = append(entries, models.SummaryEntry{Key: k})
		}

		e := &entries[i]
		e.Total++
		switch r.ValidationStatus {
		case models.StatusValid:
			e.Valid++
		case models.StatusInvalid:
			e.Invalid++
		}
		e.TotalWorkOrders += r.TotalWorkOrders
		e.PaidDirect += r.PaidDirect
		e.PaidOffline += r.PaidOffline
		e.PaidPromise += r.PaidPromise
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if metric == models.BillingMode {
			return entries[a].TotalWorkOrders > entries[b].TotalWorkOrders
		}
		return entries[a].Total > entries[b].Total
	})
	return entries
}

// Totals sums entries into a single footer row.
func Totals(entries []models.SummaryEntry) models.SummaryEntry {
	t := models.SummaryEntry{Key: TotalKey}
	for _, e := range entries {
		t.Total += e.Total
		t.Valid += e.Valid
		t.Invalid += e.Invalid
		t.TotalWorkOrders += e.TotalWorkOrders
		t.PaidDirect += e.PaidDirect
		t.PaidOffline += e.PaidOffline
		t.PaidPromise += e.PaidPromise
	}
	return t
}
