package models

type GroupMode string

const (
	GroupByUnit    GroupMode = "unit"
	GroupByOfficer GroupMode = "officer"
	GroupByDate    GroupMode = "date"
)

type MetricMode string

const (
	CountMode   MetricMode = "count"
	BillingMode MetricMode = "billing"
)

// SummaryEntry is one group of an aggregation. Both count and billing figures are always
// filled; the metric mode only decides the sort order.
type SummaryEntry struct {
	Key             string  `json:"key"`
	Total           int     `json:"total"`
	Valid           int     `json:"valid"`
	Invalid         int     `json:"invalid"`
	TotalWorkOrders float64 `json:"total_work_orders"`
	PaidDirect      float64 `json:"paid_direct"`
	PaidOffline     float64 `json:"paid_offline"`
	PaidPromise     float64 `json:"paid_promise"`
}

func (e SummaryEntry) Unvalidated() int {
	return e.Total - e.Valid - e.Invalid
}

func (e SummaryEntry) Realized() float64 {
	return e.PaidDirect + e.PaidOffline + e.PaidPromise
}

// DailyPoint is the realized amount against the work-order target for one date.
type DailyPoint struct {
	Date     string  `json:"date"`
	Realized float64 `json:"realized"`
	Target   float64 `json:"target"`
}

type DailySeries struct {
	Label  string       `json:"label"`
	Points []DailyPoint `json:"points"`
}
