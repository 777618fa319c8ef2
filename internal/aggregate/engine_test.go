package aggregate

import (
	"math/rand"
	"strings"
	"testing"

	"lpb-monitor/internal/models"
)

func randomRecords(n int, seed int64) []models.Record {
	rng := rand.New(rand.NewSource(seed))
	units := []string{"BUKITTINGGI", "BASO", "PAYAKUMBUH", "-", ""}
	officers := []string{"ANI", "BUDI", "CICI", "-"}
	statuses := []models.ValidationStatus{models.StatusValid, models.StatusInvalid, models.StatusUnvalidated}
	dates := []string{"01/05", "1/5", "02/05", ""}

	out := make([]models.Record, n)
	for i := range out {
		out[i] = models.Record{
			CustomerID:       "ID" + string(rune('A'+i%26)),
			Unit:             units[rng.Intn(len(units))],
			OfficerName:      officers[rng.Intn(len(officers))],
			ValidationStatus: statuses[rng.Intn(len(statuses))],
			Date:             dates[rng.Intn(len(dates))],
			TotalWorkOrders:  float64(rng.Intn(50)),
			PaidDirect:       float64(rng.Intn(20)),
			PaidOffline:      float64(rng.Intn(20)),
			PaidPromise:      float64(rng.Intn(20)),
		}
	}
	return out
}

func TestAggregateConservation(t *testing.T) {
	records := randomRecords(500, 42)
	engine := New()

	var wantRealized float64
	for _, r := range records {
		wantRealized += r.PaidDirect + r.PaidOffline + r.PaidPromise
	}

	for _, group := range []models.GroupMode{models.GroupByUnit, models.GroupByOfficer, models.GroupByDate} {
		for _, metric := range []models.MetricMode{models.CountMode, models.BillingMode} {
			entries, err := engine.Aggregate(records, group, metric)
			if err != nil {
				t.Fatalf("%s/%s: %v", group, metric, err)
			}

			total := 0
			var realized float64
			for _, e := range entries {
				total += e.Total
				realized += e.Realized()
				if e.Valid+e.Invalid+e.Unvalidated() != e.Total || e.Unvalidated() < 0 {
					t.Errorf("%s/%s %q: status buckets do not add up: %+v", group, metric, e.Key, e)
				}
			}
			if total != len(records) {
				t.Errorf("%s/%s: total = %d, want %d", group, metric, total, len(records))
			}
			if realized != wantRealized {
				t.Errorf("%s/%s: realized = %v, want %v", group, metric, realized, wantRealized)
			}
		}
	}
}

func TestAggregateSortAndTies(t *testing.T) {
	records := []models.Record{
		{Unit: "C", TotalWorkOrders: 1},
		{Unit: "A", TotalWorkOrders: 5},
		{Unit: "B", TotalWorkOrders: 5},
		{Unit: "A"},
		{Unit: "C"},
		{Unit: "B"},
		{Unit: "D", TotalWorkOrders: 9},
	}

	entries, _ := New().Aggregate(records, models.GroupByUnit, models.CountMode)
	if got := keys(entries); got != "C,A,B,D" {
		t.Errorf("count order = %s, want C,A,B,D", got)
	}

	entries, _ = New().Aggregate(records, models.GroupByUnit, models.BillingMode)
	if got := keys(entries); got != "D,A,B,C" {
		t.Errorf("billing order = %s, want D,A,B,C", got)
	}
}

func TestAggregateUnknownKey(t *testing.T) {
	records := []models.Record{{OfficerName: ""}, {OfficerName: "-"}, {OfficerName: "  "}, {OfficerName: "ANI"}}

	entries, _ := New().Aggregate(records, models.GroupByOfficer, models.CountMode)
	if len(entries) != 2 || entries[0].Key != UnknownKey || entries[0].Total != 3 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestAggregateDateIsStringIdentity(t *testing.T) {
	records := []models.Record{{Date: "01/01"}, {Date: "1/1"}}

	entries, _ := New().Aggregate(records, models.GroupByDate, models.CountMode)
	if len(entries) != 2 {
		t.Errorf("expected distinct date groups, got %+v", entries)
	}

	merge := func(s string) string { return strings.TrimLeft(strings.ReplaceAll(s, "/0", "/"), "0") }
	entries, _ = New().WithDateKey(merge).Aggregate(records, models.GroupByDate, models.CountMode)
	if len(entries) != 1 || entries[0].Total != 2 {
		t.Errorf("date hook should merge groups, got %+v", entries)
	}
}

func TestAggregateUnknownMode(t *testing.T) {
	if _, err := New().Aggregate(nil, "region", models.CountMode); err == nil {
		t.Error("expected error for unknown group mode")
	}
	if _, err := New().Aggregate(nil, models.GroupByUnit, "sum"); err == nil {
		t.Error("expected error for unknown metric mode")
	}
}

func TestTotals(t *testing.T) {
	entries := []models.SummaryEntry{
		{Key: "A", Total: 3, Valid: 1, Invalid: 1, TotalWorkOrders: 10, PaidDirect: 2},
		{Key: "B", Total: 2, Valid: 2, TotalWorkOrders: 5, PaidOffline: 1, PaidPromise: 1},
	}

	got := Totals(entries)
	if got.Key != TotalKey || got.Total != 5 || got.Valid != 3 || got.Invalid != 1 || got.TotalWorkOrders != 15 || got.Realized() != 4 {
		t.Errorf("Totals = %+v", got)
	}
}

func keys(entries []models.SummaryEntry) string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return strings.Join(out, ",")
}
