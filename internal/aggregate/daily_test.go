package aggregate

import (
	"sort"
	"testing"

	"lpb-monitor/internal/models"
)

func TestDailyRealizationPerUnit(t *testing.T) {
	records := []models.Record{
		{Unit: "BASO", Date: "10", TotalWorkOrders: 4, PaidDirect: 1, PaidOffline: 1},
		{Unit: "BASO", Date: "2", TotalWorkOrders: 3, PaidPromise: 2},
		{Unit: "AGAM", Date: "2", TotalWorkOrders: 1, PaidDirect: 1},
		{Unit: "AGAM", Date: "", TotalWorkOrders: 100},
	}

	series := DailyRealization(records, "")
	if len(series) != 2 || series[0].Label != "AGAM" || series[1].Label != "BASO" {
		t.Fatalf("unexpected series: %+v", series)
	}

	baso := series[1].Points
	if len(baso) != 2 || baso[0].Date != "2" || baso[1].Date != "10" {
		t.Fatalf("dates not naturally sorted: %+v", baso)
	}
	if baso[0].Realized != 2 || baso[0].Target != 3 || baso[1].Realized != 2 || baso[1].Target != 4 {
		t.Errorf("baso points = %+v", baso)
	}

	agam := series[0].Points
	if agam[1].Realized != 0 || agam[1].Target != 0 {
		t.Errorf("missing day should be zero, got %+v", agam[1])
	}
}

func TestDailyRealizationOfficer(t *testing.T) {
	records := []models.Record{
		{OfficerName: "ANI", Date: "1", TotalWorkOrders: 2, PaidDirect: 1},
		{OfficerName: "BUDI", Date: "3", TotalWorkOrders: 9, PaidDirect: 9},
	}

	series := DailyRealization(records, "ANI")
	if len(series) != 1 || series[0].Label != "ANI" {
		t.Fatalf("unexpected series: %+v", series)
	}
	pts := series[0].Points
	if len(pts) != 2 || pts[0].Realized != 1 || pts[1].Realized != 0 {
		t.Errorf("officer points = %+v", pts)
	}
}

func TestNaturalLess(t *testing.T) {
	input := []string{"10/05", "2/05", "01/05", "1/05", "A", "9"}
	sort.Slice(input, func(i, j int) bool { return naturalLess(input[i], input[j]) })

	want := []string{"1/05", "01/05", "2/05", "9", "10/05", "A"}
	for i := range want {
		if input[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", input, want)
		}
	}
}
