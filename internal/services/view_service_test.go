package services

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/aggregate"
	"lpb-monitor/internal/models"
	"lpb-monitor/internal/mq"
	"lpb-monitor/internal/query"
)

func sampleDataset() models.Dataset {
	return models.Dataset{
		Records: []models.Record{
			{CustomerID: "511000000001", Unit: "ULP A", OfficerName: "BUDI SANTOSO", ValidationStatus: models.StatusValid, Date: "2", PaidDirect: 2, TotalWorkOrders: 3},
			{CustomerID: "511000000002", Unit: "ULP A", OfficerName: "SITI", ValidationStatus: models.StatusInvalid, Date: "10", PaidOffline: 1, TotalWorkOrders: 2},
			{CustomerID: "511000000003", Unit: "ULP B", OfficerName: "BUDI SANTOSO", ValidationStatus: models.StatusUnvalidated, Date: "2"},
		},
		Timestamp: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Source:    "rest",
	}
}

func newViewService(client *fakeMqClient, sink SummarySink) *ViewService {
	return NewViewService(aggregate.New(), models.CountMode, client, mq.NewTopicManager("lpb", zerolog.Nop()), sink, zerolog.Nop())
}

func TestViewServicePublishesOnDataset(t *testing.T) {
	client := &fakeMqClient{}
	sink := &fakeSink{}
	svc := newViewService(client, sink)

	views, err := svc.SetDataset("cycle-1", "lpb_data", sampleDataset())
	if err != nil {
		t.Fatal(err)
	}

	unit := views.Groups[models.GroupByUnit]
	if len(unit.Entries) != 2 || unit.Entries[0].Key != "ULP A" || unit.Totals.Total != 3 {
		t.Fatalf("unit view = %+v", unit)
	}
	if len(views.Daily) != 2 {
		t.Errorf("daily series = %d, want one per unit", len(views.Daily))
	}

	want := []string{
		"lpb/v1/sync/status",
		"lpb/v1/views/unit",
		"lpb/v1/views/officer",
		"lpb/v1/views/date",
		"lpb/v1/views/daily",
	}
	got := client.Topics()
	if len(got) != len(want) {
		t.Fatalf("topics = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("topic %d = %q, want %q", i, got[i], want[i])
		}
	}

	status := client.published[0].data.(mq.SyncStatusMessage)
	if status.CycleID != "cycle-1" || status.Key != "lpb_data" || status.Records != 3 || !status.Available {
		t.Errorf("status = %+v", status)
	}
	if sink.writes[models.GroupByOfficer] != 2 {
		t.Errorf("officer summaries written = %d", sink.writes[models.GroupByOfficer])
	}
}

func TestViewServiceFilter(t *testing.T) {
	svc := newViewService(&fakeMqClient{}, nil)
	if _, err := svc.SetDataset("c", "lpb_data", sampleDataset()); err != nil {
		t.Fatal(err)
	}

	views, err := svc.SetFilter(query.Filter{Officer: "budi"})
	if err != nil {
		t.Fatal(err)
	}

	if got := views.Groups[models.GroupByUnit].Totals.Total; got != 2 {
		t.Errorf("filtered total = %d, want 2", got)
	}
	if len(views.Daily) != 1 || views.Daily[0].Label != "BUDI SANTOSO" {
		t.Errorf("daily = %+v, want one officer series", views.Daily)
	}
	if len(views.Options.Units) != 2 {
		t.Errorf("options should cover the unfiltered dataset: %+v", views.Options)
	}

	current, err := svc.Current()
	if err != nil {
		t.Fatal(err)
	}
	if current.Filter.Officer != "budi" {
		t.Errorf("current filter = %+v", current.Filter)
	}
}

func TestViewServiceWithoutPublisher(t *testing.T) {
	svc := NewViewService(aggregate.New(), models.BillingMode, nil, nil, nil, zerolog.Nop())
	views, err := svc.SetDataset("c", "lpb_data", sampleDataset())
	if err != nil {
		t.Fatal(err)
	}
	if views.Groups[models.GroupByUnit].Entries[0].Key != "ULP A" {
		t.Errorf("billing order = %+v", views.Groups[models.GroupByUnit].Entries)
	}
}

func TestViewServiceFilterLeavesSinkAlone(t *testing.T) {
	sink := &fakeSink{}
	svc := newViewService(&fakeMqClient{}, sink)
	if _, err := svc.SetDataset("c", "lpb_data", sampleDataset()); err != nil {
		t.Fatal(err)
	}
	before := sink.Snapshot()

	if _, err := svc.SetFilter(query.Filter{Officer: "budi"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetFilter(query.Filter{Unit: "ULP B"}); err != nil {
		t.Fatal(err)
	}

	if after := sink.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("filter change wrote summaries: before %v, after %v", before, after)
	}
}

func TestViewServiceSinkIgnoresActiveFilter(t *testing.T) {
	sink := &fakeSink{}
	svc := newViewService(&fakeMqClient{}, sink)
	if _, err := svc.SetFilter(query.Filter{Officer: "siti"}); err != nil {
		t.Fatal(err)
	}

	views, err := svc.SetDataset("c", "lpb_data", sampleDataset())
	if err != nil {
		t.Fatal(err)
	}
	if got := views.Groups[models.GroupByUnit].Totals.Total; got != 1 {
		t.Errorf("published total = %d, want the filtered 1", got)
	}
	if got := sink.Snapshot()[models.GroupByOfficer]; got != 2 {
		t.Errorf("officer summaries written = %d, want every officer", got)
	}
}

func TestViewServiceConcurrentUpdatesPublishLatest(t *testing.T) {
	client := &fakeMqClient{}
	svc := newViewService(client, nil)

	filters := []query.Filter{{}, {Officer: "budi"}, {Unit: "ULP A"}, {Officer: "siti"}}
	second := sampleDataset()
	second.Records = second.Records[:2]
	datasets := []models.Dataset{sampleDataset(), second}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.SetDataset("c", "lpb_data", datasets[i%len(datasets)]); err != nil {
				t.Error(err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.SetFilter(filters[i%len(filters)]); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	current, err := svc.Current()
	if err != nil {
		t.Fatal(err)
	}
	for _, mode := range viewModes {
		last, ok := client.Last("lpb/v1/views/" + string(mode))
		if !ok {
			t.Fatalf("nothing published for %s", mode)
		}
		if !reflect.DeepEqual(last, current.Groups[mode]) {
			t.Errorf("%s: last published %+v, current %+v", mode, last, current.Groups[mode])
		}
	}
	last, _ := client.Last("lpb/v1/views/daily")
	if !reflect.DeepEqual(last, current.Daily) {
		t.Errorf("daily: last published %+v, current %+v", last, current.Daily)
	}
}
