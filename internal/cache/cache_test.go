package cache

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func TestMemoryCacheFreshnessBoundary(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: t0}
	ttl := 5 * time.Minute
	c := NewMemoryCache(ttl, nil, zerolog.Nop()).WithClock(clock.Now)

	c.Put("lpb_data", []models.Record{{CustomerID: "111111"}}, t0, "rest", 0)

	clock.t = t0.Add(ttl - time.Millisecond)
	e, ok := c.Get("lpb_data")
	if !ok || !e.Fresh {
		t.Errorf("entry should be fresh just before TTL, got ok=%v fresh=%v", ok, e.Fresh)
	}

	clock.t = t0.Add(ttl + time.Millisecond)
	e, ok = c.Get("lpb_data")
	if !ok {
		t.Fatal("stale entry must still be returned")
	}
	if e.Fresh {
		t.Error("entry should be stale just after TTL")
	}
	if len(e.Records) != 1 {
		t.Errorf("stale entry lost records: %d", len(e.Records))
	}
}

func TestMemoryCacheReplacesAndCopies(t *testing.T) {
	c := NewMemoryCache(time.Minute, nil, zerolog.Nop())
	now := time.Now()

	input := []models.Record{{CustomerID: "111111"}, {CustomerID: "222222"}}
	c.Put("k", input, now, "rest", 0)
	input[0].CustomerID = "mutated"

	e, _ := c.Get("k")
	if e.Records[0].CustomerID != "111111" {
		t.Error("cache entry changed after caller mutated its slice")
	}

	c.Put("k", []models.Record{{CustomerID: "333333"}}, now, "sheet", 2)
	e, _ = c.Get("k")
	if len(e.Records) != 1 || e.Records[0].CustomerID != "333333" || e.Source != "sheet" || e.Dropped != 2 {
		t.Errorf("entry not replaced: %+v", e)
	}

	grown := append(e.Records, models.Record{CustomerID: "444444"})
	_ = grown
	again, _ := c.Get("k")
	if len(again.Records) != 1 {
		t.Error("append on a returned slice leaked into the cache")
	}
}

func TestMemoryCacheKeysAreIndependent(t *testing.T) {
	c := NewMemoryCache(time.Minute, nil, zerolog.Nop())
	c.Put("a", []models.Record{{CustomerID: "111111"}}, time.Now(), "rest", 0)

	if _, ok := c.Get("b"); ok {
		t.Error("unexpected entry for unknown key")
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived Clear")
	}
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	v := 220.5
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	first := NewMemoryCache(time.Minute, store, zerolog.Nop())
	first.Put("https://x.supabase.co/lpb_data", []models.Record{{CustomerID: "111111", Voltage: &v}}, ts, "rest", 3)

	second := NewMemoryCache(time.Minute, store, zerolog.Nop()).WithClock(func() time.Time { return ts.Add(time.Hour) })
	e, ok := second.Get("https://x.supabase.co/lpb_data")
	if !ok {
		t.Fatal("snapshot not loaded after restart")
	}
	if e.Fresh {
		t.Error("an hour-old snapshot should be stale")
	}
	if !e.Timestamp.Equal(ts) || e.Dropped != 3 || e.Records[0].Voltage == nil || *e.Records[0].Voltage != 220.5 {
		t.Errorf("snapshot content changed: %+v", e)
	}

	if err := second.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	third := NewMemoryCache(time.Minute, store, zerolog.Nop())
	if _, ok := third.Get("https://x.supabase.co/lpb_data"); ok {
		t.Error("snapshot survived Clear")
	}
}

func TestFileStoreKeyMismatch(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Save(&Entry{Key: "a/b"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := store.Load("a_b"); err != ErrSnapshotMismatch {
		t.Errorf("expected ErrSnapshotMismatch, got %v", err)
	}
}
