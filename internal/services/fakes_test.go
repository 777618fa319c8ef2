package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"lpb-monitor/internal/assembler"
	"lpb-monitor/internal/cache"
	"lpb-monitor/internal/models"
	"lpb-monitor/internal/normalize"
	"lpb-monitor/internal/source"
)

var testHeaders = []string{"IDPEL", "ULP", "PEGAWAI", "STATUS", "LATITUDE", "LONGITUDE"}

func table(rows ...[]string) *models.RawTable {
	return &models.RawTable{Headers: testHeaders, Rows: rows}
}

func row(id, unit, officer, status string) []string {
	return []string{id, unit, officer, status, "-0.3", "100.4"}
}

func newAssembler() *assembler.Assembler {
	return assembler.New(normalize.New(), zerolog.Nop())
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newCache(clock *fakeClock) *cache.MemoryCache {
	return cache.NewMemoryCache(5*time.Minute, nil, zerolog.Nop()).WithClock(clock.Now)
}

// fakeFetcher serves results in order; the last one repeats.
type fakeFetcher struct {
	name    string
	mu      sync.Mutex
	results []fetchResult
	calls   int
	bounds  *models.RawTable
	pingErr error
	block   chan struct{}
	started chan struct{}
}

type fetchResult struct {
	table *models.RawTable
	err   error
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(ctx context.Context, table string) (*models.RawTable, error) {
	f.mu.Lock()
	f.calls++
	i := min(f.calls-1, len(f.results)-1)
	res := f.results[i]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return res.table, res.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) Ping(ctx context.Context, table string) error {
	return f.pingErr
}

type boundsFetcher struct {
	*fakeFetcher
	err error
}

func (b *boundsFetcher) FetchBounds(ctx context.Context, table string, bounds models.Bounds) (*models.RawTable, error) {
	return b.bounds, b.err
}

func httpFailure(name string, status int) error {
	return &source.FetchError{Source: name, Status: status, Detail: fmt.Sprintf("status %d", status)}
}

type fakeUploader struct {
	chunks [][]models.Record
	failAt int
}

func (u *fakeUploader) Upload(ctx context.Context, table string, records []models.Record) (int, error) {
	u.chunks = append(u.chunks, records)
	if len(u.chunks) == u.failAt {
		return 0, &source.FetchError{Source: "rest", Status: 413, Detail: "payload too large"}
	}
	return len(records), nil
}

type publishedMessage struct {
	topic string
	data  interface{}
}

type fakeMqClient struct {
	mu        sync.Mutex
	published []publishedMessage
}

func (c *fakeMqClient) PublishJson(topic string, data interface{}) error {
	c.mu.Lock()
	c.published = append(c.published, publishedMessage{topic, data})
	c.mu.Unlock()
	return nil
}

func (c *fakeMqClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	return nil
}

func (c *fakeMqClient) Disconnect(ctx context.Context) {}

func (c *fakeMqClient) Connect(ctx context.Context) error { return nil }

func (c *fakeMqClient) IsConnected() bool { return true }

func (c *fakeMqClient) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.published))
	for _, m := range c.published {
		out = append(out, m.topic)
	}
	return out
}

type fakeSink struct {
	mu     sync.Mutex
	writes map[models.GroupMode]int
}

func (s *fakeSink) WriteSummaries(view models.GroupMode, metric models.MetricMode, entries []models.SummaryEntry, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes == nil {
		s.writes = map[models.GroupMode]int{}
	}
	s.writes[view] += len(entries)
}

func (c *fakeMqClient) Last(topic string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.published) - 1; i >= 0; i-- {
		if c.published[i].topic == topic {
			return c.published[i].data, true
		}
	}
	return nil, false
}

func (s *fakeSink) Snapshot() map[models.GroupMode]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.GroupMode]int, len(s.writes))
	for k, n := range s.writes {
		out[k] = n
	}
	return out
}
