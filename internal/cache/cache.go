// Package cache keeps the last good dataset per source key.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/models"
)

// Entry is one cached dataset. Entries are never modified after Put; a refresh
// replaces the whole entry.
type Entry struct {
	Key       string          `json:"key"`
	Records   []models.Record `json:"records"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Dropped   int             `json:"dropped"`

	// Fresh is computed on read.
	Fresh bool `json:"-"`
}

// Persister backs the memory cache with snapshots that survive a restart.
type Persister interface {
	Load(key string) (*Entry, error)
	Save(entry *Entry) error
	Clear() error
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time
	disk    Persister
	logger  zerolog.Logger
}

func NewMemoryCache(ttl time.Duration, disk Persister, logger zerolog.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		now:     time.Now,
		disk:    disk,
		logger:  logger,
	}
}

// WithClock replaces the time source; used by tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the entry for key with Fresh set when it is younger than the TTL. The
// returned records are shared and must be treated as read-only.
func (c *MemoryCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		e, ok = c.loadFromDisk(key)
		if !ok {
			return Entry{}, false
		}
	}

	out := *e
	out.Records = e.Records[:len(e.Records):len(e.Records)]
	out.Fresh = c.now().Sub(e.Timestamp) < c.ttl
	return out, true
}

// Put stores a private copy of records under key, replacing any previous entry.
func (c *MemoryCache) Put(key string, records []models.Record, timestamp time.Time, source string, dropped int) Entry {
	e := &Entry{
		Key:       key,
		Records:   append([]models.Record(nil), records...),
		Timestamp: timestamp,
		Source:    source,
		Dropped:   dropped,
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()

	if c.disk != nil {
		if err := c.disk.Save(e); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Failed to persist cache snapshot")
		}
	}

	c.logger.Debug().Str("key", key).Int("records", len(records)).Str("source", source).Msg("Cache entry written")
	out := *e
	out.Fresh = c.now().Sub(timestamp) < c.ttl
	return out
}

func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()

	if c.disk != nil {
		return c.disk.Clear()
	}
	return nil
}

func (c *MemoryCache) loadFromDisk(key string) (*Entry, bool) {
	if c.disk == nil {
		return nil, false
	}

	e, err := c.disk.Load(key)
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("No cache snapshot on disk")
		return nil, false
	}

	c.mu.Lock()
	if cur, ok := c.entries[key]; ok {
		e = cur
	} else {
		c.entries[key] = e
	}
	c.mu.Unlock()
	return e, true
}
