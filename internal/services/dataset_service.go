package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"lpb-monitor/internal/assembler"
	"lpb-monitor/internal/cache"
	"lpb-monitor/internal/delimited"
	"lpb-monitor/internal/models"
	"lpb-monitor/internal/query"
	"lpb-monitor/internal/source"
)

// ConnectionStatus is the outcome of pinging one source.
type ConnectionStatus struct {
	Source  string        `json:"source"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

type DatasetService struct {
	sources      []source.Fetcher
	assembler    *assembler.Assembler
	cache        *cache.MemoryCache
	defaultTable string
	group        singleflight.Group
	now          func() time.Time
	logger       zerolog.Logger
}

// NewDatasetService tries sources in the given order on every refresh.
func NewDatasetService(
	sources []source.Fetcher,
	assembler *assembler.Assembler,
	cache *cache.MemoryCache,
	defaultTable string,
	logger zerolog.Logger,
) *DatasetService {
	return &DatasetService{
		sources:      sources,
		assembler:    assembler,
		cache:        cache,
		defaultTable: defaultTable,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *DatasetService) WithClock(now func() time.Time) *DatasetService {
	s.now = now
	return s
}

func (s *DatasetService) key(key string) string {
	if key == "" {
		return s.defaultTable
	}
	return key
}

// FetchDataset serves a fresh cache entry unless force is set. Otherwise it refreshes,
// joining any refresh of the same key already in flight. Fetch failures degrade to the
// stale entry, then the next source, then an empty dataset with a zero timestamp. A
// parse failure is returned as an error and leaves the cache untouched.
func (s *DatasetService) FetchDataset(ctx context.Context, key string, force bool) (models.Dataset, error) {
	key = s.key(key)

	if !force {
		if entry, ok := s.cache.Get(key); ok && entry.Fresh {
			s.logger.Debug().Str("key", key).Time("timestamp", entry.Timestamp).Msg("Serving fresh cache entry")
			return fromEntry(entry), nil
		}
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.refresh(ctx, key)
	})
	if shared {
		s.logger.Debug().Str("key", key).Msg("Joined in-flight refresh")
	}
	if err != nil {
		return models.Dataset{}, err
	}
	return v.(models.Dataset), nil
}

func (s *DatasetService) refresh(ctx context.Context, key string) (models.Dataset, error) {
	for i, src := range s.sources {
		raw, err := src.Fetch(ctx, key)
		if err == nil {
			return s.store(key, src.Name(), raw), nil
		}

		var parseErr *delimited.ParseError
		if errors.As(err, &parseErr) {
			return models.Dataset{}, fmt.Errorf("parsing %s dataset: %w", src.Name(), err)
		}

		s.logFetchFailure(src.Name(), key, err)

		if entry, ok := s.cache.Get(key); ok {
			s.logger.Info().
				Str("key", key).
				Str("source", src.Name()).
				Time("timestamp", entry.Timestamp).
				Msg("Serving stale cache after fetch failure")
			ds := fromEntry(entry)
			ds.Stale = !entry.Fresh
			return ds, nil
		}

		if i < len(s.sources)-1 {
			s.logger.Info().
				Str("key", key).
				Str("failed", src.Name()).
				Str("next", s.sources[i+1].Name()).
				Msg("Falling back to next source")
		}
	}

	s.logger.Warn().Str("key", key).Msg("No source could serve the dataset")
	return models.Dataset{Records: []models.Record{}}, nil
}

func (s *DatasetService) store(key, name string, raw *models.RawTable) models.Dataset {
	batch := s.assembler.Assemble(raw)
	if batch.Dropped > 0 {
		s.logger.Debug().Str("key", key).Int("dropped", batch.Dropped).Msg("Dropped rows without usable customer id")
	}

	if len(batch.Records) == 0 {
		if entry, ok := s.cache.Get(key); ok && len(entry.Records) > 0 {
			s.logger.Warn().
				Str("key", key).
				Str("source", name).
				Int("dropped", batch.Dropped).
				Msg("Fetch returned no records, keeping cached dataset")
			ds := fromEntry(entry)
			ds.Stale = !entry.Fresh
			return ds
		}
	}

	entry := s.cache.Put(key, batch.Records, s.now(), name, batch.Dropped)
	s.logger.Info().
		Str("key", key).
		Str("source", name).
		Int("records", len(entry.Records)).
		Msg("Dataset refreshed")

	ds := fromEntry(entry)
	ds.FromCache = false
	return ds
}

func (s *DatasetService) logFetchFailure(name, key string, err error) {
	event := s.logger.Warn().Err(err).Str("source", name).Str("table", key)

	var fetchErr *source.FetchError
	if errors.As(err, &fetchErr) {
		event = event.Int("status", fetchErr.Status)
	}
	event.Msg("Fetch failed")
}

// FetchByBounds asks the first bounds-capable source for the viewport, falling back to
// filtering the cached dataset client-side.
func (s *DatasetService) FetchByBounds(ctx context.Context, key string, bounds models.Bounds) ([]models.Record, error) {
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidBounds, bounds)
	}
	key = s.key(key)

	for _, src := range s.sources {
		bf, ok := src.(source.BoundsFetcher)
		if !ok {
			continue
		}

		raw, err := bf.FetchBounds(ctx, key, bounds)
		if err != nil {
			s.logFetchFailure(src.Name(), key, err)
			break
		}

		batch := s.assembler.Assemble(raw)
		return query.InBounds(batch.Records, bounds), nil
	}

	ds, err := s.FetchDataset(ctx, key, false)
	if err != nil {
		return nil, err
	}
	return query.InBounds(ds.Records, bounds), nil
}

func (s *DatasetService) ClearCache() error {
	if err := s.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	s.logger.Info().Msg("Cache cleared")
	return nil
}

// TestConnection pings every source that supports it.
func (s *DatasetService) TestConnection(ctx context.Context) []ConnectionStatus {
	statuses := make([]ConnectionStatus, 0, len(s.sources))
	for _, src := range s.sources {
		pinger, ok := src.(source.Pinger)
		if !ok {
			continue
		}

		start := s.now()
		err := pinger.Ping(ctx, s.defaultTable)
		status := ConnectionStatus{
			Source:  src.Name(),
			OK:      err == nil,
			Latency: s.now().Sub(start),
		}
		if err != nil {
			status.Error = err.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func fromEntry(e cache.Entry) models.Dataset {
	return models.Dataset{
		Records:   e.Records,
		FromCache: true,
		Timestamp: e.Timestamp,
		Source:    e.Source,
		Dropped:   e.Dropped,
	}
}
