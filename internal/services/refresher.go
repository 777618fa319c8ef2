package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Refresher runs forced refresh cycles on a ticker and on demand. At most one cycle
// runs at a time; overlapping triggers are rejected with ErrRefreshInFlight.
type Refresher struct {
	datasets   *DatasetService
	views      *ViewService
	defaultKey string
	interval   time.Duration
	running    atomic.Bool
	logger     zerolog.Logger
}

func NewRefresher(datasets *DatasetService, views *ViewService, defaultKey string, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		datasets:   datasets,
		views:      views,
		defaultKey: defaultKey,
		interval:   interval,
		logger:     logger,
	}
}

// Refresh runs one forced cycle for key, or the default key when empty.
func (r *Refresher) Refresh(ctx context.Context, key string) error {
	_, err := r.cycle(ctx, key, true)
	return err
}

// Load runs one cycle that may be served from a fresh cache entry.
func (r *Refresher) Load(ctx context.Context, key string) (Views, error) {
	return r.cycle(ctx, key, false)
}

func (r *Refresher) cycle(ctx context.Context, key string, force bool) (Views, error) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Debug().Msg("Skipping refresh, previous cycle still running")
		return Views{}, ErrRefreshInFlight
	}
	defer r.running.Store(false)

	if key == "" {
		key = r.defaultKey
	}
	cycleID := uuid.NewString()
	logger := r.logger.With().Str("cycle_id", cycleID).Str("key", key).Logger()
	start := time.Now()

	ds, err := r.datasets.FetchDataset(ctx, key, force)
	if err != nil {
		logger.Error().Err(err).Msg("Refresh failed")
		return Views{}, err
	}

	views, err := r.views.SetDataset(cycleID, key, ds)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to compute views")
		return Views{}, err
	}

	logger.Info().
		Int("records", len(ds.Records)).
		Bool("from_cache", ds.FromCache).
		Bool("available", ds.Available()).
		Dur("took", time.Since(start)).
		Msg("Refresh cycle finished")
	return views, nil
}

// Run loads the dataset once, then forces a refresh every interval until ctx ends.
func (r *Refresher) Run(ctx context.Context) {
	if _, err := r.Load(ctx, ""); err != nil {
		r.logger.Warn().Err(err).Msg("Initial load failed")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx, ""); err != nil && !errors.Is(err, ErrRefreshInFlight) {
				r.logger.Warn().Err(err).Msg("Periodic refresh failed")
			}
		}
	}
}

// InFlight reports whether a cycle is running.
func (r *Refresher) InFlight() bool {
	return r.running.Load()
}
