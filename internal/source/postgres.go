package source

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"lpb-monitor/internal/config/components"
	"lpb-monitor/internal/models"
)

// RecordStore is the subset of the record repository the Postgres source needs.
type RecordStore interface {
	FindPage(ctx context.Context, table string, offset, limit int) ([]models.LPBRow, error)
	FindInBounds(ctx context.Context, table string, b models.Bounds, offset, limit int) ([]models.LPBRow, error)
	Upsert(ctx context.Context, table string, rows []models.LPBRow) (int64, error)
	Count(ctx context.Context, table string) (int64, error)
}

// PostgresSource reads lpb rows straight from the database.
type PostgresSource struct {
	store    RecordStore
	pageSize int
	maxRows  int
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewPostgresSource(cfg components.SourceConfigImpl, store RecordStore, logger zerolog.Logger) *PostgresSource {
	return &PostgresSource{
		store:    store,
		pageSize: cfg.PageSize,
		maxRows:  cfg.MaxRows,
		timeout:  cfg.FetchTimeout,
		logger:   logger,
	}
}

func (s *PostgresSource) Name() string {
	return components.SourcePostgres
}

func (s *PostgresSource) Fetch(ctx context.Context, table string) (*models.RawTable, error) {
	return s.fetch(ctx, table, func(ctx context.Context, offset, limit int) ([]models.LPBRow, error) {
		return s.store.FindPage(ctx, table, offset, limit)
	})
}

func (s *PostgresSource) FetchBounds(ctx context.Context, table string, b models.Bounds) (*models.RawTable, error) {
	return s.fetch(ctx, table, func(ctx context.Context, offset, limit int) ([]models.LPBRow, error) {
		return s.store.FindInBounds(ctx, table, b, offset, limit)
	})
}

func (s *PostgresSource) fetch(ctx context.Context, table string, page func(ctx context.Context, offset, limit int) ([]models.LPBRow, error)) (*models.RawTable, error) {
	rows, capped, err := collect(ctx, s.pageSize, s.maxRows, func(ctx context.Context, offset, limit int) ([]models.LPBRow, error) {
		ctx, cancel := s.bounded(ctx)
		defer cancel()
		return page(ctx, offset, limit)
	})
	if err != nil {
		return nil, s.wrap(err)
	}
	if capped {
		s.logger.Warn().Str("table", table).Int("max_rows", s.maxRows).Msg("Row cap reached, result truncated")
	}

	t := &models.RawTable{Headers: models.LPBColumns, Rows: make([][]string, 0, len(rows))}
	for i := range rows {
		t.Rows = append(t.Rows, rows[i].Values())
	}
	return t, nil
}

func (s *PostgresSource) Upload(ctx context.Context, table string, records []models.Record) (int, error) {
	rows := make([]models.LPBRow, len(records))
	for i, r := range records {
		rows[i] = models.LPBRowFromRecord(r)
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	n, err := s.store.Upsert(ctx, table, rows)
	if err != nil {
		return 0, s.wrap(err)
	}
	return int(n), nil
}

func (s *PostgresSource) Ping(ctx context.Context, table string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	if _, err := s.store.Count(ctx, table); err != nil {
		return s.wrap(err)
	}
	return nil
}

func (s *PostgresSource) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// wrap turns database errors into FetchErrors, carrying the server message when there is one.
func (s *PostgresSource) wrap(err error) error {
	fe := &FetchError{Source: s.Name(), Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fe.Detail = pgErr.Code + " " + pgErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		fe.Detail = "timeout"
	}
	return fe
}
