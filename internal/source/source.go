// Package source holds the transports that deliver survey rows: a hosted Postgres REST
// API, an edge SQL worker, a spreadsheet CSV export and a direct Postgres connection.
package source

import (
	"context"

	"lpb-monitor/internal/delimited"
	"lpb-monitor/internal/models"
)

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, table string) (*models.RawTable, error)
}

// BoundsFetcher is implemented by sources that can filter by location server-side.
type BoundsFetcher interface {
	FetchBounds(ctx context.Context, table string, bounds models.Bounds) (*models.RawTable, error)
}

// Uploader upserts records keyed by customer id and returns the applied count.
type Uploader interface {
	Upload(ctx context.Context, table string, records []models.Record) (int, error)
}

type Pinger interface {
	Ping(ctx context.Context, table string) error
}

// TextParser is satisfied by *delimited.Pool.
type TextParser interface {
	Parse(ctx context.Context, text string, opts delimited.Options) (*delimited.Result, error)
}
