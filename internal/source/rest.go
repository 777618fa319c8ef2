package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/assembler"
	"lpb-monitor/internal/config/components"
	"lpb-monitor/internal/models"
)

// RestSource reads and upserts lpb rows through a hosted Postgres REST API.
type RestSource struct {
	baseURL  string
	key      string
	pageSize int
	maxRows  int
	http     httpTransport
	logger   zerolog.Logger
}

func NewRestSource(cfg components.SourceConfigImpl, client *http.Client, logger zerolog.Logger) *RestSource {
	return &RestSource{
		baseURL:  strings.TrimRight(cfg.RestURL, "/"),
		key:      strings.TrimSpace(cfg.RestKey),
		pageSize: cfg.PageSize,
		maxRows:  cfg.MaxRows,
		http:     newHTTPTransport(components.SourceRest, client, cfg.FetchTimeout, logger),
		logger:   logger,
	}
}

func (s *RestSource) Name() string {
	return components.SourceRest
}

func (s *RestSource) Fetch(ctx context.Context, table string) (*models.RawTable, error) {
	query := url.Values{"select": {"*"}}
	return s.fetchPaged(ctx, table, query)
}

func (s *RestSource) FetchBounds(ctx context.Context, table string, b models.Bounds) (*models.RawTable, error) {
	query := url.Values{"select": {"*"}}
	query.Add("latitude", "gte."+formatCoord(b.MinLat))
	query.Add("latitude", "lte."+formatCoord(b.MaxLat))
	query.Add("longitude", "gte."+formatCoord(b.MinLng))
	query.Add("longitude", "lte."+formatCoord(b.MaxLng))
	return s.fetchPaged(ctx, table, query)
}

func (s *RestSource) fetchPaged(ctx context.Context, table string, query url.Values) (*models.RawTable, error) {
	endpoint := s.tableURL(table) + "?" + query.Encode()

	rows, capped, err := collect(ctx, s.pageSize, s.maxRows, func(ctx context.Context, offset, limit int) ([]map[string]any, error) {
		header := s.headers()
		header.Set("Range-Unit", "items")
		header.Set("Range", fmt.Sprintf("%d-%d", offset, offset+limit-1))

		status, body, err := s.http.do(ctx, http.MethodGet, endpoint, header, nil)
		if status == http.StatusRequestedRangeNotSatisfiable {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return decodeRows(s.Name(), status, body)
	})
	if err != nil {
		return nil, err
	}
	if capped {
		s.logger.Warn().Str("table", table).Int("max_rows", s.maxRows).Msg("Row cap reached, result truncated")
	}
	return objectsToTable(rows), nil
}

func (s *RestSource) Upload(ctx context.Context, table string, records []models.Record) (int, error) {
	endpoint := s.tableURL(table) + "?on_conflict=" + models.IdentityColumn
	header := s.headers()
	header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	if _, _, err := s.http.do(ctx, http.MethodPost, endpoint, header, assembler.UploadRows(records)); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *RestSource) Ping(ctx context.Context, table string) error {
	endpoint := s.tableURL(table) + "?select=" + models.IdentityColumn + "&limit=1"
	_, _, err := s.http.do(ctx, http.MethodGet, endpoint, s.headers(), nil)
	return err
}

func (s *RestSource) tableURL(table string) string {
	return s.baseURL + "/rest/v1/" + url.PathEscape(table)
}

func (s *RestSource) headers() http.Header {
	h := http.Header{}
	h.Set("apikey", s.key)
	h.Set("Authorization", "Bearer "+s.key)
	h.Set("Accept", "application/json")
	return h
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
