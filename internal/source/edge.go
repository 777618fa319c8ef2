package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/assembler"
	"lpb-monitor/internal/config/components"
	"lpb-monitor/internal/models"
)

const edgeUploadAction = "UPLOAD_BULK"

// EdgeSource talks to an edge SQL worker that serves the table as JSON pages.
type EdgeSource struct {
	endpoint string
	pageSize int
	maxRows  int
	http     httpTransport
	logger   zerolog.Logger
}

type edgeUploadRequest struct {
	Action  string           `json:"action"`
	Table   string           `json:"table"`
	Payload []map[string]any `json:"payload"`
}

type edgeUploadResponse struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func NewEdgeSource(cfg components.SourceConfigImpl, client *http.Client, logger zerolog.Logger) *EdgeSource {
	return &EdgeSource{
		endpoint: strings.TrimRight(cfg.EdgeURL, "/"),
		pageSize: cfg.PageSize,
		maxRows:  cfg.MaxRows,
		http:     newHTTPTransport(components.SourceEdge, client, cfg.FetchTimeout, logger),
		logger:   logger,
	}
}

func (s *EdgeSource) Name() string {
	return components.SourceEdge
}

func (s *EdgeSource) Fetch(ctx context.Context, table string) (*models.RawTable, error) {
	rows, capped, err := collect(ctx, s.pageSize, s.maxRows, func(ctx context.Context, offset, limit int) ([]map[string]any, error) {
		query := url.Values{
			"table":  {table},
			"limit":  {strconv.Itoa(limit)},
			"offset": {strconv.Itoa(offset)},
		}
		status, body, err := s.http.do(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil, nil)
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

func (s *EdgeSource) Upload(ctx context.Context, table string, records []models.Record) (int, error) {
	req := edgeUploadRequest{
		Action:  edgeUploadAction,
		Table:   table,
		Payload: assembler.UploadRows(records),
	}

	status, body, err := s.http.do(ctx, http.MethodPost, s.endpoint, nil, req)
	if err != nil {
		return 0, err
	}

	var resp edgeUploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &FetchError{Source: s.Name(), Status: status, Detail: "upload response", Err: ErrMalformedPayload}
	}
	if !resp.Success {
		detail := resp.Error
		if detail == "" {
			detail = resp.Message
		}
		return 0, &FetchError{Source: s.Name(), Status: status, Detail: detail}
	}
	if resp.Count == nil {
		return len(records), nil
	}
	return *resp.Count, nil
}

func (s *EdgeSource) Ping(ctx context.Context, table string) error {
	query := url.Values{"table": {table}, "limit": {"1"}, "offset": {"0"}}
	status, body, err := s.http.do(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil, nil)
	if err != nil {
		return err
	}
	_, err = decodeRows(s.Name(), status, body)
	return err
}
