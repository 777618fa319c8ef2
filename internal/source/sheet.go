package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/config/components"
	"lpb-monitor/internal/delimited"
	"lpb-monitor/internal/models"
)

// SheetSource downloads a spreadsheet CSV export. The export is read-only.
type SheetSource struct {
	url     string
	maxRows int
	parser  TextParser
	http    httpTransport
	logger  zerolog.Logger
}

func NewSheetSource(cfg components.SourceConfigImpl, parser TextParser, client *http.Client, logger zerolog.Logger) *SheetSource {
	return &SheetSource{
		url:     cfg.SheetURL,
		maxRows: cfg.MaxRows,
		parser:  parser,
		http:    newHTTPTransport(components.SourceSheet, client, cfg.FetchTimeout, logger),
		logger:  logger,
	}
}

func (s *SheetSource) Name() string {
	return components.SourceSheet
}

// Fetch ignores table; the export URL already names the sheet.
func (s *SheetSource) Fetch(ctx context.Context, table string) (*models.RawTable, error) {
	text, err := s.download(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.parser.Parse(ctx, text, delimited.Options{})
	if err != nil {
		return nil, err
	}
	if res.RecoveredQuotes > 0 {
		s.logger.Warn().Int("recovered_quotes", res.RecoveredQuotes).Msg("Unterminated quotes read as literals")
	}

	t := models.RawTableFromRows(res.Rows)
	if t.Truncate(s.maxRows) {
		s.logger.Warn().Int("max_rows", s.maxRows).Msg("Row cap reached, result truncated")
	}
	return t, nil
}

func (s *SheetSource) Ping(ctx context.Context, table string) error {
	_, err := s.download(ctx)
	return err
}

func (s *SheetSource) download(ctx context.Context) (string, error) {
	status, body, err := s.http.do(ctx, http.MethodGet, s.url, nil, nil)
	if err != nil {
		return "", err
	}

	text, err := delimited.Decode(body)
	if err != nil {
		return "", &FetchError{Source: s.Name(), Status: status, Detail: "decode body", Err: err}
	}
	if strings.HasPrefix(strings.TrimSpace(text), "Error:") {
		return "", &FetchError{Source: s.Name(), Status: status, Detail: strings.TrimSpace(text), Err: ErrMalformedPayload}
	}
	return text, nil
}

func (s *SheetSource) Upload(ctx context.Context, table string, records []models.Record) (int, error) {
	return 0, ErrUploadUnsupported
}
