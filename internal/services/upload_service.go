package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/assembler"
	"lpb-monitor/internal/delimited"
	"lpb-monitor/internal/models"
	"lpb-monitor/internal/source"
)

// UploadResult reports one upload run. When FailedChunk is set, records from
// ResumeFrom onward (in the de-duplicated order) were not sent.
type UploadResult struct {
	Success           bool   `json:"success"`
	Submitted         int    `json:"submitted"`
	Applied           int    `json:"applied"`
	DuplicatesDropped int    `json:"duplicates_dropped"`
	Dropped           int    `json:"dropped"`
	TotalChunks       int    `json:"total_chunks"`
	FailedChunk       int    `json:"failed_chunk,omitempty"`
	ResumeFrom        int    `json:"resume_from,omitempty"`
	ErrorDetail       string `json:"error_detail,omitempty"`
}

type UploadService struct {
	target       source.Uploader
	parser       source.TextParser
	assembler    *assembler.Assembler
	chunkSize    int
	defaultTable string
	onUploaded   func(key string)
	logger       zerolog.Logger
}

func NewUploadService(
	target source.Uploader,
	parser source.TextParser,
	assembler *assembler.Assembler,
	chunkSize int,
	defaultTable string,
	logger zerolog.Logger,
) *UploadService {
	if chunkSize <= 0 {
		chunkSize = 250
	}
	return &UploadService{
		target:       target,
		parser:       parser,
		assembler:    assembler,
		chunkSize:    chunkSize,
		defaultTable: defaultTable,
		logger:       logger,
	}
}

// OnUploaded registers a callback run after every fully successful upload.
func (s *UploadService) OnUploaded(fn func(key string)) {
	s.onUploaded = fn
}

// ImportCSV decodes and parses a delimited export, drops rows without a usable customer
// id and uploads the rest.
func (s *UploadService) ImportCSV(ctx context.Context, key string, raw []byte) (UploadResult, error) {
	if s.target == nil {
		return UploadResult{}, ErrNoUploader
	}

	text, err := delimited.Decode(raw)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to decode import: %w", err)
	}

	parsed, err := s.parser.Parse(ctx, text, delimited.Options{})
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to parse import: %w", err)
	}
	if parsed.RecoveredQuotes > 0 {
		s.logger.Warn().Int("recovered_quotes", parsed.RecoveredQuotes).Msg("Import contained unterminated quotes")
	}

	batch := s.assembler.Assemble(models.RawTableFromRows(parsed.Rows))
	s.logger.Info().
		Int("records", len(batch.Records)).
		Int("dropped", batch.Dropped).
		Str("delimiter", string(parsed.Delimiter)).
		Msg("Parsed import")

	result, err := s.UploadBatch(ctx, key, batch.Records)
	result.Dropped = batch.Dropped
	return result, err
}

// UploadBatch de-duplicates records by customer id and upserts them chunk by chunk,
// stopping at the first chunk that fails.
func (s *UploadService) UploadBatch(ctx context.Context, key string, records []models.Record) (UploadResult, error) {
	if s.target == nil {
		return UploadResult{}, ErrNoUploader
	}
	if key == "" {
		key = s.defaultTable
	}

	unique, duplicates := assembler.Dedupe(records)
	result := UploadResult{
		Submitted:         len(unique),
		DuplicatesDropped: duplicates,
		TotalChunks:       (len(unique) + s.chunkSize - 1) / s.chunkSize,
	}

	for chunk := 0; chunk < result.TotalChunks; chunk++ {
		start := chunk * s.chunkSize
		end := min(start+s.chunkSize, len(unique))

		applied, err := s.target.Upload(ctx, key, unique[start:end])
		if err != nil {
			uploadErr := source.NewUploadError(chunk+1, result.TotalChunks, err)
			result.FailedChunk = chunk + 1
			result.ResumeFrom = start
			result.ErrorDetail = uploadErr.Error()

			s.logger.Error().Err(err).
				Int("chunk", chunk+1).
				Int("total_chunks", result.TotalChunks).
				Int("applied", result.Applied).
				Msg("Upload halted")
			return result, uploadErr
		}

		result.Applied += applied
		s.logger.Debug().Int("chunk", chunk+1).Int("applied", applied).Msg("Uploaded chunk")
	}

	result.Success = true
	s.logger.Info().
		Str("table", key).
		Int("applied", result.Applied).
		Int("duplicates_dropped", duplicates).
		Msg("Upload complete")

	if s.onUploaded != nil {
		s.onUploaded(key)
	}
	return result, nil
}
