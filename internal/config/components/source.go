package components

import (
	"lpb-monitor/internal/config/shared"
	"lpb-monitor/internal/interfaces"
	"strings"
	"time"
)

const (
	SourceRest     = "rest"
	SourceEdge     = "edge"
	SourcePostgres = "postgres"
	SourceSheet    = "sheet"
)

type SourceConfig interface {
	interfaces.Config
}

type SourceConfigImpl struct {
	Order           []string      `json:"order"`
	Table           string        `json:"table"`
	RestURL         string        `json:"rest_url"`
	RestKey         string        `json:"-"`
	EdgeURL         string        `json:"edge_url"`
	SheetURL        string        `json:"sheet_url"`
	PageSize        int           `json:"page_size"`
	MaxRows         int           `json:"max_rows"`
	FetchTimeout    time.Duration `json:"fetch_timeout"`
	UploadChunkSize int           `json:"upload_chunk_size"`
	UploadTarget    string        `json:"upload_target"`
}

func NewSourceConfig() SourceConfigImpl {
	config := SourceConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (S *SourceConfigImpl) Load() {
	S.Order = shared.GetEnvAsList("SOURCE_ORDER")
	S.Table = shared.GetEnv("DATASET_TABLE")
	S.RestURL = shared.GetEnv("REST_URL")
	S.RestKey = shared.GetEnv("REST_KEY")
	S.EdgeURL = shared.GetEnv("EDGE_URL")
	S.SheetURL = shared.GetEnv("SHEET_URL")
	S.PageSize = shared.GetEnvAsInt("PAGE_SIZE")
	S.MaxRows = shared.GetEnvAsInt("MAX_ROWS")
	S.FetchTimeout = shared.GetEnvAsDuration("FETCH_TIMEOUT")
	S.UploadChunkSize = shared.GetEnvAsInt("UPLOAD_CHUNK_SIZE")
	S.UploadTarget = strings.ToLower(shared.GetEnv("UPLOAD_TARGET"))
}

func (S *SourceConfigImpl) SetDefaults() {
	if len(S.Order) == 0 {
		S.Order = []string{SourceRest, SourceSheet}
	}
	if S.Table == "" {
		S.Table = "lpb_data"
	}
	if S.PageSize <= 0 {
		S.PageSize = 1000
	}
	if S.MaxRows <= 0 {
		S.MaxRows = 500000
	}
	if S.FetchTimeout <= 0 {
		S.FetchTimeout = 45 * time.Second
	}
	if S.UploadChunkSize <= 0 {
		S.UploadChunkSize = 250
	}
	if S.UploadTarget == "" {
		S.UploadTarget = S.Order[0]
	}
	S.RestURL = strings.TrimSuffix(S.RestURL, "/")
}

func (S *SourceConfigImpl) Validate() error {
	for _, name := range S.Order {
		switch name {
		case SourceRest:
			if S.RestURL == "" || S.RestKey == "" {
				return shared.NewConfigError("source", "REST_URL", S.RestURL, "rest source requires REST_URL and REST_KEY")
			}
		case SourceEdge:
			if S.EdgeURL == "" {
				return shared.NewConfigError("source", "EDGE_URL", nil, "edge source requires EDGE_URL")
			}
		case SourceSheet:
			if S.SheetURL == "" {
				return shared.NewConfigError("source", "SHEET_URL", nil, "sheet source requires SHEET_URL")
			}
		case SourcePostgres:
		default:
			return shared.NewConfigError("source", "SOURCE_ORDER", name, "unknown source")
		}
	}

	if S.PageSize > S.MaxRows {
		return shared.NewConfigError("source", "PAGE_SIZE", S.PageSize, "must not exceed MAX_ROWS")
	}

	if S.FetchTimeout > 5*time.Minute {
		return shared.NewConfigError("source", "FETCH_TIMEOUT", S.FetchTimeout, "must not exceed 5m")
	}

	return nil
}

// Has reports whether the named source is part of the fetch order.
func (S *SourceConfigImpl) Has(name string) bool {
	for _, n := range S.Order {
		if n == name {
			return true
		}
	}
	return false
}

var _ SourceConfig = (*SourceConfigImpl)(nil)
