package components

import (
	"lpb-monitor/internal/config/shared"
	"lpb-monitor/internal/interfaces"
	"strings"
	"time"
)

type ServiceConfig interface {
	interfaces.Config
}

type ServiceConfigImpl struct {
	Name            string        `json:"name"`
	Version         string        `json:"version"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	FilterDebounce  time.Duration `json:"filter_debounce"`
	ParseWorkers    int           `json:"parse_workers"`
	ViewMetric      string        `json:"view_metric"`
}

func NewServiceConfig() ServiceConfigImpl {
	config := ServiceConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (S *ServiceConfigImpl) Load() {
	S.Name = shared.GetEnv("SERVICE_NAME")
	S.Version = shared.GetEnv("SERVICE_VERSION")
	S.RefreshInterval = shared.GetEnvAsDuration("REFRESH_INTERVAL")
	S.FilterDebounce = shared.GetEnvAsDuration("FILTER_DEBOUNCE")
	S.ParseWorkers = shared.GetEnvAsInt("PARSE_WORKERS")
	S.ViewMetric = strings.ToLower(shared.GetEnv("VIEW_METRIC"))
}

func (S *ServiceConfigImpl) SetDefaults() {
	if S.Name == "" {
		S.Name = "lpb-monitor"
	}
	if S.Version == "" {
		S.Version = "1.0.0"
	}
	if S.RefreshInterval <= 0 {
		S.RefreshInterval = 10 * time.Minute
	}
	if S.FilterDebounce <= 0 {
		S.FilterDebounce = 400 * time.Millisecond
	}
	if S.ParseWorkers <= 0 {
		S.ParseWorkers = 2
	}
	if S.ViewMetric == "" {
		S.ViewMetric = "count"
	}
}

func (S *ServiceConfigImpl) Validate() error {
	if S.Name == "" {
		return shared.NewConfigError("service", "SERVICE_NAME", nil, "is required")
	}

	if S.RefreshInterval < time.Minute {
		return shared.NewConfigError("service", "REFRESH_INTERVAL", S.RefreshInterval, "must be at least 1m")
	}

	if S.ParseWorkers > 64 {
		return shared.NewConfigError("service", "PARSE_WORKERS", S.ParseWorkers, "must not exceed 64")
	}

	if S.ViewMetric != "count" && S.ViewMetric != "billing" {
		return shared.NewConfigError("service", "VIEW_METRIC", S.ViewMetric, "must be count or billing")
	}

	return nil
}

var _ ServiceConfig = (*ServiceConfigImpl)(nil)
