package components

import (
	"lpb-monitor/internal/config/shared"
	"lpb-monitor/internal/interfaces"
	"strings"
)

type InfluxConfig interface {
	interfaces.Config
	GetUrl() string
}

type InfluxConfigImpl struct {
	URL           string `json:"url"`
	Token         string `json:"token"`
	Organization  string `json:"organization"`
	Bucket        string `json:"bucket"`
	BatchSize     int    `json:"batch_size"`
	FlushInterval int    `json:"flush_interval_seconds"`
}

func NewInfluxConfig() InfluxConfigImpl {
	config := InfluxConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (I *InfluxConfigImpl) Load() {
	I.URL = shared.GetEnv("INFLUXDB_URL")
	I.Token = shared.GetEnv("INFLUXDB_TOKEN")
	I.Organization = shared.GetEnv("INFLUXDB_ORG")
	I.Bucket = shared.GetEnv("INFLUXDB_BUCKET")
	I.BatchSize = shared.GetEnvAsInt("INFLUXDB_BATCH_SIZE")
	I.FlushInterval = shared.GetEnvAsInt("INFLUXDB_FLUSH_INTERVAL")
}

func (I *InfluxConfigImpl) SetDefaults() {
	if I.URL == "" {
		I.URL = "http://localhost:8086"
	}
	if I.Organization == "" {
		I.Organization = "lpb"
	}
	if I.Bucket == "" {
		I.Bucket = "lpb_summaries"
	}
	if I.BatchSize <= 0 {
		I.BatchSize = 100
	}
	if I.FlushInterval <= 0 {
		I.FlushInterval = 10
	}
}

// Enabled reports whether summaries should be written at all; a missing token disables the writer.
func (I *InfluxConfigImpl) Enabled() bool {
	return I.Token != ""
}

func (I *InfluxConfigImpl) Validate() error {
	if !I.Enabled() {
		return nil
	}
	if !strings.HasPrefix(I.URL, "http://") && !strings.HasPrefix(I.URL, "https://") {
		return shared.NewConfigError("influx", "INFLUXDB_URL", I.URL, "must start with http:// or https://")
	}
	if I.Organization == "" {
		return shared.NewConfigError("influx", "INFLUXDB_ORG", nil, "is required")
	}
	if I.Bucket == "" {
		return shared.NewConfigError("influx", "INFLUXDB_BUCKET", nil, "is required")
	}
	if I.FlushInterval < 1 || I.FlushInterval > 60 {
		return shared.NewConfigError("influx", "INFLUXDB_FLUSH_INTERVAL", I.FlushInterval, "must be between 1 and 60 seconds")
	}
	return nil
}

func (I *InfluxConfigImpl) GetUrl() string {
	return I.URL
}

var _ InfluxConfig = (*InfluxConfigImpl)(nil)
