package components

import (
	"fmt"
	"lpb-monitor/internal/config/shared"
	"lpb-monitor/internal/interfaces"
)

type PostgresConfig interface {
	interfaces.Config
	GetDsn() string
}

type PostgresConfigImpl struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
	TimeZone string `json:"timezone"`
	Migrate  bool   `json:"migrate"`
}

func NewPostgresConfig() PostgresConfigImpl {
	config := PostgresConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (P *PostgresConfigImpl) Load() {
	P.Enabled = shared.GetEnvAsBool("POSTGRES_ENABLED", false)
	P.Host = shared.GetEnv("POSTGRES_HOST")
	P.Port = shared.GetEnvAsInt("POSTGRES_PORT")
	P.User = shared.GetEnv("POSTGRES_USER")
	P.Password = shared.GetEnv("POSTGRES_PASSWORD")
	P.Database = shared.GetEnv("POSTGRES_DB")
	P.SSLMode = shared.GetEnv("POSTGRES_SSL_MODE")
	P.TimeZone = shared.GetEnv("TZ")
	P.Migrate = shared.GetEnvAsBool("POSTGRES_MIGRATE", false)
}

func (P *PostgresConfigImpl) SetDefaults() {
	if P.Host == "" {
		P.Host = "localhost"
	}
	if P.Port == 0 {
		P.Port = 5432
	}
	if P.User == "" {
		P.User = "postgres"
	}
	if P.Database == "" {
		P.Database = "postgres"
	}
	if P.SSLMode == "" || P.SSLMode == "false" {
		P.SSLMode = "disable"
	}
	if P.SSLMode == "true" {
		P.SSLMode = "require"
	}
	if P.TimeZone == "" {
		P.TimeZone = "UTC"
	}
}

func (P *PostgresConfigImpl) Validate() error {
	if !P.Enabled {
		return nil
	}
	if P.Host == "" {
		return shared.NewConfigError("postgres", "POSTGRES_HOST", nil, "is required")
	}
	if P.Port <= 0 || P.Port > 65535 {
		return shared.NewConfigError("postgres", "POSTGRES_PORT", P.Port, "must be between 1 and 65535")
	}
	if P.Database == "" {
		return shared.NewConfigError("postgres", "POSTGRES_DB", nil, "is required")
	}
	if P.SSLMode != "disable" && P.SSLMode != "require" && P.SSLMode != "verify-ca" && P.SSLMode != "verify-full" {
		return shared.NewConfigError("postgres", "POSTGRES_SSL_MODE", P.SSLMode, "must be one of: disable, require, verify-ca, verify-full")
	}
	return nil
}

func (P *PostgresConfigImpl) GetDsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&TimeZone=%s", P.User, P.Password, P.Host, P.Port, P.Database, P.SSLMode, P.TimeZone)
}

var _ PostgresConfig = (*PostgresConfigImpl)(nil)
