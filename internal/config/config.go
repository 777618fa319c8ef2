package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"lpb-monitor/internal/config/components"
	"lpb-monitor/internal/interfaces"
)

type Config struct {
	Logger   components.LoggerConfigImpl   `json:"logger"`
	Source   components.SourceConfigImpl   `json:"source"`
	Cache    components.CacheConfigImpl    `json:"cache"`
	Postgres components.PostgresConfigImpl `json:"postgres"`
	InfluxDB components.InfluxConfigImpl   `json:"influxdb"`
	MQTT     components.MQTTConfigImpl     `json:"mqtt"`
	Service  components.ServiceConfigImpl  `json:"service"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Logger:   components.NewLoggerConfig(),
		Source:   components.NewSourceConfig(),
		Cache:    components.NewCacheConfig(),
		Postgres: components.NewPostgresConfig(),
		InfluxDB: components.NewInfluxConfig(),
		MQTT:     components.NewMQTTConfig(),
		Service:  components.NewServiceConfig(),
	}

	if config.Source.Has(components.SourcePostgres) {
		config.Postgres.Enabled = true
	}

	return config, config.validate()
}

func (c *Config) validate() error {
	for _, component := range c.components() {
		if err := component.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

func (c *Config) components() []interfaces.Config {
	return []interfaces.Config{
		&c.Logger,
		&c.Source,
		&c.Cache,
		&c.Postgres,
		&c.InfluxDB,
		&c.MQTT,
		&c.Service,
	}
}
