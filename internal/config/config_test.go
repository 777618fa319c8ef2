package config

import (
	"errors"
	"testing"
	"time"

	"lpb-monitor/internal/config/components"
	"lpb-monitor/internal/config/shared"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOURCE_ORDER", "rest, Postgres")
	t.Setenv("REST_URL", "https://example.supabase.co/")
	t.Setenv("REST_KEY", "anon")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("UPLOAD_TARGET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if got := cfg.Source.Order; len(got) != 2 || got[0] != components.SourceRest || got[1] != components.SourcePostgres {
		t.Errorf("order = %v", got)
	}
	if cfg.Source.RestURL != "https://example.supabase.co" {
		t.Errorf("rest url = %q", cfg.Source.RestURL)
	}
	if cfg.Source.UploadTarget != components.SourceRest {
		t.Errorf("upload target = %q", cfg.Source.UploadTarget)
	}
	if !cfg.Postgres.Enabled {
		t.Error("postgres should be enabled when listed as a source")
	}
	if cfg.Cache.TTL != 5*time.Minute || cfg.Service.RefreshInterval != 10*time.Minute {
		t.Errorf("ttl = %s, refresh = %s", cfg.Cache.TTL, cfg.Service.RefreshInterval)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("SOURCE_ORDER", "rest")
	t.Setenv("REST_URL", "")
	t.Setenv("REST_KEY", "")

	_, err := Load()
	var cfgErr *shared.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Component != "source" {
		t.Errorf("component = %q", cfgErr.Component)
	}
}

func TestSourceConfigValidate(t *testing.T) {
	base := func() components.SourceConfigImpl {
		c := components.SourceConfigImpl{Order: []string{components.SourceEdge}, EdgeURL: "https://worker.example"}
		c.SetDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *components.SourceConfigImpl)
		field  string
	}{
		{"valid", func(c *components.SourceConfigImpl) {}, ""},
		{"unknown source", func(c *components.SourceConfigImpl) { c.Order = []string{"ftp"} }, "SOURCE_ORDER"},
		{"missing sheet url", func(c *components.SourceConfigImpl) { c.Order = []string{components.SourceSheet} }, "SHEET_URL"},
		{"page above cap", func(c *components.SourceConfigImpl) { c.PageSize = c.MaxRows + 1 }, "PAGE_SIZE"},
		{"timeout too long", func(c *components.SourceConfigImpl) { c.FetchTimeout = time.Hour }, "FETCH_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var cfgErr *shared.ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Fatalf("err = %v, want field %s", err, tt.field)
			}
		})
	}
}
