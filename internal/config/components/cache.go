package components

import (
	"lpb-monitor/internal/config/shared"
	"lpb-monitor/internal/interfaces"
	"time"
)

type CacheConfig interface {
	interfaces.Config
}

type CacheConfigImpl struct {
	TTL time.Duration `json:"ttl"`
	Dir string        `json:"dir"`
}

func NewCacheConfig() CacheConfigImpl {
	config := CacheConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (C *CacheConfigImpl) Load() {
	C.TTL = shared.GetEnvAsDuration("CACHE_TTL")
	C.Dir = shared.GetEnv("CACHE_DIR")
}

func (C *CacheConfigImpl) SetDefaults() {
	if C.TTL <= 0 {
		C.TTL = 5 * time.Minute
	}
}

func (C *CacheConfigImpl) Validate() error {
	if C.TTL < time.Second {
		return shared.NewConfigError("cache", "CACHE_TTL", C.TTL, "must be at least 1s")
	}
	return nil
}

var _ CacheConfig = (*CacheConfigImpl)(nil)
