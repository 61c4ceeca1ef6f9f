package cache

import (
	"time"

	"github.com/goliatone/go-reporting-cache/internal/cacheinfra"
	"github.com/viccon/sturdyc"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// ServiceOption customizes the service built by NewCacheService.
type ServiceOption = cacheinfra.Option

// WithClock drives expiry from clock instead of the wall clock.
func WithClock(clock sturdyc.Clock) ServiceOption {
	return cacheinfra.WithClock(clock)
}

// DefaultConfig returns a Config populated with the reporting defaults
// (30 minute TTL).
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the default cache service implementation using the provided configuration.
func NewCacheService(cfg Config, opts ...ServiceOption) (CacheService, error) {
	return cacheinfra.NewSturdycService(cfg.toInternal(), opts...)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
