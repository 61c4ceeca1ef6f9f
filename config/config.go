// Package config loads the settings of the reporting cache from a file and
// REPORTCACHE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REPORTCACHE_CACHE_TTL.
const EnvPrefix = "REPORTCACHE"

// Config holds all configuration for the reporting cache
type Config struct {
	Database      DatabaseConfig      `mapstructure:"database"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Repositories  RepositoriesConfig  `mapstructure:"repositories"`
	Warmup        WarmupConfig        `mapstructure:"warmup"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// DatabaseConfig holds the store connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogQueries      bool          `mapstructure:"log_queries"`
	CreateSchema    bool          `mapstructure:"create_schema"`
}

// CacheConfig holds the in-process cache settings
type CacheConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	Capacity           int           `mapstructure:"capacity"`
	NumShards          int           `mapstructure:"num_shards"`
	TTL                time.Duration `mapstructure:"ttl"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
	EvictionInterval   time.Duration `mapstructure:"eviction_interval"`
}

// RepositoriesConfig holds per entity overrides. Keys are entity type names;
// viper lowercases them, so lookups are case-insensitive.
type RepositoriesConfig struct {
	TTL map[string]time.Duration `mapstructure:"ttl"`
}

// WarmupConfig holds start-up cache warming settings
type WarmupConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// MetricsConfig holds metrics settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Meter   string `mapstructure:"meter"`
}

// Load loads configuration from file and environment variables. An empty
// configPath searches ./config and the working directory for config.yaml;
// a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

// Default returns the configuration built from defaults and environment
// variables only.
func Default() (*Config, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	def := cache.DefaultConfig()

	// Database defaults
	v.SetDefault("database.driver", store.DriverSQLite)
	v.SetDefault("database.dsn", "file:reporting.db?cache=shared")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.log_queries", false)
	v.SetDefault("database.create_schema", false)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.capacity", def.Capacity)
	v.SetDefault("cache.num_shards", def.NumShards)
	v.SetDefault("cache.ttl", def.TTL.String())
	v.SetDefault("cache.eviction_percentage", def.EvictionPercentage)
	v.SetDefault("cache.eviction_interval", "0s")

	// Warmup defaults
	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.timeout", "30s")
	v.SetDefault("warmup.concurrency", 4)

	// Observability defaults
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.metrics.enabled", false)
	v.SetDefault("observability.metrics.meter", "github.com/goliatone/go-reporting-cache")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Database),
		validation.Field(&c.Cache),
		validation.Field(&c.Warmup),
		validation.Field(&c.Observability),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In(store.DriverSQLite, store.DriverPostgres)),
		validation.Field(&d.DSN, validation.Required),
		validation.Field(&d.MaxOpenConns, validation.Min(0)),
		validation.Field(&d.MaxIdleConns, validation.Min(0)),
	)
}

func (c CacheConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	return c.ToCacheConfig().Validate()
}

func (w WarmupConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Timeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&w.Concurrency, validation.Required, validation.Min(1)),
	)
}

func (o ObservabilityConfig) Validate() error {
	return validation.ValidateStruct(&o.Logging,
		validation.Field(&o.Logging.Level, validation.Required, validation.By(func(value any) error {
			if _, err := logrus.ParseLevel(value.(string)); err != nil {
				return errors.New("must be a valid log level")
			}
			return nil
		})),
		validation.Field(&o.Logging.Format, validation.Required, validation.In("json", "text")),
	)
}

// ToCacheConfig converts the settings to the cache package configuration.
func (c CacheConfig) ToCacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Capacity = c.Capacity
	cfg.NumShards = c.NumShards
	cfg.TTL = c.TTL
	cfg.EvictionPercentage = c.EvictionPercentage
	cfg.EvictionInterval = c.EvictionInterval
	return cfg
}

// StoreOptions converts the settings to store.Open options.
func (d DatabaseConfig) StoreOptions(logger logrus.FieldLogger) store.Options {
	return store.Options{
		Driver:          d.Driver,
		DSN:             d.DSN,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		LogQueries:      d.LogQueries,
		Logger:          logger,
	}
}

// TTLFor returns the TTL override for entityType, or zero when none is set.
func (r RepositoriesConfig) TTLFor(entityType string) time.Duration {
	if r.TTL == nil {
		return 0
	}
	return r.TTL[strings.ToLower(entityType)]
}
