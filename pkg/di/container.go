package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/config"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/pkg/observability"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Container provides dependency injection for the reporting cache. It owns
// the singleton cache service, database handle and metrics recorder, and
// builds every repository over them.
type Container struct {
	config   config.Config
	logger   logrus.FieldLogger
	db       *bun.DB
	ownsDB   bool
	cache    cache.CacheService
	recorder repositorycache.Recorder
	repoOpts []repositorycache.Option
	repos    *Repositories
	warmer   *repositorycache.Warmer
}

// Option customizes NewContainer.
type Option func(*containerOptions)

type containerOptions struct {
	logger    logrus.FieldLogger
	db        *bun.DB
	meter     metric.Meter
	cacheOpts []cache.ServiceOption
	repoOpts  []repositorycache.Option
}

// WithLogger replaces the logger built from the logging configuration.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *containerOptions) { o.logger = logger }
}

// WithDB uses db instead of opening the configured database. The container
// does not close a database it did not open.
func WithDB(db *bun.DB) Option {
	return func(o *containerOptions) { o.db = db }
}

// WithMeter records cache metrics on meter instead of the global provider.
// It only applies when metrics are enabled.
func WithMeter(meter metric.Meter) Option {
	return func(o *containerOptions) { o.meter = meter }
}

// WithCacheOptions passes options to the cache service, e.g. cache.WithClock.
func WithCacheOptions(opts ...cache.ServiceOption) Option {
	return func(o *containerOptions) { o.cacheOpts = append(o.cacheOpts, opts...) }
}

// WithRepositoryOptions appends options to every repository the container
// builds. They are applied after the configured ones.
func WithRepositoryOptions(opts ...repositorycache.Option) Option {
	return func(o *containerOptions) { o.repoOpts = append(o.repoOpts, opts...) }
}

// NewContainer creates a new DI container from cfg. A nil cfg loads the
// defaults and REPORTCACHE_* environment overrides. With cache.enabled false
// the repositories are built without a cache and every read reaches the store.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		def, err := config.Default()
		if err != nil {
			return nil, err
		}
		cfg = def
	} else if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	var o containerOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	c := &Container{config: *cfg, logger: o.logger, db: o.db, repoOpts: o.repoOpts}
	if c.logger == nil {
		c.logger = observability.NewLogger(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	}

	if c.db == nil {
		db, err := store.Open(cfg.Database.StoreOptions(c.logger))
		if err != nil {
			return nil, err
		}
		c.db, c.ownsDB = db, true
	}

	if err := c.init(ctx, o); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"driver":        cfg.Database.Driver,
		"cache_enabled": cfg.Cache.Enabled,
		"ttl":           cfg.Cache.TTL.String(),
		"metrics":       cfg.Observability.Metrics.Enabled,
	}).Info("reporting cache container ready")

	if cfg.Warmup.Enabled {
		c.Warmup(ctx)
	}
	return c, nil
}

// NewContainerWithDefaults creates a container from the default configuration.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, nil, opts...)
}

func (c *Container) init(ctx context.Context, o containerOptions) error {
	if c.config.Database.CreateSchema {
		if err := store.CreateSchema(ctx, c.db, models.All()...); err != nil {
			return err
		}
	}

	if c.config.Cache.Enabled {
		svc, err := cache.NewCacheService(c.config.Cache.ToCacheConfig(), o.cacheOpts...)
		if err != nil {
			return err
		}
		c.cache = svc
	}

	c.recorder = repositorycache.NopRecorder{}
	if c.config.Observability.Metrics.Enabled {
		meter := o.meter
		if meter == nil {
			meter = otel.Meter(c.config.Observability.Metrics.Meter)
		}
		recorder, err := observability.NewCacheMetrics(meter)
		if err != nil {
			return err
		}
		c.recorder = recorder
	}

	c.repos = newRepositories(c)

	c.warmer = repositorycache.NewWarmer(c.logger, repositorycache.WarmupConfig{
		Timeout:     c.config.Warmup.Timeout,
		Concurrency: c.config.Warmup.Concurrency,
	})
	c.warmer.Register(c.repos.WarmupProviders()...)
	return nil
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config { return c.config }

// Logger returns the container logger.
func (c *Container) Logger() logrus.FieldLogger { return c.logger }

// DB returns the database handle shared by the repositories.
func (c *Container) DB() *bun.DB { return c.db }

// CacheService returns the singleton cache service, or nil when caching is
// disabled.
func (c *Container) CacheService() cache.CacheService { return c.cache }

// Recorder returns the metrics recorder handed to every repository.
func (c *Container) Recorder() repositorycache.Recorder { return c.recorder }

// Repositories returns the repository registry.
func (c *Container) Repositories() *Repositories { return c.repos }

// Warmer returns the warmer preloaded with the reference data repositories.
func (c *Container) Warmer() *repositorycache.Warmer { return c.warmer }

// Warmup preloads the reference data lists. Failures are logged and reported
// in the results; they never make the container unusable.
func (c *Container) Warmup(ctx context.Context) *repositorycache.WarmupResults {
	return c.warmer.Warmup(ctx)
}

// Close releases the cache and, when the container opened it, the database.
// Repositories must not be used afterwards.
func (c *Container) Close() error {
	var errs []error
	if c.cache != nil {
		errs = append(errs, c.cache.Close())
	}
	if c.ownsDB && c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}

// NewRepository builds a cached repository for an entity the registry does
// not cover, sharing the container's cache, logger and recorder.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewRepository[models.Game](container)
func NewRepository[T any](c *Container, opts ...repositorycache.Option) *repositorycache.Repository[T, int64] {
	return repositorycache.New[T, int64](entityStore[T](c), c.cache, append(repositoryOptions[T](c), opts...)...)
}

func entityStore[T any](c *Container) store.EntityStore[T, int64] {
	return store.NewBunStore[T, int64](c.db)
}

// repositoryOptions returns the options every repository of T receives: the
// shared logger and recorder, the per entity TTL override, then the caller's
// options.
func repositoryOptions[T any](c *Container) []repositorycache.Option {
	opts := []repositorycache.Option{
		repositorycache.WithLogger(c.logger),
		repositorycache.WithRecorder(c.recorder),
	}
	if ttl := c.config.Repositories.TTLFor(repositorycache.EntityTypeName[T]()); ttl > 0 {
		opts = append(opts, repositorycache.WithTTL(ttl))
	}
	return append(opts, c.repoOpts...)
}
