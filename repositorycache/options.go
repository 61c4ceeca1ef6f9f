package repositorycache

import (
	"time"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/sirupsen/logrus"
)

// DefaultTTL applies when neither an option nor the cache service provide one.
const DefaultTTL = 30 * time.Minute

// Option configures a Repository. Options are applied once; a repository's
// configuration does not change after New returns.
type Option func(*settings)

type settings struct {
	entityType string
	ttl        time.Duration
	caching    bool
	active     ActiveFilter
	keys       cache.KeyBuilder
	logger     logrus.FieldLogger
	recorder   Recorder
	now        func() time.Time
}

func defaultSettings(entityType string) settings {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	return settings{
		entityType: entityType,
		caching:    true,
		active:     NoActiveFilter{},
		keys:       cache.NewKeyBuilder(),
		logger:     logger,
		recorder:   NopRecorder{},
		now:        time.Now,
	}
}

// WithTTL sets the lifetime of entries written by the repository.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCaching turns caching on or off. With caching off every read goes to
// the store.
func WithCaching(enabled bool) Option {
	return func(s *settings) {
		s.caching = enabled
	}
}

// WithActiveFilter sets the policy GetAll(ctx, false) applies.
func WithActiveFilter(filter ActiveFilter) Option {
	return func(s *settings) {
		if filter != nil {
			s.active = filter
		}
	}
}

// WithEntityName overrides the name derived from the model type.
func WithEntityName(name string) Option {
	return func(s *settings) {
		if clean := sanitizeTypeName(name); clean != "" {
			s.entityType = clean
		}
	}
}

// WithKeyBuilder replaces the default key builder.
func WithKeyBuilder(keys cache.KeyBuilder) Option {
	return func(s *settings) {
		if keys != nil {
			s.keys = keys
		}
	}
}

// WithLogger sets the logger used for cache and store events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(s *settings) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithClock sets the time source used by time relative lookups.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
