package repositorycache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/sirupsen/logrus"
)

// Repository is the cache-aside repository for one entity type. Reads that
// name a cache key go through the cache; filter reads, existence checks and
// writes always reach the store. Every successful write evicts the keys the
// repository registered for its entity type.
type Repository[T any, ID comparable] struct {
	store    store.EntityStore[T, ID]
	cache    cache.CacheService
	settings settings
	logger   logrus.FieldLogger
}

// New builds a repository over s using c as the cache. A nil cache disables
// caching.
func New[T any, ID comparable](s store.EntityStore[T, ID], c cache.CacheService, opts ...Option) *Repository[T, ID] {
	cfg := defaultSettings(EntityTypeName[T]())
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if c == nil {
		cfg.caching = false
	}
	if cfg.ttl <= 0 {
		if c != nil {
			cfg.ttl = c.DefaultTTL()
		} else {
			cfg.ttl = DefaultTTL
		}
	}

	return &Repository[T, ID]{
		store:    s,
		cache:    c,
		settings: cfg,
		logger:   cfg.logger.WithField("entity_type", cfg.entityType),
	}
}

// EntityType is the name used as key prefix and invalidation namespace.
func (r *Repository[T, ID]) EntityType() string { return r.settings.entityType }

// TTL is the lifetime of entries written by this repository.
func (r *Repository[T, ID]) TTL() time.Duration { return r.settings.ttl }

// CachingEnabled reports whether reads go through the cache.
func (r *Repository[T, ID]) CachingEnabled() bool { return r.settings.caching }

// Store exposes the underlying entity store.
func (r *Repository[T, ID]) Store() store.EntityStore[T, ID] { return r.store }

// Logger returns the repository logger, already tagged with the entity type.
func (r *Repository[T, ID]) Logger() logrus.FieldLogger { return r.logger }

// Now returns the current time from the configured clock.
func (r *Repository[T, ID]) Now() time.Time { return r.settings.now() }

// GetAll returns every entity. When includeInactive is false the active
// filter policy narrows the result. Cached under {T}_All_{includeInactive}.
func (r *Repository[T, ID]) GetAll(ctx context.Context, includeInactive bool) ([]T, error) {
	lookup := r.KeyFor("All", includeInactive)
	return cached(ctx, r, lookup, func(ctx context.Context) ([]T, error) {
		var criteria []store.Criteria
		if !includeInactive {
			criteria = append(criteria, r.settings.active.Apply)
		}
		return r.store.Query(ctx, criteria...)
	})
}

// GetByFilter runs an ad-hoc query against the store. Results are never
// cached because arbitrary criteria have no stable key.
func (r *Repository[T, ID]) GetByFilter(ctx context.Context, criteria ...store.Criteria) ([]T, error) {
	records, err := r.store.Query(ctx, criteria...)
	if err != nil {
		return nil, r.storeFailure(ctx, "GetByFilter", "", err)
	}
	return records, nil
}

// GetByID returns the entity with id, or nil when none exists. Only found
// entities are cached, under {T}_{id}.
func (r *Repository[T, ID]) GetByID(ctx context.Context, id ID) (*T, error) {
	lookup := r.KeyFor("", id)
	lookup.Operation = "GetByID"

	entity, err := cached(ctx, r, lookup, func(ctx context.Context) (*T, error) {
		entity, err := r.store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if entity == nil {
			return nil, cache.ErrNotFound
		}
		return entity, nil
	})
	if cache.IsNotFound(err) {
		return nil, nil
	}
	return entity, err
}

// Add inserts entity and evicts the cached reads of this entity type.
func (r *Repository[T, ID]) Add(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, invalidArgument("entity", "cannot be nil")
	}

	saved, err := r.store.Insert(ctx, entity)
	if err != nil {
		return nil, r.storeFailure(ctx, "Add", "", err)
	}

	r.invalidate(ctx, "Add")
	return saved, nil
}

// Update persists entity and evicts the cached reads of this entity type.
func (r *Repository[T, ID]) Update(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, invalidArgument("entity", "cannot be nil")
	}

	saved, err := r.store.Update(ctx, entity)
	if err != nil {
		return nil, r.storeFailure(ctx, "Update", "", err)
	}

	r.invalidate(ctx, "Update")
	return saved, nil
}

// Delete removes the entity with id. It returns false, without touching the
// cache, when no such entity exists.
func (r *Repository[T, ID]) Delete(ctx context.Context, id ID) (bool, error) {
	existing, err := r.store.FindByID(ctx, id)
	if err != nil {
		return false, r.storeFailure(ctx, "Delete", "", err)
	}
	if existing == nil {
		r.logger.WithFields(logrus.Fields{"operation": "Delete", "id": id}).Debug("nothing to delete")
		return false, nil
	}

	deleted, err := r.store.Delete(ctx, id)
	if err != nil {
		return false, r.storeFailure(ctx, "Delete", "", err)
	}

	r.invalidate(ctx, "Delete")
	return deleted, nil
}

// Any reports whether at least one entity matches criteria. Never cached.
func (r *Repository[T, ID]) Any(ctx context.Context, criteria ...store.Criteria) (bool, error) {
	exists, err := r.store.Exists(ctx, criteria...)
	if err != nil {
		return false, r.storeFailure(ctx, "Any", "", err)
	}
	return exists, nil
}

// Invalidate evicts every cached read of this entity type.
func (r *Repository[T, ID]) Invalidate(ctx context.Context) {
	r.invalidate(ctx, "Invalidate")
}

// Name identifies the repository when warming the cache.
func (r *Repository[T, ID]) Name() string { return r.settings.entityType }

// Warmup loads the active entity list into the cache.
func (r *Repository[T, ID]) Warmup(ctx context.Context) error {
	if !r.settings.caching {
		return nil
	}
	_, err := r.GetAll(ctx, false)
	return err
}

// FindOne returns the first entity matching criteria, caching only a found
// entity under lookup. A miss in the store returns (nil, nil).
func (r *Repository[T, ID]) FindOne(ctx context.Context, lookup Lookup, criteria ...store.Criteria) (*T, error) {
	entity, err := cached(ctx, r, lookup, func(ctx context.Context) (*T, error) {
		q := make([]store.Criteria, 0, len(criteria)+1)
		q = append(q, criteria...)
		q = append(q, repository.SelectPaginate(1, 0))

		records, err := r.store.Query(ctx, q...)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, cache.ErrNotFound
		}
		return &records[0], nil
	})
	if cache.IsNotFound(err) {
		return nil, nil
	}
	return entity, err
}

// FindMany returns every entity matching criteria, cached under lookup.
// Empty results are cached too.
func (r *Repository[T, ID]) FindMany(ctx context.Context, lookup Lookup, criteria ...store.Criteria) ([]T, error) {
	return cached(ctx, r, lookup, func(ctx context.Context) ([]T, error) {
		return r.store.Query(ctx, criteria...)
	})
}

// Cached runs fetch behind the repository cache for values that are not
// entities, such as flags or id lists. Returning cache.ErrNotFound from fetch
// leaves the cache untouched and is passed back to the caller.
func Cached[T any, ID comparable, V any](ctx context.Context, r *Repository[T, ID], lookup Lookup, fetch func(ctx context.Context) (V, error)) (V, error) {
	return cached(ctx, r, lookup, fetch)
}

func cached[T any, ID comparable, V any](ctx context.Context, r *Repository[T, ID], lookup Lookup, fetch func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	op := lookup.Operation

	if !r.settings.caching {
		value, err := fetch(ctx)
		if err != nil && !cache.IsNotFound(err) {
			return zero, r.storeFailure(ctx, op, lookup.Key, err)
		}
		return value, err
	}

	log := r.logger.WithFields(logrus.Fields{"operation": op, "cache_key": lookup.Key})

	if refreshRequested(ctx) {
		return refreshed(ctx, r, lookup, fetch, log)
	}

	if value, ok, err := cache.TryGet[V](ctx, r.cache, lookup.Key); err != nil {
		log.WithError(err).Warn("dropping unreadable cache entry")
		_ = r.cache.Delete(ctx, lookup.Key)
	} else if ok {
		log.Debug("cache hit")
		r.settings.recorder.Hit(ctx, r.settings.entityType, op)
		return value, nil
	}

	log.Debug("cache miss, querying store")
	r.settings.recorder.Miss(ctx, r.settings.entityType, op)

	var populated atomic.Bool
	value, err := cache.GetOrFetch(ctx, r.cache, lookup.Key, lookup.TTL, func(ctx context.Context) (V, error) {
		v, err := fetch(ctx)
		if err == nil {
			populated.Store(true)
		}
		return v, err
	})
	if err != nil {
		if cache.IsNotFound(err) {
			log.Debug("no record in store, nothing cached")
			return zero, err
		}
		return zero, r.storeFailure(ctx, op, lookup.Key, err)
	}

	r.track(ctx, lookup)
	if populated.Load() {
		log.WithField("ttl", lookup.TTL.String()).Debug("cached store result")
		r.settings.recorder.Populate(ctx, r.settings.entityType, op)
	}
	return value, nil
}

// refreshed queries the store outside the shared in-flight fetch, so a
// refresh never returns a result that started before it, then overwrites the
// entry with what it read.
func refreshed[T any, ID comparable, V any](ctx context.Context, r *Repository[T, ID], lookup Lookup, fetch func(ctx context.Context) (V, error), log logrus.FieldLogger) (V, error) {
	var zero V
	op := lookup.Operation

	log.Debug("refresh requested, querying store")
	r.settings.recorder.Miss(ctx, r.settings.entityType, op)

	value, err := fetch(ctx)
	if err != nil {
		if cache.IsNotFound(err) {
			_ = r.cache.Delete(ctx, lookup.Key)
			log.Debug("no record in store, dropped cached entry")
			return zero, err
		}
		return zero, r.storeFailure(ctx, op, lookup.Key, err)
	}

	if err := cache.Set(ctx, r.cache, lookup.Key, value, lookup.TTL); err != nil {
		log.WithError(err).Warn("could not cache refreshed value")
		_ = r.cache.Delete(ctx, lookup.Key)
		return value, nil
	}
	r.track(ctx, lookup)
	log.WithField("ttl", lookup.TTL.String()).Debug("cached store result")
	r.settings.recorder.Populate(ctx, r.settings.entityType, op)
	return value, nil
}

func (r *Repository[T, ID]) track(ctx context.Context, lookup Lookup) {
	r.cache.Track(r.settings.entityType, lookup.Key, lookup.TTL)
	for _, tag := range cacheTagsFromContext(ctx) {
		if tag != r.settings.entityType {
			r.cache.Track(tag, lookup.Key, lookup.TTL)
		}
	}
}

func (r *Repository[T, ID]) invalidate(ctx context.Context, op string) {
	if r.cache == nil {
		return
	}

	evicted, err := r.cache.InvalidateNamespace(ctx, r.settings.entityType)
	log := r.logger.WithFields(logrus.Fields{"operation": op, "evicted": evicted})
	if err != nil {
		log.WithError(err).Warn("cache invalidation failed")
		return
	}
	log.Debug("invalidated cached reads")
	r.settings.recorder.Invalidate(ctx, r.settings.entityType, evicted)
}

func (r *Repository[T, ID]) storeFailure(ctx context.Context, op, key string, err error) error {
	fields := logrus.Fields{"operation": op}
	if key != "" {
		fields["cache_key"] = key
	}
	r.logger.WithFields(fields).WithError(err).Error("store operation failed")
	r.settings.recorder.StoreError(ctx, r.settings.entityType, op)
	return err
}
