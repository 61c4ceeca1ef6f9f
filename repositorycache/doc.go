// Package repositorycache provides the cache-aside repository used by every
// reporting entity.
//
// # Overview
//
// A Repository wraps a store.EntityStore and a cache.CacheService. Reads that
// have a stable key (GetAll, GetByID and the named lookups built on FindOne,
// FindMany and Cached) go through the cache; ad-hoc reads (GetByFilter, Any)
// and writes always reach the store.
//
// # Basic Usage
//
//	games := repositorycache.New[models.Game, int64](
//		store.NewBunStore[models.Game, int64](db),
//		cacheService,
//		repositorycache.WithActiveFilter(repositorycache.ActiveColumn("is_active")),
//	)
//
//	active, err := games.GetAll(ctx, false)  // key Game_All_false
//	game, err := games.GetByID(ctx, 42)       // key Game_42, nil when absent
//
// Specialized repositories embed Repository and add named lookups:
//
//	func (r *GameRepository) GetByName(ctx context.Context, name string) (*models.Game, error) {
//		if err := repositorycache.RequireNonBlank("name", name); err != nil {
//			return nil, err
//		}
//		return r.FindOne(ctx, r.KeyFor("Name", name), repository.SelectBy("name", "=", name))
//	}
//
// # Caching Behavior
//
//  1. Probe the cache for the lookup key
//  2. On a hit return a private copy of the cached value
//  3. On a miss query the store once, even under concurrent callers
//  4. Store the result with the lookup TTL and register the key under the
//     entity type namespace
//
// Single entity lookups never cache a missing row. Store errors reach the
// caller unchanged and leave nothing behind in the cache.
//
// # Invalidation
//
// Add, Update and a Delete that removed a row evict every key registered for
// the entity type before returning. Lookups that depend on another entity type
// register their keys under that namespace too, using WithCacheTags:
//
//	ctx = repositorycache.WithCacheTags(ctx, "GameExcludedByCountry")
//
// WithRefresh forces a single read to bypass the cache and overwrite the entry.
//
// # Errors
//
// Blank or non-positive arguments are rejected before the cache or the store
// is touched, with an error for which IsInvalidArgument returns true.
package repositorycache
