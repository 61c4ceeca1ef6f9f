// Package repositories holds one cached repository per reporting entity. Each
// embeds repositorycache.Repository for the generic operations and adds the
// entity's named lookups on top of it.
package repositories

import (
	"time"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
)

// ActiveColumn is the activation flag shared by the entities that have one.
const ActiveColumn = "is_active"

// UpcomingTTL caps the lifetime of "upcoming" lookups.
const UpcomingTTL = 15 * time.Minute

func newRepository[T any](s store.EntityStore[T, int64], c cache.CacheService, defaults []repositorycache.Option, opts []repositorycache.Option) *repositorycache.Repository[T, int64] {
	all := make([]repositorycache.Option, 0, len(defaults)+len(opts))
	all = append(all, defaults...)
	all = append(all, opts...)
	return repositorycache.New[T, int64](s, c, all...)
}

func withActiveFlag() []repositorycache.Option {
	return []repositorycache.Option{
		repositorycache.WithActiveFilter(repositorycache.ActiveColumn(ActiveColumn)),
	}
}
