package repositorycache

import "time"

// Lookup identifies one cached query: its key, the lifetime of the entry and
// the operation name used in logs and metrics.
type Lookup struct {
	Key       string
	TTL       time.Duration
	Operation string
}

// KeyFor builds the lookup for discriminator and args using the repository's
// entity type, key builder and TTL.
func (r *Repository[T, ID]) KeyFor(discriminator string, args ...any) Lookup {
	return Lookup{
		Key:       r.settings.keys.BuildKey(r.settings.entityType, discriminator, args...),
		TTL:       r.settings.ttl,
		Operation: discriminator,
	}
}

// CapTTL returns a copy of l whose TTL is at most max.
func (l Lookup) CapTTL(max time.Duration) Lookup {
	if max > 0 && (l.TTL <= 0 || max < l.TTL) {
		l.TTL = max
	}
	return l
}
