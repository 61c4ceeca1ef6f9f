// Package cache provides the read-through cache contract and key building used
// by the reporting repositories.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - CacheService: read-through operations over byte snapshots, backed by sturdyc
//   - KeyBuilder: builds deterministic keys of the form {EntityType}_{Discriminator}_{args}
//
// Typed access goes through the generic helpers GetOrFetch, TryGet and Set, which
// store values as msgpack snapshots. Every reader decodes its own copy.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	keys := cache.NewKeyBuilder()
//
//	key := keys.BuildKey("Country", "IsoCode", "US") // Country_IsoCode_US
//	country, err := cache.GetOrFetch(ctx, svc, key, 0, func(ctx context.Context) (Country, error) {
//		return store.FindByIsoCode(ctx, "US")
//	})
//
// # Key Format
//
//   - Strings are escaped: a backslash, an underscore or a comma inside an
//     argument is prefixed with a backslash, and "" is written as \e
//   - Integers, floats and bools use their strconv form
//   - time.Time values are written as yyyyMMdd (UTC)
//   - Slices are written as [a,b,c]; callers sort them when order is irrelevant
//   - Values implementing KeyPart render themselves
//
// # Expiry and Invalidation
//
// A ttl of zero selects the configured default (30 minutes). Entries are served
// until their absolute expiry and never past it. Keys registered with Track are
// grouped per namespace, usually the entity type, and InvalidateNamespace evicts
// all of them at once.
//
// # Missing Records
//
// A fetch returning ErrNotFound is reported to the caller and nothing is
// stored, so the next lookup asks the store again.
package cache
