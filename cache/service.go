package cache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-reporting-cache/internal/cacheinfra"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned by a fetch function to report that the source of
// truth has no record. GetOrFetch surfaces it unchanged and, by default, caches nothing.
var ErrNotFound = cacheinfra.ErrNotFound

func init() {
	// msgpack restores times in time.Local; snapshots hand them back in UTC,
	// the zone the store returns them in.
	msgpack.Register(time.Time{}, nil, func(d *msgpack.Decoder, v reflect.Value) error {
		tm, err := d.DecodeTime()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(tm.UTC()))
		return nil
	})
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through operations the repositories need.
// Values are opaque byte snapshots; use the generic helpers in this package to
// store and load typed values.
type CacheService interface {
	// GetOrFetch returns the live entry for key or runs fetchFn, sharing one
	// in-flight fetch among concurrent callers. A ttl <= 0 selects the default TTL.
	GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetchFn func(ctx context.Context) ([]byte, error)) ([]byte, error)
	// Get returns the entry for key only if it is present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set overwrites key with an absolute expiry of now+ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	InvalidateKeys(ctx context.Context, keys []string) error
	// Track registers key under namespace so InvalidateNamespace can evict it.
	Track(namespace, key string, ttl time.Duration)
	InvalidateNamespace(ctx context.Context, namespace string) (int, error)
	DefaultTTL() time.Duration
	Close() error
}

// GetOrFetch is the typed read-through helper. The fetched value is stored as a
// msgpack snapshot and every caller decodes its own copy, so mutating a returned
// value never changes what later readers get.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, ttl time.Duration, fetchFn FetchFn[T]) (T, error) {
	var zero T

	data, err := service.GetOrFetch(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		value, err := fetchFn(ctx)
		if err != nil {
			return nil, err
		}
		return Encode(value)
	})
	if err != nil {
		return zero, err
	}

	return Decode[T](data)
}

// TryGet returns the typed value cached under key. A present entry that cannot
// be decoded as T is reported as an error.
func TryGet[T any](ctx context.Context, service CacheService, key string) (T, bool, error) {
	var zero T

	data, ok := service.Get(ctx, key)
	if !ok {
		return zero, false, nil
	}

	value, err := Decode[T](data)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// Set stores a snapshot of value under key.
func Set[T any](ctx context.Context, service CacheService, key string, value T, ttl time.Duration) error {
	data, err := Encode(value)
	if err != nil {
		return err
	}
	return service.Set(ctx, key, data, ttl)
}

// Encode serializes value into the cache snapshot format.
func Encode(value any) ([]byte, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cache: encode %T: %w", value, err)
	}
	return data, nil
}

// Decode restores a snapshot produced by Encode.
func Decode[T any](data []byte) (T, error) {
	var value T
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("cache: decode %T: %w", value, err)
	}
	return value, nil
}

// IsNotFound reports whether err signals an absent record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
