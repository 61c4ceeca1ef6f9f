package cacheinfra

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned by a fetch function when the source of truth has no
// record for the requested key. The adapter never stores it.
var ErrNotFound = errors.New("cache: record not found")

// Config holds the configuration for the sturdyc cache adapter.
// It encapsulates the core sturdyc options needed for cache initialization.
type Config struct {
	// Capacity defines the maximum number of entries each TTL class can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the default time-to-live for cached entries. Lookups that do not
	// ask for a specific TTL use it.
	// Must be greater than 0. Default: 30 minutes
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when a client reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with the reporting defaults: 30 minute entries.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                30 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0,
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Option customizes the adapter at construction time.
type Option func(*sturdycService)

// WithClock makes every sturdyc client and the key registry read time from
// clock. Tests pass a sturdyc.TestClock to drive expiry deterministically.
func WithClock(clock sturdyc.Clock) Option {
	return func(s *sturdycService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// sturdycService keeps one sturdyc client per TTL class. sturdyc binds the TTL
// to the client, so lookups with a shorter lifetime (upcoming matches) get their
// own client while sharing the key registry.
type sturdycService struct {
	cfg      Config
	clock    sturdyc.Clock
	clients  *xsync.MapOf[time.Duration, *sturdyc.Client[[]byte]]
	registry *keyRegistry
}

// NewSturdycService creates a new sturdyc cache service adapter.
// It validates the configuration; clients are created lazily per TTL.
func NewSturdycService(cfg Config, opts ...Option) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &sturdycService{
		cfg:      cfg,
		clients:  xsync.NewMapOf[time.Duration, *sturdyc.Client[[]byte]](),
		registry: newKeyRegistry(defaultSweepEvery),
	}
	for _, opt := range opts {
		opt(s)
	}

	// warm the default class so Size and Get work before the first fetch
	s.client(cfg.TTL)
	return s, nil
}

func (s *sturdycService) client(ttl time.Duration) *sturdyc.Client[[]byte] {
	if ttl <= 0 {
		ttl = s.cfg.TTL
	}
	client, _ := s.clients.LoadOrCompute(ttl, func() *sturdyc.Client[[]byte] {
		options := s.cfg.ToSturdycOptions()
		if s.clock != nil {
			options = append(options, sturdyc.WithClock(s.clock))
		}
		return sturdyc.New[[]byte](
			s.cfg.Capacity,
			s.cfg.NumShards,
			ttl,
			s.cfg.EvictionPercentage,
			options...,
		)
	})
	return client
}

func (s *sturdycService) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now()
}

func (s *sturdycService) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.cfg.TTL
	}
	return ttl
}

// DefaultTTL returns the TTL applied when callers pass zero.
func (s *sturdycService) DefaultTTL() time.Duration {
	return s.cfg.TTL
}

// GetOrFetch returns the cached bytes for key or runs fetchFn once for all
// concurrent callers missing the same key. Errors and ErrNotFound are never
// cached. An entry is live strictly before now+ttl.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetchFn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if fetchFn == nil {
		return nil, &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}

	ttl = s.ttlOrDefault(ttl)
	client := s.client(ttl)
	fetch := func(ctx context.Context) ([]byte, error) {
		v, err := fetchFn(ctx)
		if errors.Is(err, ErrNotFound) {
			return nil, sturdyc.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return sealEntry(v, s.now().Add(ttl))
	}

	for attempt := 0; ; attempt++ {
		raw, err := client.GetOrFetch(ctx, key, fetch)
		if err != nil {
			if errors.Is(err, sturdyc.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		e, err := openEntry(raw)
		if err == nil && (e.liveAt(s.now()) || attempt > 0) {
			return e.Value, nil
		}
		// sturdyc still serves an entry at its exact expiry instant
		client.Delete(key)
		if attempt > 0 {
			return nil, err
		}
	}
}

// Get returns the live entry for key, if any TTL class holds one.
func (s *sturdycService) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		value []byte
		found bool
	)
	now := s.now()
	s.clients.Range(func(_ time.Duration, client *sturdyc.Client[[]byte]) bool {
		raw, ok := client.Get(key)
		if !ok {
			return true
		}
		e, err := openEntry(raw)
		if err != nil || !e.liveAt(now) {
			client.Delete(key)
			return true
		}
		value, found = e.Value, true
		return false
	})
	return value, found
}

// Set stores value under key with an absolute expiry of now+ttl.
func (s *sturdycService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ttl = s.ttlOrDefault(ttl)
	raw, err := sealEntry(value, s.now().Add(ttl))
	if err != nil {
		return err
	}
	s.deleteEverywhere(key)
	s.client(ttl).Set(key, raw)
	return nil
}

// Track registers key as a live entry of namespace until now+ttl.
func (s *sturdycService) Track(namespace, key string, ttl time.Duration) {
	if namespace == "" || key == "" {
		return
	}
	now := s.now()
	s.registry.track(namespace, key, now.Add(s.ttlOrDefault(ttl)), now)
}

// InvalidateNamespace evicts every key tracked under namespace and reports how
// many keys were removed.
func (s *sturdycService) InvalidateNamespace(ctx context.Context, namespace string) (int, error) {
	keys := s.registry.drain(namespace)
	for _, key := range keys {
		s.deleteEverywhere(key)
	}
	return len(keys), nil
}

// TrackedKeys returns the number of keys currently registered for namespace.
func (s *sturdycService) TrackedKeys(namespace string) int {
	return s.registry.size(namespace)
}

// Delete removes a single entry from the cache.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.deleteEverywhere(key)
	return nil
}

// DeleteByPrefix removes all entries whose key starts with prefix.
func (s *sturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.clients.Range(func(_ time.Duration, client *sturdyc.Client[[]byte]) bool {
		for _, key := range client.ScanKeys() {
			if strings.HasPrefix(key, prefix) {
				client.Delete(key)
			}
		}
		return true
	})
	return nil
}

// InvalidateKeys removes multiple entries from the cache.
func (s *sturdycService) InvalidateKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		s.deleteEverywhere(key)
	}
	return nil
}

// Size returns the number of entries held across every TTL class.
func (s *sturdycService) Size() int {
	total := 0
	s.clients.Range(func(_ time.Duration, client *sturdyc.Client[[]byte]) bool {
		total += client.Size()
		return true
	})
	return total
}

// Close drops every client and the key registry. The service can still be
// used afterwards; it starts from an empty cache.
func (s *sturdycService) Close() error {
	s.clients.Clear()
	s.registry.clear()
	return nil
}

func (s *sturdycService) deleteEverywhere(key string) {
	s.clients.Range(func(_ time.Duration, client *sturdyc.Client[[]byte]) bool {
		client.Delete(key)
		return true
	})
}

// entry is what the adapter stores in sturdyc: the caller's bytes plus the
// absolute instant they stop being served.
type entry struct {
	ExpiresAt int64  `msgpack:"x"`
	Value     []byte `msgpack:"v"`
}

func (e entry) liveAt(now time.Time) bool {
	return now.UnixNano() < e.ExpiresAt
}

func sealEntry(value []byte, expiresAt time.Time) ([]byte, error) {
	return msgpack.Marshal(entry{ExpiresAt: expiresAt.UnixNano(), Value: value})
}

func openEntry(raw []byte) (entry, error) {
	var e entry
	if err := msgpack.Unmarshal(raw, &e); err != nil {
		return entry{}, err
	}
	return e, nil
}
