package observability

import (
	"context"
	"fmt"

	"github.com/goliatone/go-reporting-cache/repositorycache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultMeterName is the instrumentation scope of the cache metrics.
const DefaultMeterName = "github.com/goliatone/go-reporting-cache"

// Attribute keys attached to every cache measurement.
const (
	AttrEntityType = attribute.Key("entity_type")
	AttrOperation  = attribute.Key("operation")
)

// CacheMetrics records repository cache events as OpenTelemetry counters.
type CacheMetrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	populates     metric.Int64Counter
	invalidations metric.Int64Counter
	evictedKeys   metric.Int64Counter
	storeErrors   metric.Int64Counter
}

var _ repositorycache.Recorder = (*CacheMetrics)(nil)

// NewCacheMetrics creates the counters on meter. A nil meter uses the global
// meter provider.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	if meter == nil {
		meter = otel.Meter(DefaultMeterName)
	}

	m := &CacheMetrics{}
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&m.hits, "reportcache.cache.hits", "Reads served from the cache"},
		{&m.misses, "reportcache.cache.misses", "Reads that had to query the store"},
		{&m.populates, "reportcache.cache.populates", "Store results written to the cache"},
		{&m.invalidations, "reportcache.cache.invalidations", "Namespace invalidations after writes"},
		{&m.evictedKeys, "reportcache.cache.evicted_keys", "Keys evicted by invalidations"},
		{&m.storeErrors, "reportcache.store.errors", "Failed store operations"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}

	return m, nil
}

func (m *CacheMetrics) Hit(ctx context.Context, entityType, operation string) {
	m.hits.Add(ctx, 1, opAttrs(entityType, operation))
}

func (m *CacheMetrics) Miss(ctx context.Context, entityType, operation string) {
	m.misses.Add(ctx, 1, opAttrs(entityType, operation))
}

func (m *CacheMetrics) Populate(ctx context.Context, entityType, operation string) {
	m.populates.Add(ctx, 1, opAttrs(entityType, operation))
}

func (m *CacheMetrics) Invalidate(ctx context.Context, entityType string, keys int) {
	attrs := metric.WithAttributes(AttrEntityType.String(entityType))
	m.invalidations.Add(ctx, 1, attrs)
	if keys > 0 {
		m.evictedKeys.Add(ctx, int64(keys), attrs)
	}
}

func (m *CacheMetrics) StoreError(ctx context.Context, entityType, operation string) {
	m.storeErrors.Add(ctx, 1, opAttrs(entityType, operation))
}

func opAttrs(entityType, operation string) metric.AddOption {
	return metric.WithAttributes(
		AttrEntityType.String(entityType),
		AttrOperation.String(operation),
	)
}
