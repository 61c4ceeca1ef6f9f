package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("entity_type", "Game").Debug("cache hit")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Game", entry["entity_type"])
	assert.Equal(t, "cache hit", entry["msg"])
}

func TestNewLogger_Fallbacks(t *testing.T) {
	logger := NewLogger("not-a-level", "text")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func collect(t *testing.T, reader sdkmetric.Reader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func counterValue(rm metricdata.ResourceMetrics, name, entityType string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(AttrEntityType); ok && v.AsString() == entityType {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestCacheMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewCacheMetrics(provider.Meter(DefaultMeterName))
	require.NoError(t, err)
	ctx := context.Background()

	m.Miss(ctx, "Game", "All")
	m.Populate(ctx, "Game", "All")
	m.Hit(ctx, "Game", "All")
	m.Hit(ctx, "Game", "Name")
	m.Hit(ctx, "Country", "IsoCode")
	m.Invalidate(ctx, "Game", 3)
	m.Invalidate(ctx, "Game", 0)
	m.StoreError(ctx, "Player", "CasinoName")

	rm := collect(t, reader)
	assert.Equal(t, int64(2), counterValue(rm, "reportcache.cache.hits", "Game"))
	assert.Equal(t, int64(1), counterValue(rm, "reportcache.cache.hits", "Country"))
	assert.Equal(t, int64(1), counterValue(rm, "reportcache.cache.misses", "Game"))
	assert.Equal(t, int64(1), counterValue(rm, "reportcache.cache.populates", "Game"))
	assert.Equal(t, int64(2), counterValue(rm, "reportcache.cache.invalidations", "Game"))
	assert.Equal(t, int64(3), counterValue(rm, "reportcache.cache.evicted_keys", "Game"))
	assert.Equal(t, int64(1), counterValue(rm, "reportcache.store.errors", "Player"))
}

func TestNewCacheMetrics_GlobalProvider(t *testing.T) {
	m, err := NewCacheMetrics(nil)
	require.NoError(t, err)
	m.Hit(context.Background(), "Game", "All")
}
