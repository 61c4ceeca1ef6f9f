package di

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/config"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/pkg/observability"
	"github.com/goliatone/go-reporting-cache/pkg/testsupport"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/viccon/sturdyc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fixture struct {
	db        *bun.DB
	clock     *sturdyc.TestClock
	container *Container
}

func testConfig(t testing.TB, mutate func(cfg *config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Cache.NumShards = 4
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func newFixture(t testing.TB, mutate func(cfg *config.Config), opts ...Option) fixture {
	t.Helper()

	db := testsupport.OpenSQLite(t, models.All()...)
	clock := sturdyc.NewTestClock(testsupport.Epoch)
	logger, _ := testsupport.NewLogger()

	all := []Option{
		WithDB(db),
		WithLogger(logger),
		WithCacheOptions(cache.WithClock(clock)),
		WithRepositoryOptions(repositorycache.WithClock(clock.Now)),
	}
	c, err := NewContainer(context.Background(), testConfig(t, mutate), append(all, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return fixture{db: db, clock: clock, container: c}
}

func seedReferenceData(t testing.TB, db bun.IDB) {
	t.Helper()
	testsupport.Seed(t, db, []models.Game{
		{Name: "Starburst", Provider: "NetEnt", GameType: "slot", GameOrder: 2, IsActive: true},
		{Name: "Lightning Roulette", Provider: "Evolution", GameType: "live", GameOrder: 1, IsActive: true},
		{Name: "Retired Slot", Provider: "NetEnt", GameType: "slot", GameOrder: 3, IsActive: false},
	})
	testsupport.Seed(t, db, []models.Country{
		{Name: "Malta", IsoCode: "MT", IsActive: true},
		{Name: "Sweden", IsoCode: "SE", IsActive: true},
	})
	testsupport.Seed(t, db, []models.WhiteLabel{
		{Name: "Casino One", Code: "C1", IsActive: true},
	})
}

func cachedKey(t testing.TB, c *Container, key string) bool {
	t.Helper()
	_, ok := c.CacheService().Get(context.Background(), key)
	return ok
}

func TestNewContainer(t *testing.T) {
	f := newFixture(t, nil)
	c := f.container

	assert.NotNil(t, c.CacheService())
	assert.Same(t, c.CacheService(), c.CacheService())
	assert.Same(t, f.db, c.DB())
	assert.IsType(t, repositorycache.NopRecorder{}, c.Recorder())
	assert.Equal(t, 30*time.Minute, c.Config().Cache.TTL)
	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Warmer())

	repos := reflect.ValueOf(c.Repositories()).Elem()
	for i := 0; i < repos.NumField(); i++ {
		assert.False(t, repos.Field(i).IsNil(), "repository %s not built", repos.Type().Field(i).Name)
	}

	assert.Equal(t, "Game", c.Repositories().Games.EntityType())
	assert.Equal(t, "GameExcludedByCountry", c.Repositories().GamesExcludedByCountry.EntityType())
	assert.True(t, c.Repositories().Games.CachingEnabled())
	assert.Equal(t, 30*time.Minute, c.Repositories().Games.TTL())
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) { cfg.Cache.Capacity = 0 })

	_, err := NewContainer(context.Background(), cfg, WithDB(testsupport.OpenSQLite(t)))
	assert.Error(t, err)
}

func TestNewContainer_CacheDisabled(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Cache.Enabled = false })
	seedReferenceData(t, f.db)

	assert.Nil(t, f.container.CacheService())
	games := f.container.Repositories().Games
	assert.False(t, games.CachingEnabled())

	all, err := games.GetAll(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.NoError(t, f.container.Close())
}

func TestNewContainer_RepositoryTTLOverrides(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Repositories.TTL = map[string]time.Duration{"sportmatch": 2 * time.Minute}
	})
	repos := f.container.Repositories()

	assert.Equal(t, 2*time.Minute, repos.SportMatches.TTL())
	assert.Equal(t, 30*time.Minute, repos.SportMarkets.TTL())
	assert.Equal(t, 30*time.Minute, repos.Games.TTL())
}

func TestContainer_ReadThroughAndInvalidation(t *testing.T) {
	f := newFixture(t, nil)
	seedReferenceData(t, f.db)
	ctx := context.Background()
	games := f.container.Repositories().Games

	active, err := games.GetAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	assert.True(t, cachedKey(t, f.container, "Game_All_false"))

	byName, err := games.GetByName(ctx, "Starburst")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.True(t, cachedKey(t, f.container, "Game_Name_Starburst"))

	_, err = games.Add(ctx, &models.Game{Name: "Book of Dead", Provider: "Play'n GO", IsActive: true})
	require.NoError(t, err)
	assert.False(t, cachedKey(t, f.container, "Game_All_false"))
	assert.False(t, cachedKey(t, f.container, "Game_Name_Starburst"))

	active, err = games.GetAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestContainer_EntriesExpireAfterTTL(t *testing.T) {
	f := newFixture(t, nil)
	seedReferenceData(t, f.db)
	ctx := context.Background()

	_, err := f.container.Repositories().Countries.GetAll(ctx, true)
	require.NoError(t, err)

	f.clock.Add(30*time.Minute - time.Second)
	assert.True(t, cachedKey(t, f.container, "Country_All_true"))

	f.clock.Add(2 * time.Second)
	assert.False(t, cachedKey(t, f.container, "Country_All_true"))
}

func TestContainer_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := newFixture(t,
		func(cfg *config.Config) { cfg.Observability.Metrics.Enabled = true },
		WithMeter(provider.Meter(observability.DefaultMeterName)),
	)
	seedReferenceData(t, f.db)
	ctx := context.Background()
	assert.IsType(t, &observability.CacheMetrics{}, f.container.Recorder())

	games := f.container.Repositories().Games
	for i := 0; i < 3; i++ {
		_, err := games.GetAll(ctx, false)
		require.NoError(t, err)
	}
	_, err := games.Add(ctx, &models.Game{Name: "Gonzo's Quest", IsActive: true})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, int64(1), sumCounter(rm, "reportcache.cache.misses"))
	assert.Equal(t, int64(1), sumCounter(rm, "reportcache.cache.populates"))
	assert.Equal(t, int64(2), sumCounter(rm, "reportcache.cache.hits"))
	assert.Equal(t, int64(1), sumCounter(rm, "reportcache.cache.invalidations"))
	assert.Equal(t, int64(1), sumCounter(rm, "reportcache.cache.evicted_keys"))
}

func sumCounter(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == name {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestContainer_Warmup(t *testing.T) {
	f := newFixture(t, nil)
	seedReferenceData(t, f.db)

	results := f.container.Warmup(context.Background())
	require.False(t, results.HasErrors())
	require.Len(t, results.Results, 7)
	assert.Equal(t, "WhiteLabel", results.Results[0].Provider)
	assert.Equal(t, "MetadataItem", results.Results[3].Provider)
	assert.Equal(t, "SportCompetition", results.Results[6].Provider)

	for _, key := range []string{"WhiteLabel_All_false", "Country_All_false", "Currency_All_false", "Game_All_false", "MetadataItem_Type_Gender_false"} {
		assert.True(t, cachedKey(t, f.container, key), key)
	}
	assert.False(t, cachedKey(t, f.container, "Player_All_false"))
}

func TestContainer_WarmupAtStartup(t *testing.T) {
	db := testsupport.OpenSQLite(t, models.All()...)
	seedReferenceData(t, db)
	logger, hook := testsupport.NewLogger()

	cfg := testConfig(t, func(cfg *config.Config) { cfg.Warmup.Enabled = true })
	c, err := NewContainer(context.Background(), cfg, WithDB(db), WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.True(t, cachedKey(t, c, "Country_All_false"))

	var completed bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "cache warmup completed" {
			completed = true
		}
	}
	assert.True(t, completed)
}

func TestContainer_WarmupFailureKeepsContainerUsable(t *testing.T) {
	db := testsupport.OpenSQLite(t)
	logger, _ := testsupport.NewLogger()

	cfg := testConfig(t, func(cfg *config.Config) { cfg.Warmup.Enabled = true })
	c, err := NewContainer(context.Background(), cfg, WithDB(db), WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	results := c.Warmup(context.Background())
	assert.True(t, results.HasErrors())
	assert.Equal(t, 7, results.Errors)
}

func TestContainer_OpensConfiguredDatabase(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		cfg.Database.MaxOpenConns = 1
		cfg.Database.CreateSchema = true
	})
	logger, _ := testsupport.NewLogger()

	c, err := NewContainer(context.Background(), cfg, WithLogger(logger))
	require.NoError(t, err)

	exists, err := c.Repositories().Players.Any(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Close())
	assert.Error(t, c.DB().Ping())
}

func TestContainer_CloseKeepsInjectedDatabase(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.container.Close())
	assert.NoError(t, f.db.Ping())
}

func TestNewRepository(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Repositories.TTL = map[string]time.Duration{"catalogue": 5 * time.Minute}
	})
	seedReferenceData(t, f.db)

	catalogue := NewRepository[models.Game](f.container, repositorycache.WithEntityName("Catalogue"))
	assert.Equal(t, "Catalogue", catalogue.EntityType())
	assert.Equal(t, 30*time.Minute, catalogue.TTL(), "overrides are looked up by model type")

	all, err := catalogue.GetAll(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, cachedKey(t, f.container, "Catalogue_All_true"))
}
