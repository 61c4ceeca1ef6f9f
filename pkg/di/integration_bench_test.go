package di

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositories"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingGames(tb testing.TB, f fixture) (*repositories.GameRepository, *store.Counting[models.Game, int64]) {
	tb.Helper()
	counting := store.NewCounting[models.Game, int64](entityStore[models.Game](f.container))
	return repositories.NewGameRepository(counting, f.container.CacheService(), repositoryOptions[models.Game](f.container)...), counting
}

// TestConcurrentAccess checks that concurrent cold reads of one key share a
// single store query and that every caller gets the same rows.
func TestConcurrentAccess(t *testing.T) {
	f := newFixture(t, nil)
	seedReferenceData(t, f.db)

	release := make(chan struct{})
	games, counting := countingGames(t, f)
	counting.WithHook(func(ctx context.Context, op string) error {
		<-release
		return nil
	})

	const workers = 50
	var wg sync.WaitGroup
	results := make([][]models.Game, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = games.GetByProvider(context.Background(), "NetEnt")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 2)
	}
	assert.Equal(t, int64(1), counting.Calls(store.OpQuery))
}

// TestConcurrentReadsAndWrites mixes reads with writes. A read that started
// before a write may repopulate its key, so the final read forces a refresh.
func TestConcurrentReadsAndWrites(t *testing.T) {
	f := newFixture(t, nil)
	seedReferenceData(t, f.db)
	games := f.container.Repositories().Games
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := games.GetAll(ctx, true)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := games.Add(ctx, &models.Game{Name: "Generated", IsActive: true})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := games.GetAll(repositorycache.WithRefresh(ctx), true)
	require.NoError(t, err)
	assert.Len(t, all, 13)
}

func BenchmarkGetByName_Warm(b *testing.B) {
	f := newFixture(b, nil)
	seedReferenceData(b, f.db)
	games := f.container.Repositories().Games
	ctx := context.Background()

	_, err := games.GetByName(ctx, "Starburst")
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := games.GetByName(ctx, "Starburst"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetByName_Cold(b *testing.B) {
	f := newFixture(b, nil)
	seedReferenceData(b, f.db)
	games := f.container.Repositories().Games
	ctx := repositorycache.WithRefresh(context.Background())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := games.GetByName(ctx, "Starburst"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetAll_Parallel(b *testing.B) {
	f := newFixture(b, nil)
	seedReferenceData(b, f.db)
	games, counting := countingGames(b, f)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := games.GetAll(ctx, false); err != nil {
				b.Error(err)
				return
			}
		}
	})
	b.StopTimer()
	b.ReportMetric(float64(counting.Reads()), "store-reads")
}
