package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/uptrace/bun"
	"github.com/viccon/sturdyc"
)

// Epoch is the instant test clocks start at.
var Epoch = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// OpenSQLite opens a private in-memory sqlite database, creates a table for
// every model and closes the database when the test ends.
func OpenSQLite(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	db, err := store.Open(store.Options{
		Driver:       store.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.CreateSchema(context.Background(), db, models...); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

// Seed inserts rows and returns them with their generated ids.
func Seed[T any](t testing.TB, db bun.IDB, rows []T) []T {
	t.Helper()

	if len(rows) == 0 {
		return rows
	}
	if _, err := db.NewInsert().Model(&rows).Exec(context.Background()); err != nil {
		t.Fatalf("failed to seed %T: %v", rows, err)
	}
	return rows
}

// SeedFixture loads a JSON fixture of T rows from testdata and inserts it.
func SeedFixture[T any](t testing.TB, db bun.IDB, filename string) []T {
	t.Helper()

	var rows []T
	LoadFixtureJSON(t, FixturePath(filename), &rows)
	return Seed(t, db, rows)
}

// NewCache returns a cache service driven by a test clock set to Epoch.
func NewCache(t testing.TB, mutate ...func(cfg *cache.Config)) (cache.CacheService, *sturdyc.TestClock) {
	t.Helper()

	cfg := cache.DefaultConfig()
	cfg.NumShards = 4
	for _, m := range mutate {
		m(&cfg)
	}

	clock := sturdyc.NewTestClock(Epoch)
	svc, err := cache.NewCacheService(cfg, cache.WithClock(clock))
	if err != nil {
		t.Fatalf("failed to create cache service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc, clock
}

// NewLogger returns a logger that records entries instead of printing them.
func NewLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}
