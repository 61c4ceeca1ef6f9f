package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"
)

type fixtureRow struct {
	bun.BaseModel `bun:"table:fixture_rows"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name" json:"name"`
}

func TestTempFileAndLoadFixture(t *testing.T) {
	path := TempFile(t, "fixture.txt", []byte("test fixture content"))

	if got := string(LoadFixture(t, path)); got != "test fixture content" {
		t.Errorf("expected fixture content, got %q", got)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	path := TempFile(t, "rows.json", []byte(`[{"name":"alpha"},{"name":"beta"}]`))

	var rows []fixtureRow
	LoadFixtureJSON(t, path, &rows)

	if len(rows) != 2 || rows[1].Name != "beta" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestFixturePath(t *testing.T) {
	if got, want := FixturePath("games.json"), filepath.Join("testdata", "games.json"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOpenSQLiteAndSeed(t *testing.T) {
	db := OpenSQLite(t, (*fixtureRow)(nil))

	seeded := Seed(t, db, []fixtureRow{{Name: "alpha"}, {Name: "beta"}})
	if seeded[0].ID == 0 || seeded[1].ID == 0 {
		t.Fatalf("expected generated ids, got %+v", seeded)
	}

	count, err := db.NewSelect().Model((*fixtureRow)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}
}

func TestOpenSQLite_Isolated(t *testing.T) {
	first := OpenSQLite(t, (*fixtureRow)(nil))
	second := OpenSQLite(t, (*fixtureRow)(nil))

	Seed(t, first, []fixtureRow{{Name: "only in first"}})

	count, err := second.NewSelect().Model((*fixtureRow)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected databases to be isolated, found %d rows", count)
	}
}

func TestNewCacheUsesTestClock(t *testing.T) {
	svc, clock := NewCache(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "Fixture_1", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	clock.Add(2 * time.Minute)

	if _, ok := svc.Get(ctx, "Fixture_1"); ok {
		t.Error("expected entry to expire when the test clock moves past its TTL")
	}
}

func TestNewLoggerRecordsEntries(t *testing.T) {
	logger, hook := NewLogger()
	logger.WithField("entity_type", "Game").Debug("cache hit")

	if len(hook.AllEntries()) != 1 {
		t.Fatalf("expected one entry, got %d", len(hook.AllEntries()))
	}
	if hook.LastEntry().Data["entity_type"] != "Game" {
		t.Errorf("expected entity_type field, got %v", hook.LastEntry().Data)
	}
}
