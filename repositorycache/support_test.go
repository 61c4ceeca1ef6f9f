package repositorycache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/pkg/testsupport"
)

func TestRequireNonBlank(t *testing.T) {
	tests := []struct {
		value   string
		invalid bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"Spain", false},
		{" x ", false},
	}

	for _, tt := range tests {
		err := RequireNonBlank("name", tt.value)
		if got := IsInvalidArgument(err); got != tt.invalid {
			t.Errorf("RequireNonBlank(%q): expected invalid=%v, got err %v", tt.value, tt.invalid, err)
		}
	}
}

func TestRequirePositive(t *testing.T) {
	if err := RequirePositive("count", 0); !IsInvalidArgument(err) {
		t.Errorf("expected 0 to be rejected, got %v", err)
	}
	if err := RequirePositive("count", -3); !IsInvalidArgument(err) {
		t.Errorf("expected -3 to be rejected, got %v", err)
	}
	if err := RequirePositive("count", 1); err != nil {
		t.Errorf("expected 1 to be accepted, got %v", err)
	}
}

func TestIsInvalidArgument_OtherErrors(t *testing.T) {
	if IsInvalidArgument(nil) {
		t.Error("nil is not an invalid argument")
	}
	if IsInvalidArgument(errors.New("boom")) {
		t.Error("plain errors are not invalid arguments")
	}
	if IsInvalidArgument(cache.ErrNotFound) {
		t.Error("not found is not an invalid argument")
	}
}

func TestDateRange(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*60*60)
	r := NewDateRange(
		time.Date(2024, 3, 1, 1, 30, 0, 0, madrid),
		time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC),
	)

	if got := r.CacheKeyPart(); got != "20240229_20240331" {
		t.Errorf("expected UTC day key, got %q", got)
	}
	if want := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC); !r.End().Equal(want) {
		t.Errorf("expected end %v, got %v", want, r.End())
	}
	if want := time.Date(2024, 3, 31, 23, 59, 59, 999999000, time.UTC); !r.Last().Equal(want) {
		t.Errorf("expected last instant %v, got %v", want, r.Last())
	}
	if err := r.Validate(); err != nil {
		t.Errorf("expected valid range, got %v", err)
	}

	single := NewDateRange(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC))
	if err := single.Validate(); err != nil {
		t.Errorf("expected single day range to be valid, got %v", err)
	}

	inverted := NewDateRange(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	if err := inverted.Validate(); !IsInvalidArgument(err) {
		t.Errorf("expected inverted range to be rejected, got %v", err)
	}
	if err := (DateRange{}).Validate(); !IsInvalidArgument(err) {
		t.Errorf("expected zero range to be rejected, got %v", err)
	}
}

func TestDateRange_KeyArgument(t *testing.T) {
	r := NewDateRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC))
	key := cache.NewKeyBuilder().BuildKey("Transaction", "PlayerId", int64(5), r)
	if key != "Transaction_PlayerId_5_20240101_20240107" {
		t.Errorf("unexpected key %q", key)
	}
}

type genericBox[T any] struct{ value T }

func TestEntityTypeName(t *testing.T) {
	if got := EntityTypeName[Widget](); got != "Widget" {
		t.Errorf("expected Widget, got %q", got)
	}
	if got := EntityTypeName[*Widget](); got != "Widget" {
		t.Errorf("expected pointer to be dereferenced, got %q", got)
	}
	if got := EntityTypeName[genericBox[int]](); got != "genericBox" {
		t.Errorf("expected generic arguments to be dropped, got %q", got)
	}
	if got := sanitizeTypeName("models.Game_Excluded"); got != "GameExcluded" {
		t.Errorf("expected separators removed, got %q", got)
	}
}

func TestLookupCapTTL(t *testing.T) {
	l := Lookup{Key: "SportMatch_Upcoming_5", TTL: 30 * time.Minute}
	if got := l.CapTTL(15 * time.Minute).TTL; got != 15*time.Minute {
		t.Errorf("expected cap to apply, got %v", got)
	}

	short := Lookup{TTL: 5 * time.Minute}
	if got := short.CapTTL(15 * time.Minute).TTL; got != 5*time.Minute {
		t.Errorf("expected shorter TTL to win, got %v", got)
	}
	if l.TTL != 30*time.Minute {
		t.Error("CapTTL must not modify the receiver")
	}
}

func TestWithCacheTags(t *testing.T) {
	ctx := WithCacheTags(context.Background(), "Game", "", "Country")
	ctx = WithCacheTags(ctx, "Game", "Player")

	got := cacheTagsFromContext(ctx)
	want := []string{"Game", "Country", "Player"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	if tags := cacheTagsFromContext(context.Background()); tags != nil {
		t.Errorf("expected no tags, got %v", tags)
	}
	if refreshRequested(context.Background()) {
		t.Error("refresh must be opt-in")
	}
	if !refreshRequested(WithRefresh(context.Background())) {
		t.Error("expected refresh to be requested")
	}
}

type fakeProvider struct {
	name  string
	err   error
	calls atomic.Int32
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Warmup(ctx context.Context) error {
	p.calls.Add(1)
	return p.err
}

func TestWarmer(t *testing.T) {
	logger, hook := testsupport.NewLogger()
	ok := &fakeProvider{name: "Country"}
	failing := &fakeProvider{name: "Game", err: errors.New("store offline")}
	other := &fakeProvider{name: "Currency"}

	w := NewWarmer(logger, WarmupConfig{Concurrency: 2})
	w.Register(ok, failing, other)

	results := w.Warmup(context.Background())

	if !results.HasErrors() || results.Errors != 1 {
		t.Errorf("expected one failure, got %d", results.Errors)
	}
	names := []string{"Country", "Game", "Currency"}
	for i, res := range results.Results {
		if res.Provider != names[i] {
			t.Errorf("expected results in registration order, got %q at %d", res.Provider, i)
		}
	}
	if results.Results[1].Err == nil {
		t.Error("expected failing provider error to be reported")
	}
	for _, p := range []*fakeProvider{ok, failing, other} {
		if p.calls.Load() != 1 {
			t.Errorf("expected %s to run once, ran %d", p.name, p.calls.Load())
		}
	}
	if len(hook.AllEntries()) == 0 {
		t.Error("expected warmup to be logged")
	}
}

func TestWarmer_RepositoryProvider(t *testing.T) {
	mock := newMockStore(seedWidgets()...)
	repo, svc := newTestRepository(t, mock)
	logger, _ := testsupport.NewLogger()

	w := NewWarmer(logger, DefaultWarmupConfig())
	w.Register(repo)

	if results := w.Warmup(context.Background()); results.HasErrors() {
		t.Fatalf("unexpected warmup errors: %+v", results.Results)
	}
	if _, ok := svc.Get(context.Background(), "Widget_All_false"); !ok {
		t.Error("expected warmup to populate the active list")
	}
}
