package cache

import (
	"strings"
	"testing"
	"time"
)

type dayRange struct {
	from, to time.Time
}

func (d dayRange) CacheKeyPart() string {
	return d.from.Format(KeyDateLayout) + KeySeparator + d.to.Format(KeyDateLayout)
}

type providerName string

func TestDefaultKeyBuilder_Formats(t *testing.T) {
	builder := NewKeyBuilder()
	may1 := time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)
	may31 := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		entityType    string
		discriminator string
		args          []any
		want          string
	}{
		{name: "all active", entityType: "WhiteLabel", discriminator: "All", args: []any{false}, want: "WhiteLabel_All_false"},
		{name: "all including inactive", entityType: "WhiteLabel", discriminator: "All", args: []any{true}, want: "WhiteLabel_All_true"},
		{name: "by id", entityType: "Country", args: []any{int64(42)}, want: "Country_42"},
		{name: "string lookup", entityType: "Country", discriminator: "IsoCode", args: []any{"US"}, want: "Country_IsoCode_US"},
		{name: "provider", entityType: "Game", discriminator: "Provider", args: []any{"NetEnt"}, want: "Game_Provider_NetEnt"},
		{name: "named string type", entityType: "Game", discriminator: "Provider", args: []any{providerName("Play'n GO")}, want: "Game_Provider_Play'n GO"},
		{name: "upcoming", entityType: "SportMatch", discriminator: "Upcoming", args: []any{5}, want: "SportMatch_Upcoming_5"},
		{name: "date", entityType: "CurrencyHistory", discriminator: "Date", args: []any{may1}, want: "CurrencyHistory_Date_20240501"},
		{name: "key part", entityType: "SportMatch", discriminator: "DateRange", args: []any{dayRange{may1, may31}}, want: "SportMatch_DateRange_20240501_20240531"},
		{
			name:          "composite",
			entityType:    "BonusBalance",
			discriminator: "PlayerId",
			args:          []any{int64(5), "BonusId", int64(3)},
			want:          "BonusBalance_PlayerId_5_BonusId_3",
		},
		{name: "id list", entityType: "DailyAction", discriminator: "WhiteLabels", args: []any{[]int64{1, 2, 3}}, want: "DailyAction_WhiteLabels_[1,2,3]"},
		{name: "nil pointer", entityType: "Player", discriminator: "FirstDeposit", args: []any{(*time.Time)(nil)}, want: "Player_FirstDeposit_nil"},
		{name: "pointer", entityType: "Player", discriminator: "FirstDeposit", args: []any{&may31}, want: "Player_FirstDeposit_20240531"},
		{name: "float", entityType: "CurrencyHistory", discriminator: "Rate", args: []any{1.25}, want: "CurrencyHistory_Rate_1.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := builder.BuildKey(tt.entityType, tt.discriminator, tt.args...)
			if got != tt.want {
				t.Errorf("BuildKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultKeyBuilder_Deterministic(t *testing.T) {
	builder := NewKeyBuilder()
	args := []any{"NetEnt", int64(7), []int64{4, 9}}

	first := builder.BuildKey("Game", "Provider", args...)
	for i := 0; i < 100; i++ {
		if got := builder.BuildKey("Game", "Provider", args...); got != first {
			t.Fatalf("key changed between calls: %q vs %q", first, got)
		}
	}
}

func TestDefaultKeyBuilder_NoCollisions(t *testing.T) {
	builder := NewKeyBuilder()

	pairs := []struct {
		name string
		a, b string
	}{
		{
			name: "separator inside a string argument",
			a:    builder.BuildKey("Player", "Country", "A_B", "Currency", "C"),
			b:    builder.BuildKey("Player", "Country", "A", "B_Currency", "C"),
		},
		{
			name: "string id shaped like the all key",
			a:    builder.BuildKey("Transaction", "", "All_false"),
			b:    builder.BuildKey("Transaction", "All", false),
		},
		{
			name: "empty string versus missing argument",
			a:    builder.BuildKey("Game", "Name", ""),
			b:    builder.BuildKey("Game", "Name"),
		},
		{
			name: "comma inside list element",
			a:    builder.BuildKey("Game", "Names", []string{"a,b"}),
			b:    builder.BuildKey("Game", "Names", []string{"a", "b"}),
		},
		{
			name: "backslash before separator",
			a:    builder.BuildKey("Game", "Name", `a\`, "x"),
			b:    builder.BuildKey("Game", "Name", `a\_x`),
		},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("keys collide: %q", tt.a)
			}
		})
	}
}

func TestFormatKeyArg_EscapesSeparators(t *testing.T) {
	got := FormatKeyArg(`a_b\c,d`)
	want := `a\_b\\c\,d`
	if got != want {
		t.Errorf("FormatKeyArg() = %q, want %q", got, want)
	}
	if FormatKeyArg("") != emptyString {
		t.Errorf("expected empty string marker, got %q", FormatKeyArg(""))
	}
}

func TestNamespace(t *testing.T) {
	builder := NewKeyBuilder()
	key := builder.BuildKey("Game", "Provider", "NetEnt")
	if !strings.HasPrefix(key, Namespace("Game")) {
		t.Errorf("expected %q to start with namespace %q", key, Namespace("Game"))
	}
	if strings.HasPrefix(builder.BuildKey("GameExcludedByCountry", "", int64(1)), Namespace("Game")) {
		t.Error("namespace of Game must not match GameExcludedByCountry keys")
	}
}
