package repositorycache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
)

// DateRange is an inclusive range of calendar days in UTC. Queries cover
// From 00:00 through the last microsecond of To, so the day-precision key
// describes the whole query.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange truncates start and end to their UTC calendar day.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{From: day(start), To: day(end)}
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CacheKeyPart renders the range as yyyyMMdd_yyyyMMdd.
func (d DateRange) CacheKeyPart() string {
	return d.From.Format(cache.KeyDateLayout) + cache.KeySeparator + d.To.Format(cache.KeyDateLayout)
}

// Start is the first instant covered by the range.
func (d DateRange) Start() time.Time { return d.From }

// End is the first instant after the range.
func (d DateRange) End() time.Time { return d.To.AddDate(0, 0, 1) }

// Validate rejects ranges whose end precedes their start.
func (d DateRange) Validate() error {
	if d.From.IsZero() || d.To.IsZero() {
		return invalidArgument("date range", "requires both bounds")
	}
	if err := validation.Validate(d.To, validation.Min(d.From)); err != nil {
		return invalidArgument("date range", "end "+err.Error())
	}
	return nil
}

// Last is the final instant covered by the range at database precision.
func (d DateRange) Last() time.Time { return d.End().Add(-time.Microsecond) }

// Within restricts column to the range.
func (d DateRange) Within(column string) store.Criteria {
	return repository.SelectTimeRange(column, d.Start(), d.Last())
}
