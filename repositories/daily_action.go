package repositories

import (
	"context"
	"slices"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
)

// DailyActionRepository serves the per-day activity aggregates behind most
// reports. Every list is ordered by day.
type DailyActionRepository struct {
	*repositorycache.Repository[models.DailyAction, int64]
}

func NewDailyActionRepository(s store.EntityStore[models.DailyAction, int64], c cache.CacheService, opts ...repositorycache.Option) *DailyActionRepository {
	return &DailyActionRepository{newRepository(s, c, nil, opts)}
}

func (r *DailyActionRepository) GetByDateRange(ctx context.Context, period repositorycache.DateRange) ([]models.DailyAction, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("DateRange", period), period.Within("date"), byDay)
}

func (r *DailyActionRepository) GetByWhiteLabelID(ctx context.Context, whiteLabelID int64) ([]models.DailyAction, error) {
	return r.FindMany(ctx, r.KeyFor("WhiteLabel", whiteLabelID),
		store.WhereColumn("white_label_id", whiteLabelID),
		byDay,
	)
}

func (r *DailyActionRepository) GetByPlayerID(ctx context.Context, playerID int64) ([]models.DailyAction, error) {
	return r.FindMany(ctx, r.KeyFor("Player", playerID),
		store.WhereColumn("player_id", playerID),
		byDay,
	)
}

func (r *DailyActionRepository) GetByDateRangeAndWhiteLabelID(ctx context.Context, period repositorycache.DateRange, whiteLabelID int64) ([]models.DailyAction, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("DateRange", period, "WhiteLabel", whiteLabelID),
		period.Within("date"),
		store.WhereColumn("white_label_id", whiteLabelID),
		byDay,
	)
}

// GetByDateRangeAndWhiteLabelIDs sorts and de-duplicates the ids before
// building the key, so any ordering of one id set shares a single entry. An
// empty set matches nothing and never reaches the store.
func (r *DailyActionRepository) GetByDateRangeAndWhiteLabelIDs(ctx context.Context, period repositorycache.DateRange, whiteLabelIDs []int64) ([]models.DailyAction, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	ids := slices.Clone(whiteLabelIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return []models.DailyAction{}, nil
	}

	return r.FindMany(ctx, r.KeyFor("DateRange", period, "WhiteLabels", ids),
		period.Within("date"),
		repository.SelectColumnIn("white_label_id", ids),
		byDay,
	)
}

func (r *DailyActionRepository) GetByDateRangeAndPlayerID(ctx context.Context, period repositorycache.DateRange, playerID int64) ([]models.DailyAction, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("DateRange", period, "Player", playerID),
		period.Within("date"),
		store.WhereColumn("player_id", playerID),
		byDay,
	)
}

var byDay = repository.OrderBy("date ASC", "id ASC")
