package repositories

import (
	"context"
	"time"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type SportMatchRepository struct {
	*repositorycache.Repository[models.SportMatch, int64]
}

func NewSportMatchRepository(s store.EntityStore[models.SportMatch, int64], c cache.CacheService, opts ...repositorycache.Option) *SportMatchRepository {
	return &SportMatchRepository{newRepository(s, c, withActiveFlag(), opts)}
}

func (r *SportMatchRepository) GetByName(ctx context.Context, name string) (*models.SportMatch, error) {
	if err := repositorycache.RequireNonBlank("name", name); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Name", name), repository.SelectBy("name", "=", name))
}

func (r *SportMatchRepository) GetByActiveStatus(ctx context.Context, active bool) ([]models.SportMatch, error) {
	return r.FindMany(ctx, r.KeyFor("IsActive", active), store.WhereColumn(ActiveColumn, active))
}

func (r *SportMatchRepository) GetByCompetitionID(ctx context.Context, competitionID int64) ([]models.SportMatch, error) {
	return r.FindMany(ctx, r.KeyFor("CompetitionId", competitionID), store.WhereColumn("competition_id", competitionID))
}

func (r *SportMatchRepository) GetByDateRange(ctx context.Context, period repositorycache.DateRange) ([]models.SportMatch, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("DateRange", period),
		period.Within("start_date"),
		repository.SelectOrderAsc("start_date"),
	)
}

func (r *SportMatchRepository) GetByCompetitionIDAndDateRange(ctx context.Context, competitionID int64, period repositorycache.DateRange) ([]models.SportMatch, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("CompetitionId", competitionID, "DateRange", period),
		store.WhereColumn("competition_id", competitionID),
		period.Within("start_date"),
		repository.SelectOrderAsc("start_date"),
	)
}

// GetUpcoming returns the next count active matches by start date. The set
// changes as matches kick off, so entries live at most UpcomingTTL.
func (r *SportMatchRepository) GetUpcoming(ctx context.Context, count int) ([]models.SportMatch, error) {
	if err := repositorycache.RequirePositive("count", count); err != nil {
		return nil, err
	}

	now := r.Now().UTC().Truncate(time.Second)
	lookup := r.KeyFor("Upcoming", count).CapTTL(UpcomingTTL)

	return r.FindMany(ctx, lookup,
		store.Where("? > ?", bun.Ident("start_date"), now),
		store.WhereColumn(ActiveColumn, true),
		repository.SelectOrderAsc("start_date"),
		repository.SelectPaginate(count, 0),
	)
}

type SportMarketRepository struct {
	*repositorycache.Repository[models.SportMarket, int64]
}

func NewSportMarketRepository(s store.EntityStore[models.SportMarket, int64], c cache.CacheService, opts ...repositorycache.Option) *SportMarketRepository {
	return &SportMarketRepository{newRepository(s, c, withActiveFlag(), opts)}
}

func (r *SportMarketRepository) GetByMatchID(ctx context.Context, matchID int64) ([]models.SportMarket, error) {
	return r.FindMany(ctx, r.KeyFor("MatchId", matchID), store.WhereColumn("match_id", matchID))
}

func (r *SportMarketRepository) GetBySportID(ctx context.Context, sportID int64) ([]models.SportMarket, error) {
	return r.FindMany(ctx, r.KeyFor("SportId", sportID), store.WhereColumn("sport_id", sportID))
}

func (r *SportMarketRepository) GetByActiveStatus(ctx context.Context, active bool) ([]models.SportMarket, error) {
	return r.FindMany(ctx, r.KeyFor("IsActive", active), store.WhereColumn(ActiveColumn, active))
}

func (r *SportMarketRepository) GetByMatchIDAndActiveStatus(ctx context.Context, matchID int64, active bool) ([]models.SportMarket, error) {
	return r.FindMany(ctx, r.KeyFor("MatchId", matchID, "IsActive", active),
		store.WhereColumn("match_id", matchID),
		store.WhereColumn(ActiveColumn, active),
	)
}

func (r *SportMarketRepository) GetBySportIDAndActiveStatus(ctx context.Context, sportID int64, active bool) ([]models.SportMarket, error) {
	return r.FindMany(ctx, r.KeyFor("SportId", sportID, "IsActive", active),
		store.WhereColumn("sport_id", sportID),
		store.WhereColumn(ActiveColumn, active),
	)
}

type SportCompetitionRepository struct {
	*repositorycache.Repository[models.SportCompetition, int64]
}

func NewSportCompetitionRepository(s store.EntityStore[models.SportCompetition, int64], c cache.CacheService, opts ...repositorycache.Option) *SportCompetitionRepository {
	return &SportCompetitionRepository{newRepository(s, c, withActiveFlag(), opts)}
}

func (r *SportCompetitionRepository) GetByName(ctx context.Context, name string) (*models.SportCompetition, error) {
	if err := repositorycache.RequireNonBlank("name", name); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Name", name), repository.SelectBy("name", "=", name))
}

func (r *SportCompetitionRepository) GetByActiveStatus(ctx context.Context, active bool) ([]models.SportCompetition, error) {
	return r.FindMany(ctx, r.KeyFor("IsActive", active), store.WhereColumn(ActiveColumn, active))
}

func (r *SportCompetitionRepository) GetBySportID(ctx context.Context, sportID int64) ([]models.SportCompetition, error) {
	return r.FindMany(ctx, r.KeyFor("SportId", sportID), store.WhereColumn("sport_id", sportID))
}

func (r *SportCompetitionRepository) GetByRegionID(ctx context.Context, regionID int64) ([]models.SportCompetition, error) {
	return r.FindMany(ctx, r.KeyFor("RegionId", regionID), store.WhereColumn("region_id", regionID))
}

func (r *SportCompetitionRepository) GetBySportIDAndRegionID(ctx context.Context, sportID, regionID int64) ([]models.SportCompetition, error) {
	return r.FindMany(ctx, r.KeyFor("SportId", sportID, "RegionId", regionID),
		store.WhereColumn("sport_id", sportID),
		store.WhereColumn("region_id", regionID),
	)
}

type SportRegionRepository struct {
	*repositorycache.Repository[models.SportRegion, int64]
}

func NewSportRegionRepository(s store.EntityStore[models.SportRegion, int64], c cache.CacheService, opts ...repositorycache.Option) *SportRegionRepository {
	return &SportRegionRepository{newRepository(s, c, withActiveFlag(), opts)}
}

func (r *SportRegionRepository) GetByName(ctx context.Context, name string) (*models.SportRegion, error) {
	if err := repositorycache.RequireNonBlank("name", name); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Name", name), repository.SelectBy("name", "=", name))
}

func (r *SportRegionRepository) GetByActiveStatus(ctx context.Context, active bool) ([]models.SportRegion, error) {
	return r.FindMany(ctx, r.KeyFor("IsActive", active), store.WhereColumn(ActiveColumn, active))
}

func (r *SportRegionRepository) GetBySportID(ctx context.Context, sportID int64) ([]models.SportRegion, error) {
	return r.FindMany(ctx, r.KeyFor("SportId", sportID), store.WhereColumn("sport_id", sportID))
}
