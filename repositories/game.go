package repositories

import (
	"context"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
)

type GameRepository struct {
	*repositorycache.Repository[models.Game, int64]
}

func NewGameRepository(s store.EntityStore[models.Game, int64], c cache.CacheService, opts ...repositorycache.Option) *GameRepository {
	return &GameRepository{newRepository(s, c, withActiveFlag(), opts)}
}

// GetByName returns the game called name, or nil.
func (r *GameRepository) GetByName(ctx context.Context, name string) (*models.Game, error) {
	if err := repositorycache.RequireNonBlank("name", name); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Name", name), repository.SelectBy("name", "=", name))
}

func (r *GameRepository) GetByProvider(ctx context.Context, provider string) ([]models.Game, error) {
	if err := repositorycache.RequireNonBlank("provider", provider); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("Provider", provider), repository.SelectBy("provider", "=", provider))
}

func (r *GameRepository) GetByGameType(ctx context.Context, gameType string) ([]models.Game, error) {
	if err := repositorycache.RequireNonBlank("game type", gameType); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("GameType", gameType), repository.SelectBy("game_type", "=", gameType))
}

func (r *GameRepository) GetByActiveStatus(ctx context.Context, active bool) ([]models.Game, error) {
	return r.FindMany(ctx, r.KeyFor("IsActive", active), store.WhereColumn(ActiveColumn, active))
}

func (r *GameRepository) GetOrderedByGameOrder(ctx context.Context) ([]models.Game, error) {
	return r.FindMany(ctx, r.KeyFor("OrderedByGameOrder"), repository.SelectOrderAsc("game_order"))
}

// GetNotExcludedForCountry returns the games a country may offer, by name.
// The result depends on the country exclusion table, so its key is also
// evicted by writes to GameExcludedByCountry.
func (r *GameRepository) GetNotExcludedForCountry(ctx context.Context, countryID int64) ([]models.Game, error) {
	ctx = repositorycache.WithCacheTags(ctx, repositorycache.EntityTypeName[models.GameExcludedByCountry]())
	return r.FindMany(ctx, r.KeyFor("NotExcludedForCountry", countryID),
		repository.SelectColumnNotInSubq("id",
			"SELECT game_id FROM games_excluded_by_country WHERE country_id = ?", countryID),
		repository.SelectOrderAsc("name"),
	)
}

// ExclusionRepository serves one of the game exclusion tables. Every table
// pairs a game with a target: a country, a jurisdiction or a white label.
type ExclusionRepository[T any] struct {
	*repositorycache.Repository[T, int64]

	targetColumn string
	targetLabel  string
	gameID       func(*T) int64
}

func newExclusionRepository[T any](s store.EntityStore[T, int64], c cache.CacheService, targetColumn, targetLabel string, gameID func(*T) int64, opts []repositorycache.Option) *ExclusionRepository[T] {
	return &ExclusionRepository[T]{
		Repository:   newRepository(s, c, nil, opts),
		targetColumn: targetColumn,
		targetLabel:  targetLabel,
		gameID:       gameID,
	}
}

func NewGameExcludedByCountryRepository(s store.EntityStore[models.GameExcludedByCountry, int64], c cache.CacheService, opts ...repositorycache.Option) *ExclusionRepository[models.GameExcludedByCountry] {
	return newExclusionRepository(s, c, "country_id", "CountryId",
		func(e *models.GameExcludedByCountry) int64 { return e.GameID }, opts)
}

func NewGameExcludedByJurisdictionRepository(s store.EntityStore[models.GameExcludedByJurisdiction, int64], c cache.CacheService, opts ...repositorycache.Option) *ExclusionRepository[models.GameExcludedByJurisdiction] {
	return newExclusionRepository(s, c, "jurisdiction_id", "JurisdictionId",
		func(e *models.GameExcludedByJurisdiction) int64 { return e.GameID }, opts)
}

func NewGameExcludedByLabelRepository(s store.EntityStore[models.GameExcludedByLabel, int64], c cache.CacheService, opts ...repositorycache.Option) *ExclusionRepository[models.GameExcludedByLabel] {
	return newExclusionRepository(s, c, "label_id", "LabelId",
		func(e *models.GameExcludedByLabel) int64 { return e.GameID }, opts)
}

func (r *ExclusionRepository[T]) GetByGameID(ctx context.Context, gameID int64) ([]T, error) {
	return r.FindMany(ctx, r.KeyFor("GameId", gameID), store.WhereColumn("game_id", gameID))
}

// GetByTargetID lists the exclusions of one country, jurisdiction or label.
func (r *ExclusionRepository[T]) GetByTargetID(ctx context.Context, targetID int64) ([]T, error) {
	return r.FindMany(ctx, r.KeyFor(r.targetLabel, targetID), store.WhereColumn(r.targetColumn, targetID))
}

// GetByGameIDAndTargetID returns the exclusion row for the pair, or nil.
func (r *ExclusionRepository[T]) GetByGameIDAndTargetID(ctx context.Context, gameID, targetID int64) (*T, error) {
	return r.FindOne(ctx, r.KeyFor("GameId", gameID, r.targetLabel, targetID), r.pair(gameID, targetID)...)
}

// IsGameExcluded reports whether the pair is excluded. Both answers are
// cached.
func (r *ExclusionRepository[T]) IsGameExcluded(ctx context.Context, gameID, targetID int64) (bool, error) {
	lookup := r.KeyFor("IsExcluded", "GameId", gameID, r.targetLabel, targetID)
	return repositorycache.Cached(ctx, r.Repository, lookup, func(ctx context.Context) (bool, error) {
		return r.Store().Exists(ctx, r.pair(gameID, targetID)...)
	})
}

// GetExcludedGameIDs returns the ids of the games excluded for targetID in
// ascending order.
func (r *ExclusionRepository[T]) GetExcludedGameIDs(ctx context.Context, targetID int64) ([]int64, error) {
	lookup := r.KeyFor("ExcludedGameIds", r.targetLabel, targetID)
	return repositorycache.Cached(ctx, r.Repository, lookup, func(ctx context.Context) ([]int64, error) {
		rows, err := r.Store().Query(ctx,
			store.WhereColumn(r.targetColumn, targetID),
			repository.SelectOrderAsc("game_id"),
		)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(rows))
		for i := range rows {
			ids = append(ids, r.gameID(&rows[i]))
		}
		return ids, nil
	})
}

func (r *ExclusionRepository[T]) pair(gameID, targetID int64) []store.Criteria {
	return []store.Criteria{
		store.WhereColumn("game_id", gameID),
		store.WhereColumn(r.targetColumn, targetID),
	}
}
