package di

import (
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositories"
	"github.com/goliatone/go-reporting-cache/repositorycache"
)

// Repositories holds one cached repository per reporting entity.
type Repositories struct {
	WhiteLabels     *repositories.WhiteLabelRepository
	Countries       *repositories.CountryRepository
	Currencies      *repositories.CurrencyRepository
	CurrencyHistory *repositories.CurrencyHistoryRepository
	MetadataItems   *repositories.MetadataItemRepository

	Games                       *repositories.GameRepository
	GamesExcludedByCountry      *repositories.ExclusionRepository[models.GameExcludedByCountry]
	GamesExcludedByJurisdiction *repositories.ExclusionRepository[models.GameExcludedByJurisdiction]
	GamesExcludedByLabel        *repositories.ExclusionRepository[models.GameExcludedByLabel]

	Players       *repositories.PlayerRepository
	Transactions  *repositories.TransactionRepository
	BonusBalances *repositories.BonusBalanceRepository
	DailyActions  *repositories.DailyActionRepository

	SportRegions      *repositories.SportRegionRepository
	SportCompetitions *repositories.SportCompetitionRepository
	SportMatches      *repositories.SportMatchRepository
	SportMarkets      *repositories.SportMarketRepository
}

func newRepositories(c *Container) *Repositories {
	return &Repositories{
		WhiteLabels:     repositories.NewWhiteLabelRepository(entityStore[models.WhiteLabel](c), c.cache, repositoryOptions[models.WhiteLabel](c)...),
		Countries:       repositories.NewCountryRepository(entityStore[models.Country](c), c.cache, repositoryOptions[models.Country](c)...),
		Currencies:      repositories.NewCurrencyRepository(entityStore[models.Currency](c), c.cache, repositoryOptions[models.Currency](c)...),
		CurrencyHistory: repositories.NewCurrencyHistoryRepository(entityStore[models.CurrencyHistory](c), c.cache, repositoryOptions[models.CurrencyHistory](c)...),
		MetadataItems:   repositories.NewMetadataItemRepository(entityStore[models.MetadataItem](c), c.cache, repositoryOptions[models.MetadataItem](c)...),

		Games:                       repositories.NewGameRepository(entityStore[models.Game](c), c.cache, repositoryOptions[models.Game](c)...),
		GamesExcludedByCountry:      repositories.NewGameExcludedByCountryRepository(entityStore[models.GameExcludedByCountry](c), c.cache, repositoryOptions[models.GameExcludedByCountry](c)...),
		GamesExcludedByJurisdiction: repositories.NewGameExcludedByJurisdictionRepository(entityStore[models.GameExcludedByJurisdiction](c), c.cache, repositoryOptions[models.GameExcludedByJurisdiction](c)...),
		GamesExcludedByLabel:        repositories.NewGameExcludedByLabelRepository(entityStore[models.GameExcludedByLabel](c), c.cache, repositoryOptions[models.GameExcludedByLabel](c)...),

		Players:       repositories.NewPlayerRepository(entityStore[models.Player](c), c.cache, repositoryOptions[models.Player](c)...),
		Transactions:  repositories.NewTransactionRepository(entityStore[models.Transaction](c), c.cache, repositoryOptions[models.Transaction](c)...),
		BonusBalances: repositories.NewBonusBalanceRepository(entityStore[models.BonusBalance](c), c.cache, repositoryOptions[models.BonusBalance](c)...),
		DailyActions:  repositories.NewDailyActionRepository(entityStore[models.DailyAction](c), c.cache, repositoryOptions[models.DailyAction](c)...),

		SportRegions:      repositories.NewSportRegionRepository(entityStore[models.SportRegion](c), c.cache, repositoryOptions[models.SportRegion](c)...),
		SportCompetitions: repositories.NewSportCompetitionRepository(entityStore[models.SportCompetition](c), c.cache, repositoryOptions[models.SportCompetition](c)...),
		SportMatches:      repositories.NewSportMatchRepository(entityStore[models.SportMatch](c), c.cache, repositoryOptions[models.SportMatch](c)...),
		SportMarkets:      repositories.NewSportMarketRepository(entityStore[models.SportMarket](c), c.cache, repositoryOptions[models.SportMarket](c)...),
	}
}

// WarmupProviders returns the reference data repositories, whose active lists
// are small and read by nearly every report. Player and activity data is
// left to fill on demand.
func (r *Repositories) WarmupProviders() []repositorycache.WarmupProvider {
	return []repositorycache.WarmupProvider{
		r.WhiteLabels,
		r.Countries,
		r.Currencies,
		r.MetadataItems,
		r.Games,
		r.SportRegions,
		r.SportCompetitions,
	}
}
