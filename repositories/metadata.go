package repositories

import (
	"context"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
)

type WhiteLabelRepository struct {
	*repositorycache.Repository[models.WhiteLabel, int64]
}

func NewWhiteLabelRepository(s store.EntityStore[models.WhiteLabel, int64], c cache.CacheService, opts ...repositorycache.Option) *WhiteLabelRepository {
	return &WhiteLabelRepository{newRepository(s, c, withActiveFlag(), opts)}
}

// GetByCode returns the white label with code, or nil.
func (r *WhiteLabelRepository) GetByCode(ctx context.Context, code string) (*models.WhiteLabel, error) {
	if err := repositorycache.RequireNonBlank("code", code); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Code", code), repository.SelectBy("code", "=", code))
}

// GetByName returns the white label called name, or nil.
func (r *WhiteLabelRepository) GetByName(ctx context.Context, name string) (*models.WhiteLabel, error) {
	if err := repositorycache.RequireNonBlank("name", name); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Name", name), repository.SelectBy("name", "=", name))
}

func (r *WhiteLabelRepository) GetByActiveStatus(ctx context.Context, active bool) ([]models.WhiteLabel, error) {
	return r.FindMany(ctx, r.KeyFor("Active", active), store.WhereColumn(ActiveColumn, active))
}

type CountryRepository struct {
	*repositorycache.Repository[models.Country, int64]
}

func NewCountryRepository(s store.EntityStore[models.Country, int64], c cache.CacheService, opts ...repositorycache.Option) *CountryRepository {
	return &CountryRepository{newRepository(s, c, withActiveFlag(), opts)}
}

// GetByIsoCode returns the country with the ISO 3166 code, or nil.
func (r *CountryRepository) GetByIsoCode(ctx context.Context, isoCode string) (*models.Country, error) {
	if err := repositorycache.RequireNonBlank("iso code", isoCode); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("IsoCode", isoCode), repository.SelectBy("iso_code", "=", isoCode))
}

func (r *CountryRepository) GetByName(ctx context.Context, name string) (*models.Country, error) {
	if err := repositorycache.RequireNonBlank("name", name); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Name", name), repository.SelectBy("name", "=", name))
}

type CurrencyRepository struct {
	*repositorycache.Repository[models.Currency, int64]
}

func NewCurrencyRepository(s store.EntityStore[models.Currency, int64], c cache.CacheService, opts ...repositorycache.Option) *CurrencyRepository {
	return &CurrencyRepository{newRepository(s, c, nil, opts)}
}

func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (*models.Currency, error) {
	if err := repositorycache.RequireNonBlank("code", code); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("Code", code), repository.SelectBy("code", "=", code))
}

// CurrencyHistoryRepository serves exchange rate history. Rates are
// append-only, so every list is ordered by observation time.
type CurrencyHistoryRepository struct {
	*repositorycache.Repository[models.CurrencyHistory, int64]
}

func NewCurrencyHistoryRepository(s store.EntityStore[models.CurrencyHistory, int64], c cache.CacheService, opts ...repositorycache.Option) *CurrencyHistoryRepository {
	return &CurrencyHistoryRepository{newRepository(s, c, nil, opts)}
}

func (r *CurrencyHistoryRepository) GetByCurrencyID(ctx context.Context, currencyID int64) ([]models.CurrencyHistory, error) {
	return r.FindMany(ctx, r.KeyFor("CurrencyId", currencyID),
		store.WhereColumn("currency_id", currencyID),
		repository.SelectOrderAsc("updated_date"),
	)
}

func (r *CurrencyHistoryRepository) GetByDateRange(ctx context.Context, period repositorycache.DateRange) ([]models.CurrencyHistory, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("DateRange", period),
		period.Within("updated_date"),
		repository.SelectOrderAsc("updated_date"),
	)
}

func (r *CurrencyHistoryRepository) GetByCurrencyIDAndDateRange(ctx context.Context, currencyID int64, period repositorycache.DateRange) ([]models.CurrencyHistory, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("CurrencyId", currencyID, "DateRange", period),
		store.WhereColumn("currency_id", currencyID),
		period.Within("updated_date"),
		repository.SelectOrderAsc("updated_date"),
	)
}

// GetLatestByCurrencyID returns the most recent rate of the currency, or nil
// when it has none.
func (r *CurrencyHistoryRepository) GetLatestByCurrencyID(ctx context.Context, currencyID int64) (*models.CurrencyHistory, error) {
	return r.FindOne(ctx, r.KeyFor("Latest", "CurrencyId", currencyID),
		store.WhereColumn("currency_id", currencyID),
		repository.SelectOrderDesc("updated_date"),
	)
}
