package repositories

import (
	"context"

	"github.com/goliatone/go-reporting-cache/cache"
	"github.com/goliatone/go-reporting-cache/models"
	"github.com/goliatone/go-reporting-cache/repositorycache"
	"github.com/goliatone/go-reporting-cache/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type PlayerRepository struct {
	*repositorycache.Repository[models.Player, int64]
}

func NewPlayerRepository(s store.EntityStore[models.Player, int64], c cache.CacheService, opts ...repositorycache.Option) *PlayerRepository {
	return &PlayerRepository{newRepository(s, c, nil, opts)}
}

func (r *PlayerRepository) GetByCasinoName(ctx context.Context, casinoName string) ([]models.Player, error) {
	if err := repositorycache.RequireNonBlank("casino name", casinoName); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("CasinoName", casinoName), repository.SelectBy("casino_name", "=", casinoName))
}

func (r *PlayerRepository) GetByCountry(ctx context.Context, country string) ([]models.Player, error) {
	if err := repositorycache.RequireNonBlank("country", country); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("Country", country), repository.SelectBy("country", "=", country))
}

func (r *PlayerRepository) GetByCurrency(ctx context.Context, currency string) ([]models.Player, error) {
	if err := repositorycache.RequireNonBlank("currency", currency); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("Currency", currency), repository.SelectBy("currency", "=", currency))
}

func (r *PlayerRepository) GetByWhiteLabelID(ctx context.Context, whiteLabelID int64) ([]models.Player, error) {
	return r.FindMany(ctx, r.KeyFor("WhiteLabelId", whiteLabelID), store.WhereColumn("white_label_id", whiteLabelID))
}

func (r *PlayerRepository) GetByRegistrationDateRange(ctx context.Context, period repositorycache.DateRange) ([]models.Player, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("RegistrationDateRange", period), period.Within("registered_date"))
}

// GetByFirstDepositDateRange skips players that never deposited.
func (r *PlayerRepository) GetByFirstDepositDateRange(ctx context.Context, period repositorycache.DateRange) ([]models.Player, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("FirstDepositDateRange", period), period.Within("first_deposit_date"))
}

type TransactionRepository struct {
	*repositorycache.Repository[models.Transaction, int64]
}

func NewTransactionRepository(s store.EntityStore[models.Transaction, int64], c cache.CacheService, opts ...repositorycache.Option) *TransactionRepository {
	return &TransactionRepository{newRepository(s, c, nil, opts)}
}

// Add stores t, assigning a random transaction id when it has none.
func (r *TransactionRepository) Add(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t != nil && t.TransactionID == "" {
		t.TransactionID = uuid.NewString()
	}
	return r.Repository.Add(ctx, t)
}

// GetByTransactionID returns the transaction with the external id, or nil.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if err := repositorycache.RequireNonBlank("transaction id", transactionID); err != nil {
		return nil, err
	}
	return r.FindOne(ctx, r.KeyFor("TransactionId", transactionID), repository.SelectBy("transaction_id", "=", transactionID))
}

func (r *TransactionRepository) GetByPlayerID(ctx context.Context, playerID int64) ([]models.Transaction, error) {
	return r.FindMany(ctx, r.KeyFor("PlayerId", playerID), store.WhereColumn("player_id", playerID))
}

func (r *TransactionRepository) GetByWhiteLabelID(ctx context.Context, whiteLabelID int64) ([]models.Transaction, error) {
	return r.FindMany(ctx, r.KeyFor("WhiteLabelId", whiteLabelID), store.WhereColumn("white_label_id", whiteLabelID))
}

func (r *TransactionRepository) GetByGameID(ctx context.Context, gameID int64) ([]models.Transaction, error) {
	return r.FindMany(ctx, r.KeyFor("GameId", gameID), store.WhereColumn("game_id", gameID))
}

func (r *TransactionRepository) GetByTransactionType(ctx context.Context, transactionType string) ([]models.Transaction, error) {
	if err := repositorycache.RequireNonBlank("transaction type", transactionType); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("TransactionType", transactionType), repository.SelectBy("transaction_type", "=", transactionType))
}

func (r *TransactionRepository) GetByCurrency(ctx context.Context, currency string) ([]models.Transaction, error) {
	if err := repositorycache.RequireNonBlank("currency", currency); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("Currency", currency), repository.SelectBy("currency", "=", currency))
}

func (r *TransactionRepository) GetByDateRange(ctx context.Context, period repositorycache.DateRange) ([]models.Transaction, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("DateRange", period),
		period.Within("transaction_date"),
		repository.SelectOrderAsc("transaction_date"),
	)
}

func (r *TransactionRepository) GetByPlayerIDAndDateRange(ctx context.Context, playerID int64, period repositorycache.DateRange) ([]models.Transaction, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("PlayerId", playerID, "DateRange", period),
		store.WhereColumn("player_id", playerID),
		period.Within("transaction_date"),
		repository.SelectOrderAsc("transaction_date"),
	)
}

type BonusBalanceRepository struct {
	*repositorycache.Repository[models.BonusBalance, int64]
}

func NewBonusBalanceRepository(s store.EntityStore[models.BonusBalance, int64], c cache.CacheService, opts ...repositorycache.Option) *BonusBalanceRepository {
	return &BonusBalanceRepository{newRepository(s, c, nil, opts)}
}

func (r *BonusBalanceRepository) GetByPlayerID(ctx context.Context, playerID int64) ([]models.BonusBalance, error) {
	return r.FindMany(ctx, r.KeyFor("PlayerId", playerID), store.WhereColumn("player_id", playerID))
}

func (r *BonusBalanceRepository) GetByBonusID(ctx context.Context, bonusID int64) ([]models.BonusBalance, error) {
	return r.FindMany(ctx, r.KeyFor("BonusId", bonusID), store.WhereColumn("bonus_id", bonusID))
}

func (r *BonusBalanceRepository) GetByStatus(ctx context.Context, status string) ([]models.BonusBalance, error) {
	if err := repositorycache.RequireNonBlank("status", status); err != nil {
		return nil, err
	}
	return r.FindMany(ctx, r.KeyFor("Status", status), repository.SelectBy("status", "=", status))
}

// GetByPlayerIDAndBonusID is cached under one compound key,
// BonusBalance_PlayerId_{player}_BonusId_{bonus}.
func (r *BonusBalanceRepository) GetByPlayerIDAndBonusID(ctx context.Context, playerID, bonusID int64) ([]models.BonusBalance, error) {
	return r.FindMany(ctx, r.KeyFor("PlayerId", playerID, "BonusId", bonusID),
		store.WhereColumn("player_id", playerID),
		store.WhereColumn("bonus_id", bonusID),
	)
}
