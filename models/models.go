// Package models holds the bun models of the reporting database.
package models

import (
	"time"

	"github.com/uptrace/bun"
)

type WhiteLabel struct {
	bun.BaseModel `bun:"table:white_labels"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	Code     string `bun:"code,notnull" json:"code"`
	URL      string `bun:"url" json:"url"`
	IsActive bool   `bun:"is_active" json:"is_active"`
}

type Country struct {
	bun.BaseModel `bun:"table:countries"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	IsoCode  string `bun:"iso_code,notnull" json:"iso_code"`
	IsActive bool   `bun:"is_active" json:"is_active"`
}

type Currency struct {
	bun.BaseModel `bun:"table:currencies"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	Name   string `bun:"name,notnull" json:"name"`
	Code   string `bun:"code,notnull" json:"code"`
	Symbol string `bun:"symbol" json:"symbol"`
}

// CurrencyHistory is one exchange rate observation of a currency against EUR.
type CurrencyHistory struct {
	bun.BaseModel `bun:"table:currency_histories"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	CurrencyID  int64     `bun:"currency_id,notnull" json:"currency_id"`
	Rate        float64   `bun:"rate" json:"rate"`
	UpdatedDate time.Time `bun:"updated_date,notnull" json:"updated_date"`
}

type Game struct {
	bun.BaseModel `bun:"table:games"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	Name      string `bun:"name,notnull" json:"name"`
	Provider  string `bun:"provider" json:"provider"`
	GameType  string `bun:"game_type" json:"game_type"`
	GameOrder int    `bun:"game_order" json:"game_order"`
	IsActive  bool   `bun:"is_active" json:"is_active"`
}

type GameExcludedByCountry struct {
	bun.BaseModel `bun:"table:games_excluded_by_country"`

	ID        int64 `bun:"id,pk,autoincrement" json:"id"`
	GameID    int64 `bun:"game_id,notnull" json:"game_id"`
	CountryID int64 `bun:"country_id,notnull" json:"country_id"`
}

type GameExcludedByJurisdiction struct {
	bun.BaseModel `bun:"table:games_excluded_by_jurisdiction"`

	ID             int64 `bun:"id,pk,autoincrement" json:"id"`
	GameID         int64 `bun:"game_id,notnull" json:"game_id"`
	JurisdictionID int64 `bun:"jurisdiction_id,notnull" json:"jurisdiction_id"`
}

type GameExcludedByLabel struct {
	bun.BaseModel `bun:"table:games_excluded_by_label"`

	ID      int64 `bun:"id,pk,autoincrement" json:"id"`
	GameID  int64 `bun:"game_id,notnull" json:"game_id"`
	LabelID int64 `bun:"label_id,notnull" json:"label_id"`
}

type Player struct {
	bun.BaseModel `bun:"table:players"`

	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	CasinoName       string     `bun:"casino_name" json:"casino_name"`
	Alias            string     `bun:"alias" json:"alias"`
	Country          string     `bun:"country" json:"country"`
	Currency         string     `bun:"currency" json:"currency"`
	WhiteLabelID     int64      `bun:"white_label_id" json:"white_label_id"`
	RegisteredDate   time.Time  `bun:"registered_date,notnull" json:"registered_date"`
	FirstDepositDate *time.Time `bun:"first_deposit_date" json:"first_deposit_date,omitempty"`
	IsBlocked        bool       `bun:"is_blocked" json:"is_blocked"`
	IsTest           bool       `bun:"is_test" json:"is_test"`
}

type Transaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	TransactionID   string    `bun:"transaction_id,notnull" json:"transaction_id"`
	PlayerID        int64     `bun:"player_id" json:"player_id"`
	WhiteLabelID    int64     `bun:"white_label_id" json:"white_label_id"`
	GameID          int64     `bun:"game_id" json:"game_id"`
	TransactionType string    `bun:"transaction_type" json:"transaction_type"`
	Amount          float64   `bun:"amount" json:"amount"`
	Currency        string    `bun:"currency" json:"currency"`
	Status          string    `bun:"status" json:"status"`
	TransactionDate time.Time `bun:"transaction_date,notnull" json:"transaction_date"`
}

type BonusBalance struct {
	bun.BaseModel `bun:"table:bonus_balances"`

	ID       int64   `bun:"id,pk,autoincrement" json:"id"`
	PlayerID int64   `bun:"player_id,notnull" json:"player_id"`
	BonusID  int64   `bun:"bonus_id,notnull" json:"bonus_id"`
	Amount   float64 `bun:"amount" json:"amount"`
	Status   string  `bun:"status" json:"status"`
}

type SportRegion struct {
	bun.BaseModel `bun:"table:sport_regions"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	SportID  int64  `bun:"sport_id" json:"sport_id"`
	IsActive bool   `bun:"is_active" json:"is_active"`
}

type SportCompetition struct {
	bun.BaseModel `bun:"table:sport_competitions"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	SportID  int64  `bun:"sport_id" json:"sport_id"`
	RegionID int64  `bun:"region_id" json:"region_id"`
	IsActive bool   `bun:"is_active" json:"is_active"`
}

type SportMatch struct {
	bun.BaseModel `bun:"table:sport_matches"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	CompetitionID int64     `bun:"competition_id" json:"competition_id"`
	StartDate     time.Time `bun:"start_date,notnull" json:"start_date"`
	IsActive      bool      `bun:"is_active" json:"is_active"`
}

type SportMarket struct {
	bun.BaseModel `bun:"table:sport_markets"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,notnull" json:"name"`
	MatchID  int64  `bun:"match_id" json:"match_id"`
	SportID  int64  `bun:"sport_id" json:"sport_id"`
	IsActive bool   `bun:"is_active" json:"is_active"`
}

// DailyAction aggregates one player's activity for one day and white label.
type DailyAction struct {
	bun.BaseModel `bun:"table:daily_actions"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Date          time.Time `bun:"date,notnull" json:"date"`
	WhiteLabelID  int64     `bun:"white_label_id" json:"white_label_id"`
	PlayerID      int64     `bun:"player_id" json:"player_id"`
	Registrations int       `bun:"registrations" json:"registrations"`
	Deposits      float64   `bun:"deposits" json:"deposits"`
	Withdrawals   float64   `bun:"withdrawals" json:"withdrawals"`
	BetsCasino    float64   `bun:"bets_casino" json:"bets_casino"`
	WinsCasino    float64   `bun:"wins_casino" json:"wins_casino"`
	BetsSport     float64   `bun:"bets_sport" json:"bets_sport"`
	WinsSport     float64   `bun:"wins_sport" json:"wins_sport"`
}

// Metadata types stored in the shared lookup table.
const (
	MetadataTypeGender               = "Gender"
	MetadataTypeStatus               = "Status"
	MetadataTypeRegistrationPlayMode = "RegistrationPlayMode"
	MetadataTypeLanguage             = "Language"
	MetadataTypePlatform             = "Platform"
	MetadataTypeTracker              = "Tracker"
)

// MetadataItem is one entry of the lookup table that holds the small code
// lists reports filter on. MetadataType says which list it belongs to.
type MetadataItem struct {
	bun.BaseModel `bun:"table:daily_actions_metadata"`

	ID             int64      `bun:"id,pk,autoincrement" json:"id"`
	MetadataType   string     `bun:"metadata_type,notnull" json:"metadata_type"`
	Code           string     `bun:"code,notnull" json:"code"`
	Name           string     `bun:"name,notnull" json:"name"`
	Description    string     `bun:"description" json:"description,omitempty"`
	IsActive       bool       `bun:"is_active" json:"is_active"`
	DisplayOrder   int        `bun:"display_order" json:"display_order"`
	ParentID       *int64     `bun:"parent_id" json:"parent_id,omitempty"`
	AdditionalData string     `bun:"additional_data" json:"additional_data,omitempty"`
	CreatedDate    time.Time  `bun:"created_date,notnull" json:"created_date"`
	UpdatedDate    *time.Time `bun:"updated_date" json:"updated_date,omitempty"`
}

// All returns one zero value of every model, in an order suitable for
// creating the schema.
func All() []any {
	return []any{
		(*WhiteLabel)(nil),
		(*Country)(nil),
		(*Currency)(nil),
		(*CurrencyHistory)(nil),
		(*Game)(nil),
		(*GameExcludedByCountry)(nil),
		(*GameExcludedByJurisdiction)(nil),
		(*GameExcludedByLabel)(nil),
		(*Player)(nil),
		(*Transaction)(nil),
		(*BonusBalance)(nil),
		(*SportRegion)(nil),
		(*SportCompetition)(nil),
		(*SportMatch)(nil),
		(*SportMarket)(nil),
		(*DailyAction)(nil),
		(*MetadataItem)(nil),
	}
}
