package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Child struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	AvatarEmoji       string          `json:"avatar_emoji"`
	CurrentPoints     int             `json:"current_points"`
	SavingsBalance    decimal.Decimal `json:"savings_balance"`
	SettlementPending bool            `json:"settlement_pending"`
	SortOrder         int             `json:"sort_order"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// FamilySettings holds the parent-controlled economy parameters.
// ExchangeRate is currency per point; InterestRate is a percentage applied on payday.
type FamilySettings struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// DefaultFamilySettings matches the values a new family starts with.
func DefaultFamilySettings() FamilySettings {
	return FamilySettings{
		ExchangeRate: decimal.RequireFromString("0.5"),
		InterestRate: decimal.NewFromInt(5),
	}
}
