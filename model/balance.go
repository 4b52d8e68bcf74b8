package model

import (
	"encoding/json"
	"time"

	"github.com/ericlagergren/decimal/sql/postgres"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/utils"
)

// BalanceAccount is the materialized projection of a user's ledger for one
// currency. The ledger entries are the source of truth; this row is a cache
// kept consistent by the balance engine and version checked on every write.
//
// Invariant: available + pending + total_withdrawn == total_earned.
type BalanceAccount struct {
	ID             uint64            `gorm:"primary_key" json:"id"`
	UserID         uint64            `gorm:"column:user_id" json:"user_id"`
	Currency       Currency          `sql:"not null;type:currency_t" json:"currency"`
	TotalEarned    *postgres.Decimal `gorm:"column:total_earned" sql:"type:decimal(36,18)" json:"total_earned"`
	Available      *postgres.Decimal `gorm:"column:available" sql:"type:decimal(36,18)" json:"available"`
	Pending        *postgres.Decimal `gorm:"column:pending" sql:"type:decimal(36,18)" json:"pending"`
	TotalWithdrawn *postgres.Decimal `gorm:"column:total_withdrawn" sql:"type:decimal(36,18)" json:"total_withdrawn"`
	Version        uint64            `gorm:"column:version" json:"version"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (BalanceAccount) TableName() string {
	return "balance_accounts"
}

// NewBalanceAccount creates a zero valued account for the given user and currency
func NewBalanceAccount(userID uint64, currency Currency) *BalanceAccount {
	return &BalanceAccount{
		UserID:         userID,
		Currency:       currency,
		TotalEarned:    &postgres.Decimal{V: conv.NewDecimalWithPrecision()},
		Available:      &postgres.Decimal{V: conv.NewDecimalWithPrecision()},
		Pending:        &postgres.Decimal{V: conv.NewDecimalWithPrecision()},
		TotalWithdrawn: &postgres.Decimal{V: conv.NewDecimalWithPrecision()},
		Version:        0,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// MarshalJSON JSON encoding of a balance account
func (account BalanceAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"user_id":         account.UserID,
		"currency":        account.Currency,
		"total_earned":    utils.FmtDecimal(account.TotalEarned),
		"available":       utils.FmtDecimal(account.Available),
		"pending":         utils.FmtDecimal(account.Pending),
		"total_withdrawn": utils.FmtDecimal(account.TotalWithdrawn),
	})
}
