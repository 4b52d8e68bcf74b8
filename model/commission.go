package model

import (
	"encoding/json"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/utils"
)

// CommissionStatus defines the list of possible commission statuses
type CommissionStatus string

const (
	// CommissionStatusPending when the commission is earned but not yet spendable
	CommissionStatusPending CommissionStatus = "pending"
	// CommissionStatusConfirmed when the source investment was confirmed and
	// the amount moved to the available balance
	CommissionStatusConfirmed CommissionStatus = "confirmed"
	// CommissionStatusPaid when the amount was withdrawn
	CommissionStatusPaid CommissionStatus = "paid"
	// CommissionStatusVoided when the source investment failed
	CommissionStatusVoided CommissionStatus = "voided"
)

func (s CommissionStatus) String() string {
	return string(s)
}

// Commission Amount owed to an ancestor sponsor for a referred purchase.
// Created once per (investment, level) pair, immutable except for the status.
type Commission struct {
	ID             uint64            `gorm:"primary_key" json:"id"`
	RefID          string            `gorm:"column:ref_id" json:"ref_id"`
	ReferrerID     uint64            `gorm:"column:referrer_id" json:"referrer_id"`
	ReferredID     uint64            `gorm:"column:referred_id" json:"referred_id"`
	InvestmentID   uint64            `gorm:"column:investment_id" json:"investment_id"`
	Level          CommissionLevel   `gorm:"column:level" json:"level"`
	PurchaseAmount *postgres.Decimal `gorm:"column:purchase_amount" sql:"type:decimal(36,18)" json:"purchase_amount"`
	AmountStable   *postgres.Decimal `gorm:"column:amount_stable" sql:"type:decimal(36,18)" json:"amount_stable"`
	BonusUnits     int64             `gorm:"column:bonus_units" json:"bonus_units"`
	Status         CommissionStatus  `sql:"not null;type:commission_status_t" json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (Commission) TableName() string {
	return "commissions"
}

// NewCommission creates a new pending commission record
func NewCommission(refID string, referrerID, referredID, investmentID uint64, level CommissionLevel, purchaseAmount, amountStable *decimal.Big, bonusUnits int64) *Commission {
	return &Commission{
		RefID:          refID,
		ReferrerID:     referrerID,
		ReferredID:     referredID,
		InvestmentID:   investmentID,
		Level:          level,
		PurchaseAmount: &postgres.Decimal{V: purchaseAmount},
		AmountStable:   &postgres.Decimal{V: amountStable},
		BonusUnits:     bonusUnits,
		Status:         CommissionStatusPending,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// MarshalJSON JSON encoding of a commission record
func (commission Commission) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"id":            commission.ID,
		"ref_id":        commission.RefID,
		"referrer_id":   commission.ReferrerID,
		"referred_id":   commission.ReferredID,
		"investment_id": commission.InvestmentID,
		"level":         commission.Level,
		"amount_stable": utils.FmtDecimal(commission.AmountStable),
		"bonus_units":   commission.BonusUnits,
		"status":        commission.Status,
		"created_at":    commission.CreatedAt.Unix(),
	})
}

// CommissionList structure
type CommissionList struct {
	Commissions []Commission `json:"commissions"`
	Meta        PagingMeta   `json:"meta"`
}

// CommissionAmount is one computed commission before it is persisted
type CommissionAmount struct {
	Level      CommissionLevel
	UserID     uint64
	Stable     *decimal.Big
	BonusUnits int64
}
