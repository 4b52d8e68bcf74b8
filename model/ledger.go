package model

import (
	"encoding/json"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/utils"
)

// TransactionType defines the list of possible ledger entry types
type TransactionType string

const (
	// TransactionTypeCommissionEarned when a referral commission is credited as pending
	TransactionTypeCommissionEarned TransactionType = "commission_earned"
	// TransactionTypeCommissionConfirmed when a pending commission matures to available
	TransactionTypeCommissionConfirmed TransactionType = "commission_confirmed"
	// TransactionTypeCommissionVoided when a pending commission is reversed
	TransactionTypeCommissionVoided TransactionType = "commission_voided"
	// TransactionTypePurchaseDebit when available credits fund a purchase
	TransactionTypePurchaseDebit TransactionType = "purchase_debit"
	// TransactionTypePayout when an available amount is withdrawn
	TransactionTypePayout TransactionType = "payout"
	// TransactionTypeClaimCredit when an approved payment claim is credited
	TransactionTypeClaimCredit TransactionType = "claim_credit"
	// TransactionTypeAdminAdjustment when an admin corrects a balance by hand
	TransactionTypeAdminAdjustment TransactionType = "admin_adjustment"
)

func (t TransactionType) String() string {
	return string(t)
}

// LedgerEntry is an append-only record of a single balance mutation. Entries
// are never updated or deleted. Folding the entries of a user from account
// creation yields the current balance snapshot.
type LedgerEntry struct {
	ID                uint64            `gorm:"primary_key" json:"id"`
	RefID             string            `gorm:"column:ref_id" json:"ref_id"`
	UserID            uint64            `gorm:"column:user_id" json:"user_id"`
	Type              TransactionType   `sql:"not null;type:transaction_type_t" json:"type"`
	DeltaStable       *postgres.Decimal `gorm:"column:delta_stable" sql:"type:decimal(36,18)" json:"delta_stable"`
	DeltaBonus        *postgres.Decimal `gorm:"column:delta_bonus" sql:"type:decimal(36,18)" json:"delta_bonus"`
	AvailableStable   *postgres.Decimal `gorm:"column:available_stable" sql:"type:decimal(36,18)" json:"available_stable"`
	AvailableBonus    *postgres.Decimal `gorm:"column:available_bonus" sql:"type:decimal(36,18)" json:"available_bonus"`
	RelatedInvestment uint64            `gorm:"column:related_investment_id" json:"related_investment_id"`
	RelatedAdmin      uint64            `gorm:"column:related_admin_id" json:"related_admin_id"`
	Comment           string            `gorm:"column:comment" json:"comment"`
	CreatedAt         time.Time         `json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

func (l *LedgerEntry) AddComment(text string) {
	l.Comment = text
}

// NewLedgerEntry creates a new ledger entry. The resulting available balances
// are recorded alongside the deltas so the projection can be audited without
// replaying the whole ledger.
func NewLedgerEntry(refID string, userID uint64, txType TransactionType, deltaStable, deltaBonus, availableStable, availableBonus *decimal.Big, investmentID, adminID uint64) *LedgerEntry {
	return &LedgerEntry{
		RefID:             refID,
		UserID:            userID,
		Type:              txType,
		DeltaStable:       &postgres.Decimal{V: deltaStable},
		DeltaBonus:        &postgres.Decimal{V: deltaBonus},
		AvailableStable:   &postgres.Decimal{V: availableStable},
		AvailableBonus:    &postgres.Decimal{V: availableBonus},
		RelatedInvestment: investmentID,
		RelatedAdmin:      adminID,
		CreatedAt:         time.Now(),
	}
}

// MarshalJSON JSON encoding of a ledger entry
func (entry LedgerEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"ref_id":                entry.RefID,
		"user_id":               entry.UserID,
		"type":                  entry.Type,
		"delta_stable":          utils.FmtDecimal(entry.DeltaStable),
		"delta_bonus":           utils.FmtDecimal(entry.DeltaBonus),
		"available_stable":      utils.FmtDecimal(entry.AvailableStable),
		"available_bonus":       utils.FmtDecimal(entry.AvailableBonus),
		"related_investment_id": entry.RelatedInvestment,
		"created_at":            entry.CreatedAt.Unix(),
	})
}

// LedgerEntryList structure
type LedgerEntryList struct {
	Entries []LedgerEntry `json:"entries"`
	Meta    PagingMeta    `json:"meta"`
}
