package model

import (
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"
)

// RiskLevel is the fraud screening classification of a payment claim
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

func (r RiskLevel) String() string {
	return string(r)
}

// ClaimStatus defines the list of possible claim verification statuses
type ClaimStatus string

const (
	// ClaimStatusPending when the claim waits for an admin review
	ClaimStatusPending ClaimStatus = "pending"
	// ClaimStatusApproved when an admin verified the payment and credited the amount
	ClaimStatusApproved ClaimStatus = "approved"
	// ClaimStatusRejected when the claim was rejected by screening or by an admin
	ClaimStatusRejected ClaimStatus = "rejected"
	// ClaimStatusExpired when the claim stayed unreviewed past the deadline
	ClaimStatusExpired ClaimStatus = "expired"
)

func (s ClaimStatus) String() string {
	return string(s)
}

// PaymentClaim is a manually submitted payment waiting for verification.
// Screening only classifies a claim; the settlement orchestrator and the
// admin review are the only writers of the verification status.
type PaymentClaim struct {
	ID            uint64            `gorm:"primary_key" json:"id"`
	RefID         string            `gorm:"column:ref_id" json:"ref_id"`
	UserID        uint64            `gorm:"column:user_id" json:"user_id"`
	Amount        *postgres.Decimal `gorm:"column:amount" sql:"type:decimal(36,18)" json:"amount"`
	SenderName    string            `gorm:"column:sender_name" json:"sender_name"`
	SenderWallet  string            `gorm:"column:sender_wallet" json:"sender_wallet"`
	RiskLevel     RiskLevel         `sql:"not null;type:risk_level_t" json:"risk_level"`
	RiskScore     int               `gorm:"column:risk_score" json:"risk_score"`
	Violations    string            `gorm:"column:violations" json:"violations"`
	Status        ClaimStatus       `sql:"not null;type:claim_status_t" json:"status"`
	ReviewedBy    uint64            `gorm:"column:reviewed_by" json:"reviewed_by"`
	ReviewComment string            `gorm:"column:review_comment" json:"review_comment"`
	SubmittedAt   time.Time         `gorm:"column:submitted_at" json:"submitted_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (PaymentClaim) TableName() string {
	return "payment_claims"
}

// NewPaymentClaim creates a new pending claim record
func NewPaymentClaim(refID string, userID uint64, amount *decimal.Big, senderName, senderWallet string) *PaymentClaim {
	return &PaymentClaim{
		RefID:        refID,
		UserID:       userID,
		Amount:       &postgres.Decimal{V: amount},
		SenderName:   senderName,
		SenderWallet: senderWallet,
		RiskLevel:    RiskLevelLow,
		Status:       ClaimStatusPending,
		SubmittedAt:  time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// PaymentClaimList structure
type PaymentClaimList struct {
	Claims []PaymentClaim `json:"claims"`
	Meta   PagingMeta     `json:"meta"`
}
