package model

import (
	"time"
)

// ReferralStatus defines the list of possible relationship statuses
type ReferralStatus string

const (
	// ReferralStatusActive when the relationship earns commissions
	ReferralStatusActive ReferralStatus = "active"
	// ReferralStatusVoid when the relationship was invalidated by an admin
	ReferralStatusVoid ReferralStatus = "void"
)

func (s ReferralStatus) String() string {
	return string(s)
}

// ReferralSource defines how a relationship was established
type ReferralSource string

const (
	ReferralSourceSession ReferralSource = "session"
	ReferralSourceImport  ReferralSource = "import"
)

// ReferralRelationship links a referred user to its sponsor. A referred user
// has at most one active relationship and it is never retargeted once created.
type ReferralRelationship struct {
	ID         uint64         `gorm:"primary_key" json:"id"`
	ReferrerID uint64         `gorm:"column:referrer_id" json:"referrer_id"`
	ReferredID uint64         `gorm:"column:referred_id" json:"referred_id"`
	Source     ReferralSource `gorm:"column:source" json:"source"`
	Status     ReferralStatus `sql:"not null;type:referral_status_t" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (ReferralRelationship) TableName() string {
	return "referral_relationships"
}

// NewReferralRelationship creates a new active relationship record
func NewReferralRelationship(referrerID, referredID uint64, source ReferralSource) *ReferralRelationship {
	return &ReferralRelationship{
		ReferrerID: referrerID,
		ReferredID: referredID,
		Source:     source,
		Status:     ReferralStatusActive,
		CreatedAt:  time.Now(),
	}
}

// CommissionLevel is the position of an ancestor in the referral chain
type CommissionLevel int

const (
	CommissionLevel1 CommissionLevel = 1
	CommissionLevel2 CommissionLevel = 2
	CommissionLevel3 CommissionLevel = 3
)

func (l CommissionLevel) Int() int {
	return int(l)
}

// ChainEntry is one resolved ancestor of a purchasing user
type ChainEntry struct {
	Level  CommissionLevel `json:"level"`
	UserID uint64          `json:"user_id"`
}
