package model

import (
	"time"
)

// UserStatus defined the list of possible user statuses
type UserStatus string

const (
	// UserStatusActive when the user can purchase and earn commissions
	UserStatusActive UserStatus = "active"
	// UserStatusBlocked when the user is blocked by the admin
	UserStatusBlocked UserStatus = "blocked"
)

func (u UserStatus) String() string {
	return string(u)
}

// User structure. Registration and authentication live in an external
// collaborator; the settlement core only reads the verification tier and the
// account status.
type User struct {
	ID               uint64     `sql:"type: bigint" gorm:"primary_key" json:"id"`
	Email            string     `gorm:"unique;" json:"email"`
	Status           UserStatus `sql:"not null;type:user_status_t" json:"status"`
	VerificationTier string     `gorm:"column:verification_tier" json:"verification_tier"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
