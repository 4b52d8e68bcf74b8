package model

import (
	"encoding/json"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/utils"
)

// InvestmentStatus defines the list of possible investment statuses
type InvestmentStatus string

const (
	// InvestmentStatusPending when the purchase waits for an external confirmation
	InvestmentStatusPending InvestmentStatus = "pending"
	// InvestmentStatusCompleted when the purchase is settled
	InvestmentStatusCompleted InvestmentStatus = "completed"
	// InvestmentStatusFailed when the purchase was rejected or reverted
	InvestmentStatusFailed InvestmentStatus = "failed"
)

func (s InvestmentStatus) String() string {
	return string(s)
}

// PaymentMethod defines how a purchase is funded
type PaymentMethod string

const (
	// PaymentMethodWallet when an external wallet transfer funds the purchase
	PaymentMethodWallet PaymentMethod = "wallet"
	// PaymentMethodCredits when the purchase is paid from the available balance
	PaymentMethodCredits PaymentMethod = "credits"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodWallet || m == PaymentMethodCredits
}

// Investment is one package purchase. The status is terminal: a pending
// investment either completes or fails, and never moves again afterwards.
type Investment struct {
	ID            uint64            `gorm:"primary_key" json:"id"`
	RefID         string            `gorm:"column:ref_id" json:"ref_id"`
	UserID        uint64            `gorm:"column:user_id" json:"user_id"`
	PackageName   string            `gorm:"column:package_name" json:"package_name"`
	Amount        *postgres.Decimal `gorm:"column:amount" sql:"type:decimal(36,18)" json:"amount"`
	PaymentMethod PaymentMethod     `sql:"not null;type:payment_method_t" json:"payment_method"`
	Status        InvestmentStatus  `sql:"not null;type:investment_status_t" json:"status"`
	WalletAddress string            `gorm:"column:wallet_address" json:"wallet_address"`
	ChainID       string            `gorm:"column:chain_id" json:"chain_id"`
	NftDeliveryAt time.Time         `gorm:"column:nft_delivery_at" json:"nft_delivery_at"`
	RoiDeliveryAt time.Time         `gorm:"column:roi_delivery_at" json:"roi_delivery_at"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (Investment) TableName() string {
	return "investments"
}

// NewInvestment creates a new investment record with its delivery schedule
func NewInvestment(refID string, userID uint64, packageName string, amount *decimal.Big, method PaymentMethod, status InvestmentStatus, walletAddress, chainID string, deliveryAt time.Time) *Investment {
	return &Investment{
		RefID:         refID,
		UserID:        userID,
		PackageName:   packageName,
		Amount:        &postgres.Decimal{V: amount},
		PaymentMethod: method,
		Status:        status,
		WalletAddress: walletAddress,
		ChainID:       chainID,
		NftDeliveryAt: deliveryAt,
		RoiDeliveryAt: deliveryAt,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// MarshalJSON JSON encoding of an investment
func (investment Investment) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"id":              investment.ID,
		"ref_id":          investment.RefID,
		"user_id":         investment.UserID,
		"package_name":    investment.PackageName,
		"amount":          utils.FmtDecimal(investment.Amount),
		"payment_method":  investment.PaymentMethod,
		"status":          investment.Status,
		"nft_delivery_at": investment.NftDeliveryAt.Unix(),
		"roi_delivery_at": investment.RoiDeliveryAt.Unix(),
		"created_at":      investment.CreatedAt.Unix(),
	})
}
