package settlement

import (
	"errors"

	"github.com/ericlagergren/decimal"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/queries"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/commission"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/fraud"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/ledger"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/verification"
)

var (
	// ErrInvalidAmount is returned for zero or negative purchase amounts
	ErrInvalidAmount = errors.New("INVALID_AMOUNT")
	// ErrInvalidPaymentMethod is returned for payment methods other than wallet or credits
	ErrInvalidPaymentMethod = errors.New("INVALID_PAYMENT_METHOD")
	// ErrAmountOutOfRange is returned when the amount falls outside the range
	// allowed by the user's verification tier
	ErrAmountOutOfRange = errors.New("AMOUNT_OUT_OF_RANGE")
	// ErrInvestmentNotPending is returned when confirming or failing an
	// investment that already reached a terminal status
	ErrInvestmentNotPending = errors.New("INVESTMENT_NOT_PENDING")
	// ErrClaimNotPending is returned when reviewing a claim that was already decided
	ErrClaimNotPending = errors.New("CLAIM_NOT_PENDING")
)

// Store is the persistence surface of the orchestrator. The transaction
// handles it hands out are shared with the balance engine so a credit debit
// commits or rolls back together with its investment record.
type Store interface {
	Begin() (queries.Txn, error)
	CreateInvestment(txn queries.Txn, investment *model.Investment) error
	GetInvestment(txn queries.Txn, id uint64) (*model.Investment, error)
	UpdateInvestmentStatus(txn queries.Txn, investment *model.Investment, status model.InvestmentStatus) error
	CreateCommission(txn queries.Txn, commission *model.Commission) error
	GetCommissionsByInvestment(txn queries.Txn, investmentID uint64) ([]model.Commission, error)
	UpdateCommissionStatus(txn queries.Txn, commission *model.Commission, status model.CommissionStatus) error
	CreateClaim(txn queries.Txn, claim *model.PaymentClaim) error
	GetClaim(txn queries.Txn, id uint64) (*model.PaymentClaim, error)
	UpdateClaimReview(txn queries.Txn, claim *model.PaymentClaim, status model.ClaimStatus, adminID uint64, comment string) error
}

// ChainResolver walks the referral ancestors of a purchasing user
type ChainResolver interface {
	ResolveChain(userID uint64) ([]model.ChainEntry, error)
	Establish(referrerID, referredID uint64, source model.ReferralSource) (*model.ReferralRelationship, error)
}

// Screener classifies a payment claim without mutating anything
type Screener interface {
	Screen(userID uint64, amount *decimal.Big, senderName, senderWallet string) (*fraud.Result, error)
}

// SessionResolver turns a referral session token into a sponsor user id
type SessionResolver interface {
	Resolve(token string) (uint64, bool, error)
	Invalidate(token string) error
}

// Orchestrator sequences screening, validation, investment creation,
// commission fan-out and ledger updates for every settlement operation
type Orchestrator struct {
	store    Store
	engine   *ledger.BalanceEngine
	resolver ChainResolver
	calc     *commission.Calculator
	tiers    verification.TierProvider
	screener Screener
	sessions SessionResolver
	events   Events
	cfg      config.SettlementConfig
	fraudCfg config.FraudConfig
}

// NewOrchestrator wires the settlement pipeline together
func NewOrchestrator(
	store Store,
	engine *ledger.BalanceEngine,
	resolver ChainResolver,
	calc *commission.Calculator,
	tiers verification.TierProvider,
	screener Screener,
	sessions SessionResolver,
	events Events,
	cfg config.SettlementConfig,
	fraudCfg config.FraudConfig,
) *Orchestrator {
	if events == nil {
		events = NopEvents{}
	}
	return &Orchestrator{
		store:    store,
		engine:   engine,
		resolver: resolver,
		calc:     calc,
		tiers:    tiers,
		screener: screener,
		sessions: sessions,
		events:   events,
		cfg:      cfg,
		fraudCfg: fraudCfg,
	}
}
