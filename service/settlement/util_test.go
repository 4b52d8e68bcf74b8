package settlement

import (
	"errors"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/queries"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/commission"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/fraud"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/ledger"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/referral"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/verification"
)

var (
	errInvestmentInsertFailed = errors.New("investment insert failed")
	errCommissionInsertFailed = errors.New("commission insert failed")
)

// memTxn buffers writes and applies them on commit, so rollback behavior can
// be observed the same way the database store exposes it
type memTxn struct {
	ops  []func()
	done bool
}

func (t *memTxn) Commit() error {
	for _, op := range t.ops {
		op()
	}
	t.done = true
	return nil
}

func (t *memTxn) Rollback() error {
	t.done = true
	return nil
}

// memStore implements both the orchestrator store and the balance engine
// store over plain maps
type memStore struct {
	accounts    map[uint64]map[model.Currency]*model.BalanceAccount
	entries     []*model.LedgerEntry
	investments map[uint64]*model.Investment
	commissions map[uint64]*model.Commission
	claims      map[uint64]*model.PaymentClaim
	nextID      uint64

	failCreateInvestment bool
	failCommissionLevel  int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:    map[uint64]map[model.Currency]*model.BalanceAccount{},
		investments: map[uint64]*model.Investment{},
		commissions: map[uint64]*model.Commission{},
		claims:      map[uint64]*model.PaymentClaim{},
	}
}

func (s *memStore) Begin() (queries.Txn, error) {
	return &memTxn{}, nil
}

func (s *memStore) run(txn queries.Txn, op func()) {
	if txn == nil {
		op()
		return
	}
	t := txn.(*memTxn)
	t.ops = append(t.ops, op)
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func copyAccount(account *model.BalanceAccount) *model.BalanceAccount {
	clone := *account
	clone.TotalEarned = &postgres.Decimal{V: conv.CloneToPrecision(account.TotalEarned.V)}
	clone.Available = &postgres.Decimal{V: conv.CloneToPrecision(account.Available.V)}
	clone.Pending = &postgres.Decimal{V: conv.CloneToPrecision(account.Pending.V)}
	clone.TotalWithdrawn = &postgres.Decimal{V: conv.CloneToPrecision(account.TotalWithdrawn.V)}
	return &clone
}

func (s *memStore) LoadAccounts(txn queries.Txn, userID uint64) (map[model.Currency]*model.BalanceAccount, error) {
	stored, ok := s.accounts[userID]
	if !ok {
		stored = map[model.Currency]*model.BalanceAccount{}
		for _, currency := range model.Currencies() {
			account := model.NewBalanceAccount(userID, currency)
			account.ID = s.id()
			stored[currency] = account
		}
		s.accounts[userID] = stored
	}
	out := map[model.Currency]*model.BalanceAccount{}
	for currency, account := range stored {
		out[currency] = copyAccount(account)
	}
	return out, nil
}

func (s *memStore) SaveBalanceMutation(txn queries.Txn, accounts []*model.BalanceAccount, entries []*model.LedgerEntry) error {
	frozen := make([]*model.BalanceAccount, 0, len(accounts))
	for _, account := range accounts {
		frozen = append(frozen, copyAccount(account))
	}
	s.run(txn, func() {
		for _, account := range frozen {
			s.accounts[account.UserID][account.Currency] = account
		}
		s.entries = append(s.entries, entries...)
	})
	return nil
}

func (s *memStore) CreateInvestment(txn queries.Txn, investment *model.Investment) error {
	if s.failCreateInvestment {
		return errInvestmentInsertFailed
	}
	investment.ID = s.id()
	s.run(txn, func() {
		s.investments[investment.ID] = investment
	})
	return nil
}

func (s *memStore) GetInvestment(txn queries.Txn, id uint64) (*model.Investment, error) {
	investment, ok := s.investments[id]
	if !ok {
		return nil, errors.New("investment not found")
	}
	return investment, nil
}

func (s *memStore) UpdateInvestmentStatus(txn queries.Txn, investment *model.Investment, status model.InvestmentStatus) error {
	s.run(txn, func() {
		investment.Status = status
		s.investments[investment.ID] = investment
	})
	return nil
}

func (s *memStore) CreateCommission(txn queries.Txn, record *model.Commission) error {
	if s.failCommissionLevel != 0 && record.Level.Int() == s.failCommissionLevel {
		return errCommissionInsertFailed
	}
	record.ID = s.id()
	s.run(txn, func() {
		s.commissions[record.ID] = record
	})
	return nil
}

func (s *memStore) GetCommissionsByInvestment(txn queries.Txn, investmentID uint64) ([]model.Commission, error) {
	out := []model.Commission{}
	for _, record := range s.commissions {
		if record.InvestmentID == investmentID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *memStore) UpdateCommissionStatus(txn queries.Txn, record *model.Commission, status model.CommissionStatus) error {
	id := record.ID
	s.run(txn, func() {
		if stored, ok := s.commissions[id]; ok {
			stored.Status = status
		}
	})
	record.Status = status
	return nil
}

func (s *memStore) CreateClaim(txn queries.Txn, claim *model.PaymentClaim) error {
	claim.ID = s.id()
	s.run(txn, func() {
		s.claims[claim.ID] = claim
	})
	return nil
}

func (s *memStore) GetClaim(txn queries.Txn, id uint64) (*model.PaymentClaim, error) {
	claim, ok := s.claims[id]
	if !ok {
		return nil, errors.New("claim not found")
	}
	clone := *claim
	return &clone, nil
}

func (s *memStore) UpdateClaimReview(txn queries.Txn, claim *model.PaymentClaim, status model.ClaimStatus, adminID uint64, comment string) error {
	id := claim.ID
	s.run(txn, func() {
		if stored, ok := s.claims[id]; ok {
			stored.Status = status
			stored.ReviewedBy = adminID
			stored.ReviewComment = comment
		}
	})
	claim.Status = status
	claim.ReviewedBy = adminID
	claim.ReviewComment = comment
	return nil
}

// fund seeds a committed available balance for a user
func (s *memStore) fund(userID uint64, available *decimal.Big) {
	accounts, _ := s.LoadAccounts(nil, userID)
	stable := accounts[model.CurrencyStable]
	stable.Available = &postgres.Decimal{V: conv.CloneToPrecision(available)}
	stable.TotalEarned = &postgres.Decimal{V: conv.CloneToPrecision(available)}
	s.accounts[userID][model.CurrencyStable] = stable
}

func (s *memStore) available(userID uint64) *decimal.Big {
	accounts, _ := s.LoadAccounts(nil, userID)
	return accounts[model.CurrencyStable].Available.V
}

func (s *memStore) pendingStable(userID uint64) *decimal.Big {
	accounts, _ := s.LoadAccounts(nil, userID)
	return accounts[model.CurrencyStable].Pending.V
}

func (s *memStore) commissionsFor(investmentID uint64) []*model.Commission {
	out := []*model.Commission{}
	for _, record := range s.commissions {
		if record.InvestmentID == investmentID {
			out = append(out, record)
		}
	}
	return out
}

type fakeRelationshipStore struct {
	parents map[uint64]uint64
}

func (store *fakeRelationshipStore) ActiveReferrerOf(userID uint64) (uint64, bool, error) {
	referrerID, ok := store.parents[userID]
	return referrerID, ok, nil
}

func (store *fakeRelationshipStore) CreateRelationship(rel *model.ReferralRelationship) error {
	store.parents[rel.ReferredID] = rel.ReferrerID
	return nil
}

type fakeTierProvider struct {
	tiers map[uint64]*verification.Tier
}

func (provider *fakeTierProvider) TierFor(userID uint64) (*verification.Tier, error) {
	if tier, ok := provider.tiers[userID]; ok {
		return tier, nil
	}
	return openTier(1.0), nil
}

func openTier(multiplier float64) *verification.Tier {
	return &verification.Tier{
		Name:       "basic",
		Multiplier: conv.NewDecimalWithPrecision().SetFloat64(multiplier),
		MinAmount:  conv.NewDecimalWithPrecision(),
		MaxAmount:  conv.NewDecimalWithPrecision(),
	}
}

func boundedTier(min, max float64) *verification.Tier {
	return &verification.Tier{
		Name:       "bounded",
		Multiplier: conv.NewDecimalWithPrecision().SetFloat64(1.0),
		MinAmount:  conv.NewDecimalWithPrecision().SetFloat64(min),
		MaxAmount:  conv.NewDecimalWithPrecision().SetFloat64(max),
	}
}

type fakeScreener struct {
	result *fraud.Result
}

func (screener *fakeScreener) Screen(userID uint64, amount *decimal.Big, senderName, senderWallet string) (*fraud.Result, error) {
	return screener.result, nil
}

type fakeSessions struct {
	tokens      map[string]uint64
	invalidated []string
}

func (sessions *fakeSessions) Resolve(token string) (uint64, bool, error) {
	referrerID, ok := sessions.tokens[token]
	return referrerID, ok, nil
}

func (sessions *fakeSessions) Invalidate(token string) error {
	sessions.invalidated = append(sessions.invalidated, token)
	return nil
}

type testHarness struct {
	store        *memStore
	orchestrator *Orchestrator
	parents      map[uint64]uint64
	sessions     *fakeSessions
	screener     *fakeScreener
	tiers        *fakeTierProvider
}

func newTestHarness() *testHarness {
	store := newMemStore()
	parents := map[uint64]uint64{}
	sessions := &fakeSessions{tokens: map[string]uint64{}}
	screener := &fakeScreener{result: &fraud.Result{RiskLevel: model.RiskLevelLow}}
	tiers := &fakeTierProvider{tiers: map[uint64]*verification.Tier{}}

	engine := ledger.NewBalanceEngine(store)
	resolver := referral.NewResolver(&fakeRelationshipStore{parents: parents}, 3)
	calc := commission.NewCalculator(
		config.ReferralConfig{L1: 0.12, L2: 0.05, L3: 0.03, MaxDepth: 3},
		config.BonusConfig{UnitPrice: 5},
	)

	orchestrator := NewOrchestrator(
		store,
		engine,
		resolver,
		calc,
		tiers,
		screener,
		sessions,
		NopEvents{},
		config.SettlementConfig{DeliveryDays: 180},
		config.FraudConfig{RejectScore: 70},
	)
	return &testHarness{
		store:        store,
		orchestrator: orchestrator,
		parents:      parents,
		sessions:     sessions,
		screener:     screener,
		tiers:        tiers,
	}
}

func amount(value float64) *decimal.Big {
	return conv.NewDecimalWithPrecision().SetFloat64(value)
}
