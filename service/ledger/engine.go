package ledger

import (
	"errors"
	"sync"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"
	"github.com/rs/zerolog/log"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/monitor"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/queries"
)

var (
	// ErrInsufficientFunds is returned when a debit would drive a balance below zero
	ErrInsufficientFunds = errors.New("INSUFFICIENT_FUNDS")
	// ErrInvariantViolation is returned when a mutation would break the account
	// equation, the write is aborted and never corrected silently
	ErrInvariantViolation = errors.New("LEDGER_INVARIANT_VIOLATION")
	// ErrInvalidAmount is returned for nil, zero or negative mutation amounts
	ErrInvalidAmount = errors.New("INVALID_AMOUNT")
)

// Store is the persistence surface of the balance engine
type Store interface {
	Begin() (queries.Txn, error)
	LoadAccounts(txn queries.Txn, userID uint64) (map[model.Currency]*model.BalanceAccount, error)
	SaveBalanceMutation(txn queries.Txn, accounts []*model.BalanceAccount, entries []*model.LedgerEntry) error
}

// FieldDelta is the signed change applied to one balance account. Nil fields
// leave the balance untouched.
type FieldDelta struct {
	Earned    *decimal.Big
	Available *decimal.Big
	Pending   *decimal.Big
	Withdrawn *decimal.Big
}

// Mutation is one atomic ledger operation across both currency accounts of a
// user. EntryDeltaStable and EntryDeltaBonus are the signed principal amounts
// recorded on the ledger entry.
type Mutation struct {
	RefID             string
	UserID            uint64
	Type              model.TransactionType
	Stable            FieldDelta
	Bonus             FieldDelta
	EntryDeltaStable  *decimal.Big
	EntryDeltaBonus   *decimal.Big
	RelatedInvestment uint64
	RelatedAdmin      uint64
	Comment           string
}

// BalanceEngine owns every balance mutation. Mutations for a single user are
// serialized through a per user lock, the stored snapshot rows stay a
// projection of the append-only ledger and are version checked by the store
// on every write.
type BalanceEngine struct {
	store  Store
	locks  map[uint64]*sync.Mutex
	lockMu sync.Mutex
}

// NewBalanceEngine creates a balance engine over the given store
func NewBalanceEngine(store Store) *BalanceEngine {
	return &BalanceEngine{
		store: store,
		locks: map[uint64]*sync.Mutex{},
	}
}

func (engine *BalanceEngine) userLock(userID uint64) *sync.Mutex {
	engine.lockMu.Lock()
	defer engine.lockMu.Unlock()
	lock, ok := engine.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		engine.locks[userID] = lock
	}
	return lock
}

// Apply executes one mutation: load the accounts, apply the deltas, validate
// the invariant and persist snapshot plus ledger entry together. A nil txn
// runs against the store's default connection, a non nil txn joins the
// caller's transaction so the mutation commits or rolls back with it.
func (engine *BalanceEngine) Apply(txn queries.Txn, mutation *Mutation) (map[model.Currency]*model.BalanceAccount, error) {
	lock := engine.userLock(mutation.UserID)
	lock.Lock()
	defer lock.Unlock()

	accounts, err := engine.store.LoadAccounts(txn, mutation.UserID)
	if err != nil {
		return nil, err
	}

	stable := accounts[model.CurrencyStable]
	bonus := accounts[model.CurrencyBonus]
	applyFieldDelta(stable, mutation.Stable)
	applyFieldDelta(bonus, mutation.Bonus)

	for _, account := range accounts {
		if hasNegativeField(account) {
			return nil, ErrInsufficientFunds
		}
		if !holdsInvariant(account) {
			monitor.LedgerInvariantFailures.Inc()
			log.Error().
				Str("section", "ledger").
				Str("action", mutation.Type.String()).
				Uint64("user_id", mutation.UserID).
				Str("currency", account.Currency.String()).
				Msg("Balance invariant violated, mutation aborted")
			return nil, ErrInvariantViolation
		}
	}

	entry := model.NewLedgerEntry(
		mutation.RefID,
		mutation.UserID,
		mutation.Type,
		signedOrZero(mutation.EntryDeltaStable),
		signedOrZero(mutation.EntryDeltaBonus),
		conv.CloneToPrecision(stable.Available.V),
		conv.CloneToPrecision(bonus.Available.V),
		mutation.RelatedInvestment,
		mutation.RelatedAdmin,
	)
	if len(mutation.Comment) > 0 {
		entry.AddComment(mutation.Comment)
	}

	changed := []*model.BalanceAccount{stable, bonus}
	if err := engine.store.SaveBalanceMutation(txn, changed, []*model.LedgerEntry{entry}); err != nil {
		return nil, err
	}
	return accounts, nil
}

func applyFieldDelta(account *model.BalanceAccount, delta FieldDelta) {
	addTo(account.TotalEarned, delta.Earned)
	addTo(account.Available, delta.Available)
	addTo(account.Pending, delta.Pending)
	addTo(account.TotalWithdrawn, delta.Withdrawn)
}

func addTo(target *postgres.Decimal, delta *decimal.Big) {
	if delta == nil {
		return
	}
	if target.V == nil {
		target.V = conv.NewDecimalWithPrecision()
	}
	target.V = conv.RoundToPrecision(conv.NewDecimalWithPrecision().Add(target.V, delta))
}

func hasNegativeField(account *model.BalanceAccount) bool {
	return account.TotalEarned.V.Sign() < 0 ||
		account.Available.V.Sign() < 0 ||
		account.Pending.V.Sign() < 0 ||
		account.TotalWithdrawn.V.Sign() < 0
}

// holdsInvariant checks available + pending + total_withdrawn == total_earned
func holdsInvariant(account *model.BalanceAccount) bool {
	sum := conv.NewDecimalWithPrecision().Add(account.Available.V, account.Pending.V)
	sum = sum.Add(sum, account.TotalWithdrawn.V)
	return conv.RoundToPrecision(sum).Cmp(account.TotalEarned.V) == 0
}

func signedOrZero(amount *decimal.Big) *decimal.Big {
	if amount == nil {
		return conv.NewDecimalWithPrecision()
	}
	return conv.CloneToPrecision(amount)
}

func neg(amount *decimal.Big) *decimal.Big {
	return conv.NewDecimalWithPrecision().Neg(amount)
}

func validAmount(amount *decimal.Big) bool {
	return amount != nil && amount.Sign() > 0
}

func bonusUnitsToDecimal(units int64) *decimal.Big {
	return conv.NewDecimalWithPrecision().SetMantScale(units, 0)
}
