package ledger

import (
	"errors"

	"github.com/ericlagergren/decimal/sql/postgres"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/queries"
)

var errSaveFailed = errors.New("save failed")

type memTxn struct {
	committed  bool
	rolledBack bool
}

func (t *memTxn) Commit() error {
	t.committed = true
	return nil
}

func (t *memTxn) Rollback() error {
	t.rolledBack = true
	return nil
}

// memStore is an in-memory Store. LoadAccounts hands out deep copies so an
// aborted mutation can not leak partial state back into the store, matching
// the read-then-conditional-write behavior of the database store.
type memStore struct {
	accounts map[uint64]map[model.Currency]*model.BalanceAccount
	entries  []*model.LedgerEntry
	failNext bool
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[uint64]map[model.Currency]*model.BalanceAccount{},
	}
}

func copyAccount(account *model.BalanceAccount) *model.BalanceAccount {
	clone := *account
	clone.TotalEarned = &postgres.Decimal{V: conv.CloneToPrecision(account.TotalEarned.V)}
	clone.Available = &postgres.Decimal{V: conv.CloneToPrecision(account.Available.V)}
	clone.Pending = &postgres.Decimal{V: conv.CloneToPrecision(account.Pending.V)}
	clone.TotalWithdrawn = &postgres.Decimal{V: conv.CloneToPrecision(account.TotalWithdrawn.V)}
	return &clone
}

func (s *memStore) Begin() (queries.Txn, error) {
	return &memTxn{}, nil
}

func (s *memStore) LoadAccounts(txn queries.Txn, userID uint64) (map[model.Currency]*model.BalanceAccount, error) {
	stored, ok := s.accounts[userID]
	if !ok {
		stored = map[model.Currency]*model.BalanceAccount{}
		for _, currency := range model.Currencies() {
			account := model.NewBalanceAccount(userID, currency)
			account.ID = uint64(len(s.accounts)*2 + len(stored) + 1)
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
	if s.failNext {
		s.failNext = false
		return errSaveFailed
	}
	for _, account := range accounts {
		s.accounts[account.UserID][account.Currency] = copyAccount(account)
		s.accounts[account.UserID][account.Currency].Version = account.Version + 1
	}
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *memStore) snapshot(userID uint64, currency model.Currency) *model.BalanceAccount {
	return s.accounts[userID][currency]
}
