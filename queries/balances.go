package queries

import (
	"errors"
	"time"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

// ErrVersionConflict is returned when a balance projection row was modified
// by another writer between the load and the save of a mutation
var ErrVersionConflict = errors.New("BALANCE_VERSION_CONFLICT")

// LoadAccounts returns the balance accounts of a user keyed by currency.
// Missing accounts are materialized as zero valued rows so a first credit
// does not need a separate creation path.
func (repo *Repo) LoadAccounts(txn Txn, userID uint64) (map[model.Currency]*model.BalanceAccount, error) {
	db := repo.tdb(txn)
	rows := []model.BalanceAccount{}
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := map[model.Currency]*model.BalanceAccount{}
	for i := range rows {
		account := rows[i]
		accounts[account.Currency] = &account
	}
	for _, currency := range model.Currencies() {
		if _, ok := accounts[currency]; !ok {
			accounts[currency] = model.NewBalanceAccount(userID, currency)
		}
	}
	return accounts, nil
}

// SaveBalanceMutation persists the mutated balance accounts together with
// their ledger entries. Updates are guarded by the row version so a stale
// projection is never overwritten.
func (repo *Repo) SaveBalanceMutation(txn Txn, accounts []*model.BalanceAccount, entries []*model.LedgerEntry) error {
	db := repo.tdb(txn)
	for _, account := range accounts {
		if account.ID == 0 {
			account.Version = 1
			if err := db.Create(account).Error; err != nil {
				return err
			}
			continue
		}
		q := db.Model(&model.BalanceAccount{}).
			Where("id = ? AND version = ?", account.ID, account.Version).
			Updates(map[string]interface{}{
				"total_earned":    account.TotalEarned,
				"available":       account.Available,
				"pending":         account.Pending,
				"total_withdrawn": account.TotalWithdrawn,
				"version":         account.Version + 1,
				"updated_at":      time.Now(),
			})
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected == 0 {
			return ErrVersionConflict
		}
		account.Version++
	}
	for _, entry := range entries {
		if err := db.Create(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetBalanceAccounts returns the balance snapshot of a user from the reader
func (repo *Repo) GetBalanceAccounts(userID uint64) ([]model.BalanceAccount, error) {
	accounts := []model.BalanceAccount{}
	q := repo.ConnReader.
		Where("user_id = ?", userID).
		Order("currency ASC").
		Find(&accounts)
	if q.Error != nil {
		return nil, q.Error
	}
	return accounts, nil
}

// GetLedgerEntries returns the paged transaction history of a user, newest
// entries first
func (repo *Repo) GetLedgerEntries(userID uint64, limit, page int) (*model.LedgerEntryList, error) {
	entries := []model.LedgerEntry{}
	var rowCount int64

	q := repo.ConnReader.
		Table("ledger_entries").
		Where("user_id = ?", userID)
	if err := q.Count(&rowCount).Error; err != nil {
		return nil, err
	}
	q = q.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset((page - 1) * limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}

	list := model.LedgerEntryList{
		Entries: entries,
		Meta: model.PagingMeta{
			Page:  page,
			Count: rowCount,
			Limit: limit,
		},
	}
	return &list, nil
}
