package queries

import (
	"time"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

// CreateCommission saves a new commission record
func (repo *Repo) CreateCommission(txn Txn, commission *model.Commission) error {
	return repo.tdb(txn).Create(commission).Error
}

// GetCommissionsByInvestment lists every commission generated by an investment
func (repo *Repo) GetCommissionsByInvestment(txn Txn, investmentID uint64) ([]model.Commission, error) {
	commissions := []model.Commission{}
	q := repo.tdb(txn).
		Where("investment_id = ?", investmentID).
		Order("level ASC").
		Find(&commissions)
	if q.Error != nil {
		return nil, q.Error
	}
	return commissions, nil
}

// UpdateCommissionStatus moves a commission into the given status
func (repo *Repo) UpdateCommissionStatus(txn Txn, commission *model.Commission, status model.CommissionStatus) error {
	commission.Status = status
	commission.UpdatedAt = time.Now()
	return repo.tdb(txn).Model(commission).
		Updates(map[string]interface{}{
			"status":     commission.Status,
			"updated_at": commission.UpdatedAt,
		}).Error
}

// GetUserCommissions returns the paged commission history of a referrer
func (repo *Repo) GetUserCommissions(referrerID uint64, status string, limit, page int) (*model.CommissionList, error) {
	commissions := []model.Commission{}
	var rowCount int64

	q := repo.ConnReader.
		Table("commissions").
		Where("referrer_id = ?", referrerID)
	if len(status) > 0 {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&rowCount).Error; err != nil {
		return nil, err
	}
	q = q.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset((page - 1) * limit)
	}
	if err := q.Find(&commissions).Error; err != nil {
		return nil, err
	}

	list := model.CommissionList{
		Commissions: commissions,
		Meta: model.PagingMeta{
			Page:  page,
			Count: rowCount,
			Limit: limit,
		},
	}
	return &list, nil
}
