package queries

import (
	"time"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

// CreateInvestment saves a new investment record
func (repo *Repo) CreateInvestment(txn Txn, investment *model.Investment) error {
	return repo.tdb(txn).Create(investment).Error
}

// GetInvestment returns a single investment by id
func (repo *Repo) GetInvestment(txn Txn, id uint64) (*model.Investment, error) {
	investment := model.Investment{}
	if err := repo.tdb(txn).First(&investment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &investment, nil
}

// UpdateInvestmentStatus moves an investment into the given status
func (repo *Repo) UpdateInvestmentStatus(txn Txn, investment *model.Investment, status model.InvestmentStatus) error {
	investment.Status = status
	investment.UpdatedAt = time.Now()
	return repo.tdb(txn).Model(investment).
		Updates(map[string]interface{}{
			"status":     investment.Status,
			"updated_at": investment.UpdatedAt,
		}).Error
}

// GetUserInvestments returns the paged purchase history of a user
func (repo *Repo) GetUserInvestments(userID uint64, limit, page int) ([]model.Investment, int64, error) {
	investments := []model.Investment{}
	var rowCount int64

	q := repo.ConnReader.
		Table("investments").
		Where("user_id = ?", userID)
	if err := q.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset((page - 1) * limit)
	}
	if err := q.Find(&investments).Error; err != nil {
		return nil, 0, err
	}
	return investments, rowCount, nil
}
