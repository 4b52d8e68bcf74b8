package queries

import (
	"errors"

	"gorm.io/gorm"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

// ActiveReferrerOf returns the sponsor of the given user, or false when the
// user has no active relationship. Void relationships are ignored.
func (repo *Repo) ActiveReferrerOf(userID uint64) (uint64, bool, error) {
	rel := model.ReferralRelationship{}
	q := repo.ConnReader.
		Where("referred_id = ? AND status = ?", userID, model.ReferralStatusActive).
		First(&rel)
	if q.Error != nil {
		if errors.Is(q.Error, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, q.Error
	}
	return rel.ReferrerID, true, nil
}

// CreateRelationship saves a new referral relationship. The partial unique
// index on referred_id rejects a second active sponsor for the same user.
func (repo *Repo) CreateRelationship(rel *model.ReferralRelationship) error {
	return repo.Conn.Create(rel).Error
}

// GetDirectReferrals lists the users directly sponsored by the given referrer
func (repo *Repo) GetDirectReferrals(referrerID uint64, limit, page int) ([]model.ReferralRelationship, error) {
	rels := []model.ReferralRelationship{}
	q := repo.ConnReader.
		Where("referrer_id = ? AND status = ?", referrerID, model.ReferralStatusActive).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset((page - 1) * limit)
	}
	if err := q.Find(&rels).Error; err != nil {
		return nil, err
	}
	return rels, nil
}
