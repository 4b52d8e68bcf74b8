package queries

import (
	"errors"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/ericlagergren/decimal/sql/postgres"
	"gorm.io/gorm"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

// CreateClaim saves a new payment claim record
func (repo *Repo) CreateClaim(txn Txn, claim *model.PaymentClaim) error {
	return repo.tdb(txn).Create(claim).Error
}

// GetClaim returns a single payment claim by id
func (repo *Repo) GetClaim(txn Txn, id uint64) (*model.PaymentClaim, error) {
	claim := model.PaymentClaim{}
	if err := repo.tdb(txn).First(&claim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

// UpdateClaimReview records the admin decision on a pending claim
func (repo *Repo) UpdateClaimReview(txn Txn, claim *model.PaymentClaim, status model.ClaimStatus, adminID uint64, comment string) error {
	claim.Status = status
	claim.ReviewedBy = adminID
	claim.ReviewComment = comment
	claim.UpdatedAt = time.Now()
	return repo.tdb(txn).Model(claim).
		Updates(map[string]interface{}{
			"status":         claim.Status,
			"reviewed_by":    claim.ReviewedBy,
			"review_comment": claim.ReviewComment,
			"updated_at":     claim.UpdatedAt,
		}).Error
}

// GetUserClaims returns the paged claim history of a user
func (repo *Repo) GetUserClaims(userID uint64, status string, limit, page int) (*model.PaymentClaimList, error) {
	claims := []model.PaymentClaim{}
	var rowCount int64

	q := repo.ConnReader.
		Table("payment_claims").
		Where("user_id = ?", userID)
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
	if err := q.Find(&claims).Error; err != nil {
		return nil, err
	}

	list := model.PaymentClaimList{
		Claims: claims,
		Meta: model.PagingMeta{
			Page:  page,
			Count: rowCount,
			Limit: limit,
		},
	}
	return &list, nil
}

// ExpireStaleClaims moves pending claims submitted before the deadline into
// the expired status and returns the number of affected rows
func (repo *Repo) ExpireStaleClaims(deadline time.Time) (int64, error) {
	q := repo.Conn.Table("payment_claims").
		Where("status = ? AND submitted_at < ?", model.ClaimStatusPending, deadline).
		Updates(map[string]interface{}{
			"status":     model.ClaimStatusExpired,
			"updated_at": time.Now(),
		})
	return q.RowsAffected, q.Error
}

// The screening reads below go through the writer connection: a lagging
// replica must not loosen the rate limit and duplicate checks.

// CountClaimsSince returns the number of claims a user submitted after the
// given moment, regardless of their status
func (repo *Repo) CountClaimsSince(userID uint64, since time.Time) (int64, error) {
	var count int64
	q := repo.Conn.Table("payment_claims").
		Where("user_id = ? AND submitted_at >= ?", userID, since).
		Count(&count)
	return count, q.Error
}

// CountPendingClaims returns the number of unreviewed claims of a user
func (repo *Repo) CountPendingClaims(userID uint64) (int64, error) {
	var count int64
	q := repo.Conn.Table("payment_claims").
		Where("user_id = ? AND status = ?", userID, model.ClaimStatusPending).
		Count(&count)
	return count, q.Error
}

// LastClaimAt returns the submission time of the most recent claim of a user
func (repo *Repo) LastClaimAt(userID uint64) (time.Time, bool, error) {
	claim := model.PaymentClaim{}
	q := repo.Conn.
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		First(&claim)
	if q.Error != nil {
		if errors.Is(q.Error, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, q.Error
	}
	return claim.SubmittedAt, true, nil
}

// SumClaimAmountsSince returns the total amount a user claimed after the
// given moment, rejected claims excluded
func (repo *Repo) SumClaimAmountsSince(userID uint64, since time.Time) (*decimal.Big, error) {
	var result struct {
		Total *postgres.Decimal
	}
	q := repo.Conn.Table("payment_claims").
		Select("COALESCE(SUM(amount), 0) as total").
		Where("user_id = ? AND submitted_at >= ? AND status != ?", userID, since, model.ClaimStatusRejected).
		Scan(&result)
	if q.Error != nil {
		return nil, q.Error
	}
	if result.Total == nil || result.Total.V == nil {
		return conv.NewDecimalWithPrecision(), nil
	}
	return result.Total.V, nil
}

// HasDuplicateClaim reports whether the user already submitted a pending or
// approved claim with the same amount and sender name inside the lookback
// window
func (repo *Repo) HasDuplicateClaim(userID uint64, amount *decimal.Big, senderName string, since time.Time) (bool, error) {
	var count int64
	q := repo.Conn.Table("payment_claims").
		Where("user_id = ? AND amount = ? AND sender_name = ? AND submitted_at >= ? AND status IN (?)",
			userID, &postgres.Decimal{V: amount}, senderName, since,
			[]model.ClaimStatus{model.ClaimStatusPending, model.ClaimStatusApproved}).
		Count(&count)
	return count > 0, q.Error
}

// WalletUsedByOther reports whether a different user already submitted a
// claim from the same sender wallet
func (repo *Repo) WalletUsedByOther(userID uint64, senderWallet string) (bool, error) {
	var count int64
	q := repo.Conn.Table("payment_claims").
		Where("user_id != ? AND sender_wallet = ?", userID, senderWallet).
		Count(&count)
	return count > 0, q.Error
}

// ApprovedClaimStats returns the number and the average amount of the
// approved claims of a user
func (repo *Repo) ApprovedClaimStats(userID uint64) (int64, *decimal.Big, error) {
	var result struct {
		Count   int64
		Average *postgres.Decimal
	}
	q := repo.Conn.Table("payment_claims").
		Select("COUNT(*) as count, COALESCE(AVG(amount), 0) as average").
		Where("user_id = ? AND status = ?", userID, model.ClaimStatusApproved).
		Scan(&result)
	if q.Error != nil {
		return 0, nil, q.Error
	}
	if result.Average == nil || result.Average.V == nil {
		return result.Count, conv.NewDecimalWithPrecision(), nil
	}
	return result.Count, result.Average.V, nil
}
