package queries

import (
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

// GetUserVerificationTier returns the verification tier name of a user
func (repo *Repo) GetUserVerificationTier(userID uint64) (string, error) {
	user := model.User{}
	q := repo.ConnReader.
		Select("verification_tier").
		First(&user, "id = ?", userID)
	if q.Error != nil {
		return "", q.Error
	}
	return user.VerificationTier, nil
}
