package actions

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

// GetReferrals godoc
// swagger:route GET /referrals referrals get_referrals
// List the users directly sponsored by the authenticated user
func (actions *Actions) GetReferrals(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)

	referrals, err := actions.service.GetRepo().GetDirectReferrals(userID, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load referrals")
		return
	}
	c.JSON(OK, map[string]interface{}{
		"referrals": referrals,
	})
}

// CreateReferralSession godoc
// swagger:route POST /referrals/session referrals create_referral_session
// Mint a referral session token pointing at the authenticated user. The token
// is embedded into sharing links and consumed at the referred user's first
// purchase.
func (actions *Actions) CreateReferralSession(c *gin.Context) {
	log := getlog(c)
	userID, _ := getUserID(c)

	if actions.service.Sessions == nil {
		abortWithError(c, ServerError, "Referral sessions are not available")
		return
	}
	token := xid.New().String()
	if err := actions.service.Sessions.Store(token, userID); err != nil {
		log.Error().Err(err).
			Str("section", "referrals").
			Str("action", "create_session").
			Uint64("user_id", userID).
			Msg("Unable to store referral session")
		abortWithError(c, ServerError, "Unable to create referral session")
		return
	}
	c.JSON(Created, map[string]string{
		"token": token,
	})
}
