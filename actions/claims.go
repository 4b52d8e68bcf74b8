package actions

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/settlement"
)

type claimRequest struct {
	Amount       string `json:"amount" binding:"required"`
	SenderName   string `json:"sender_name" binding:"required"`
	SenderWallet string `json:"sender_wallet"`
}

// SubmitClaim godoc
// swagger:route POST /payments/claims claims submit_claim
// Submit a manual payment claim for verification
func (actions *Actions) SubmitClaim(c *gin.Context) {
	log := getlog(c)
	userID, _ := getUserID(c)

	var request claimRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, ValidationFailed, "Invalid claim request")
		return
	}
	amount, ok := parseAmount(request.Amount)
	if !ok {
		abortWithError(c, ValidationFailed, "Invalid amount")
		return
	}

	claim, result, err := actions.service.Orchestrator.SubmitClaim(userID, amount, request.SenderName, request.SenderWallet)
	if err != nil {
		if errors.Is(err, settlement.ErrInvalidAmount) {
			abortWithError(c, ValidationFailed, "Amount must be greater than zero")
			return
		}
		log.Error().Err(err).
			Str("section", "claims").
			Str("action", "submit").
			Uint64("user_id", userID).
			Msg("Unable to submit payment claim")
		abortWithError(c, ServerError, "Unable to submit payment claim")
		return
	}
	c.JSON(Created, map[string]interface{}{
		"claim_id":            claim.ID,
		"risk_level":          claim.RiskLevel,
		"violations":          result.Violations,
		"verification_status": claim.Status,
	})
}

// GetClaims godoc
// swagger:route GET /payments/claims claims get_claims
// List the payment claims of the authenticated user
func (actions *Actions) GetClaims(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)
	status := c.Query("status")

	claims, err := actions.service.GetClaims(userID, status, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load payment claims")
		return
	}
	c.JSON(OK, claims)
}

// ReviewClaim godoc
// swagger:route POST /internal/claims/{claim_id}/{decision} claims review_claim
// Record an admin decision on a pending payment claim
func (actions *Actions) ReviewClaim(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := getlog(c)
		adminID, _ := getAdminID(c)
		claimID, err := strconv.ParseUint(c.Param("claim_id"), 10, 64)
		if err != nil {
			abortWithError(c, ValidationFailed, "Invalid claim id")
			return
		}
		comment := c.PostForm("comment")

		var review func(claimID, adminID uint64, comment string) (interface{}, error)
		if approve {
			review = func(claimID, adminID uint64, comment string) (interface{}, error) {
				return actions.service.Orchestrator.ApproveClaim(claimID, adminID, comment)
			}
		} else {
			review = func(claimID, adminID uint64, comment string) (interface{}, error) {
				return actions.service.Orchestrator.RejectClaim(claimID, adminID, comment)
			}
		}

		claim, err := review(claimID, adminID, comment)
		if err != nil {
			if errors.Is(err, settlement.ErrClaimNotPending) {
				abortWithError(c, PreconditionFailed, "Claim was already reviewed")
				return
			}
			log.Error().Err(err).
				Str("section", "claims").
				Str("action", "review").
				Uint64("claim_id", claimID).
				Uint64("admin_id", adminID).
				Msg("Unable to review payment claim")
			abortWithError(c, ServerError, "Unable to review payment claim")
			return
		}
		c.JSON(OK, claim)
	}
}
