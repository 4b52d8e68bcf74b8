package actions

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/ledger"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/settlement"
)

type settleRequest struct {
	PackageName          string `json:"package_name" binding:"required"`
	Amount               string `json:"amount" binding:"required"`
	PaymentMethod        string `json:"payment_method" binding:"required"`
	WalletAddress        string `json:"wallet_address"`
	ChainID              string `json:"chain_id"`
	ReferralSessionToken string `json:"referral_session_token"`
}

// CreateSettlement godoc
// swagger:route POST /settlements settlements create_settlement
// Settle a package purchase for the authenticated user
func (actions *Actions) CreateSettlement(c *gin.Context) {
	log := getlog(c)
	userID, _ := getUserID(c)

	var request settleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, ValidationFailed, "Invalid settlement request")
		return
	}
	amount, ok := parseAmount(request.Amount)
	if !ok {
		abortWithError(c, ValidationFailed, "Invalid amount")
		return
	}

	result, err := actions.service.Orchestrator.Settle(&settlement.SettleRequest{
		UserID:               userID,
		PackageName:          request.PackageName,
		Amount:               amount,
		PaymentMethod:        model.PaymentMethod(request.PaymentMethod),
		WalletAddress:        request.WalletAddress,
		ChainID:              request.ChainID,
		ReferralSessionToken: request.ReferralSessionToken,
	})
	if err != nil {
		code, message := settlementErrorResponse(err)
		if code == ServerError {
			log.Error().Err(err).
				Str("section", "settlements").
				Str("action", "create").
				Uint64("user_id", userID).
				Msg("Unable to settle purchase")
		}
		abortWithError(c, code, message)
		return
	}
	c.JSON(Created, result)
}

func settlementErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, settlement.ErrInvalidAmount):
		return ValidationFailed, "Amount must be greater than zero"
	case errors.Is(err, settlement.ErrInvalidPaymentMethod):
		return ValidationFailed, "Unknown payment method"
	case errors.Is(err, settlement.ErrAmountOutOfRange):
		return PreconditionFailed, "Amount outside the allowed range for your verification tier"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return BadRequest, "Insufficient credits"
	case errors.Is(err, settlement.ErrInvestmentNotPending):
		return PreconditionFailed, "Investment already reached a terminal status"
	}
	return ServerError, "Unable to settle purchase"
}

// GetInvestments godoc
// swagger:route GET /investments settlements get_investments
// List the purchases of the authenticated user
func (actions *Actions) GetInvestments(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)

	investments, count, err := actions.service.GetRepo().GetUserInvestments(userID, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load investments")
		return
	}
	c.JSON(OK, map[string]interface{}{
		"investments": investments,
		"meta": model.PagingMeta{
			Page:  page,
			Count: count,
			Limit: limit,
		},
	})
}

// ConfirmInvestment godoc
// swagger:route POST /internal/investments/{investment_id}/confirm settlements confirm_investment
// Confirm a pending wallet funded investment after its external payment settled
func (actions *Actions) ConfirmInvestment(c *gin.Context) {
	log := getlog(c)
	investmentID, err := strconv.ParseUint(c.Param("investment_id"), 10, 64)
	if err != nil {
		abortWithError(c, ValidationFailed, "Invalid investment id")
		return
	}

	investment, err := actions.service.Orchestrator.ConfirmInvestment(investmentID)
	if err != nil {
		if errors.Is(err, settlement.ErrInvestmentNotPending) {
			abortWithError(c, PreconditionFailed, "Investment already reached a terminal status")
			return
		}
		log.Error().Err(err).
			Str("section", "settlements").
			Str("action", "confirm").
			Uint64("investment_id", investmentID).
			Msg("Unable to confirm investment")
		abortWithError(c, ServerError, "Unable to confirm investment")
		return
	}
	c.JSON(OK, investment)
}

// FailInvestment godoc
// swagger:route POST /internal/investments/{investment_id}/fail settlements fail_investment
// Mark a pending investment as failed and void its commissions
func (actions *Actions) FailInvestment(c *gin.Context) {
	log := getlog(c)
	investmentID, err := strconv.ParseUint(c.Param("investment_id"), 10, 64)
	if err != nil {
		abortWithError(c, ValidationFailed, "Invalid investment id")
		return
	}

	investment, err := actions.service.Orchestrator.FailInvestment(investmentID)
	if err != nil {
		if errors.Is(err, settlement.ErrInvestmentNotPending) {
			abortWithError(c, PreconditionFailed, "Investment already reached a terminal status")
			return
		}
		log.Error().Err(err).
			Str("section", "settlements").
			Str("action", "fail").
			Uint64("investment_id", investmentID).
			Msg("Unable to fail investment")
		abortWithError(c, ServerError, "Unable to fail investment")
		return
	}
	c.JSON(OK, investment)
}
