package actions

import (
	"github.com/gin-gonic/gin"
)

// GetBalances godoc
// swagger:route GET /balances balances get_balances
// Return the balance snapshot of the authenticated user
func (actions *Actions) GetBalances(c *gin.Context) {
	userID, _ := getUserID(c)

	accounts, err := actions.service.GetBalances(userID)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load balances")
		return
	}
	c.JSON(OK, map[string]interface{}{
		"balances": accounts,
	})
}

// GetLedger godoc
// swagger:route GET /balances/ledger balances get_ledger
// Return the paged transaction history of the authenticated user
func (actions *Actions) GetLedger(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)

	entries, err := actions.service.GetLedger(userID, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load ledger entries")
		return
	}
	c.JSON(OK, entries)
}

// GetCommissions godoc
// swagger:route GET /commissions balances get_commissions
// Return the paged commission history of the authenticated user
func (actions *Actions) GetCommissions(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit := getPagination(c)
	status := c.Query("status")

	commissions, err := actions.service.GetCommissions(userID, status, limit, page)
	if err != nil {
		abortWithError(c, ServerError, "Unable to load commissions")
		return
	}
	c.JSON(OK, commissions)
}
