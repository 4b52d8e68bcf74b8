package actions

import (
	"strconv"

	"github.com/ericlagergren/decimal"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/httputils"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/logger"
)

// Ping godoc
func Ping(c *gin.Context) {
	c.JSON(200, "pong")
}

func abortWithError(c *gin.Context, code int, message string) {
	l := getlog(c)
	l.Debug().Stack().Int("resp_code", code).Msg(message)
	c.AbortWithStatusJSON(code, httputils.RequestError{Error: message})
}

func getUserID(c *gin.Context) (uint64, bool) {
	iUserID, ok := c.Get("auth_user_id")
	if !ok {
		return 0, false
	}
	return iUserID.(uint64), true
}

func getAdminID(c *gin.Context) (uint64, bool) {
	iAdminID, ok := c.Get("auth_admin_id")
	if !ok {
		return 0, false
	}
	return iAdminID.(uint64), true
}

func getlog(c *gin.Context) zerolog.Logger {
	return logger.GetLogger(c)
}

func getQueryAsInt(c *gin.Context, name string, def int) int {
	value := c.Query(name)
	if len(value) == 0 {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getPagination(c *gin.Context) (int, int) {
	page := getQueryAsInt(c, "page", 1)
	limit := getQueryAsInt(c, "limit", 10)
	return page, limit
}

// parseAmount turns a request amount string into a decimal at the ledger precision
func parseAmount(value string) (*decimal.Big, bool) {
	if len(value) == 0 {
		return nil, false
	}
	amount, ok := conv.NewDecimalWithPrecision().SetString(value)
	if !ok {
		return nil, false
	}
	return conv.RoundToPrecision(amount), true
}

// RequireUser resolves the authenticated user from the identity headers set
// by the gateway in front of this service
func (actions *Actions) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-User-Id")
		userID, err := strconv.ParseUint(header, 10, 64)
		if err != nil || userID == 0 {
			abortWithError(c, Unauthorized, "Missing user identity")
			return
		}
		c.Set("auth_user_id", userID)
		c.Next()
	}
}

// RequireAdmin resolves the reviewing admin from the identity headers on the
// internal routes
func (actions *Actions) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-Admin-Id")
		adminID, err := strconv.ParseUint(header, 10, 64)
		if err != nil || adminID == 0 {
			abortWithError(c, Unauthorized, "Missing admin identity")
			return
		}
		c.Set("auth_admin_id", adminID)
		c.Next()
	}
}
