package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/actions"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/logger"
)

func (srv *server) ListenToRequests() {
	log.Info().Str("worker", "http_listen_to_requests").Str("action", "start").Msg("HTTP Listen to requests - started")
	defer log.Info().Str("worker", "http_listen_to_requests").Str("action", "stop").Msg("HTTP Listen to requests - stopped")

	a := srv.actions

	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "X-Requested-With", "Content-Length", "Content-Type", "Accept", "X-User-Id", "X-Admin-Id"}
	corsConfig.AllowMethods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "OPTIONS"}

	r.Use(cors.New(corsConfig)) // Allow requests from anywhere
	r.Use(gin.Recovery())       // Recovery middleware recovers from any panics and writes a 500 if there was one.

	r.Use(logger.SetLogger())

	{
		r.GET("/ping", actions.Ping)
	}

	// user facing routes resolved through the gateway identity headers
	user := r.Group("/", a.RequireUser())
	{
		// swagger:route POST /settlements settlements create_settlement
		// Settle a package purchase, debiting credits or opening a pending
		// wallet investment, and fan out referral commissions
		user.POST("/settlements", a.CreateSettlement)
		user.GET("/investments", a.GetInvestments)

		user.GET("/balances", a.GetBalances)
		user.GET("/balances/ledger", a.GetLedger)
		user.GET("/commissions", a.GetCommissions)

		user.POST("/payments/claims", a.SubmitClaim)
		user.GET("/payments/claims", a.GetClaims)

		user.GET("/referrals", a.GetReferrals)
		user.POST("/referrals/session", a.CreateReferralSession)
	}

	// internal routes used by payment watchers and the admin review panel
	internal := r.Group("/internal", a.RequireAdmin())
	{
		internal.POST("/investments/:investment_id/confirm", a.ConfirmInvestment)
		internal.POST("/investments/:investment_id/fail", a.FailInvestment)

		internal.POST("/claims/:claim_id/approve", a.ReviewClaim(true))
		internal.POST("/claims/:claim_id/reject", a.ReviewClaim(false))
	}

	srv.HTTP = &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.config.Server.API.Port),
		Handler: r,
	}

	srv.HTTP.SetKeepAlivesEnabled(srv.config.Server.API.KeepAlive)

	port := srv.config.Server.API.Port
	httpServer := srv.HTTP
	if err := httpServer.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			log.Error().Err(err).Str("section", "server").Str("action", "ListenToRequests").Msgf("Unable to listen %d port", port)
		}
	}
}
