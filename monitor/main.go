package monitor

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Config structure
type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

var (
	// SettlementsProcessed counts settled purchases by payment method and final status
	SettlementsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_processed_total",
		Help: "Number of settlement requests processed",
	}, []string{"payment_method", "status"})

	// CommissionsCreated counts commission records created per referral level
	CommissionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_commissions_created_total",
		Help: "Number of referral commission records created",
	}, []string{"level"})

	// CommissionFanoutErrors counts non fatal commission fan-out failures
	CommissionFanoutErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_commission_fanout_errors_total",
		Help: "Number of commission fan-out failures tolerated as partial results",
	})

	// ClaimsScreened counts screened payment claims by resulting risk level
	ClaimsScreened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_claims_screened_total",
		Help: "Number of payment claims screened",
	}, []string{"risk_level"})

	// LedgerInvariantFailures counts rejected balance mutations. Any increase
	// here needs an operator to look at the ledger.
	LedgerInvariantFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_ledger_invariant_failures_total",
		Help: "Number of balance mutations rejected by the ledger invariant",
	})
)

var server *http.Server

// LoopMetricsServer starts the prometheus metrics listener
func LoopMetricsServer(cfg Config) {
	if !cfg.Enabled {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: mux,
	}
	log.Info().Str("section", "monitor").Str("addr", server.Addr).Msg("Starting metrics server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Str("section", "monitor").Msg("Metrics server stopped")
	}
}

// ShutdownServer stops the metrics listener
func ShutdownServer() {
	if server == nil {
		return
	}
	_ = server.Close()
}
