package service

import (
	"time"

	"github.com/mediocregopher/radix/v3"
	"github.com/rs/zerolog/log"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/cache/referralsession"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/net/redis"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/queries"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/commission"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/fraud"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/ledger"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/referral"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/settlement"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/verification"
)

// referral session tokens live for 30 days
const referralSessionTTLSeconds = 30 * 24 * 3600

// Service bundles the settlement core and its collaborators behind one
// entry point used by the API layer and the cron jobs
type Service struct {
	cfg          config.Config
	repo         *queries.Repo
	redisPool    *radix.Pool
	events       *settlement.KafkaEvents
	Sessions     *referralsession.Cache
	Engine       *ledger.BalanceEngine
	Resolver     *referral.Resolver
	Calculator   *commission.Calculator
	Screener     *fraud.Screener
	Tiers        *verification.Provider
	Orchestrator *settlement.Orchestrator
}

// NewService connects the data stores and wires the settlement pipeline
func NewService(cfg config.Config) (*Service, error) {
	repo, err := queries.NewRepo(cfg.DatabaseCluster)
	if err != nil {
		return nil, err
	}

	service := &Service{
		cfg:  cfg,
		repo: repo,
	}

	var sessions settlement.SessionResolver
	if len(cfg.Redis.Host) > 0 {
		pool, err := redis.Connect(cfg.Redis)
		if err != nil {
			return nil, err
		}
		service.redisPool = pool
		service.Sessions = referralsession.NewCache(pool, referralSessionTTLSeconds)
		sessions = service.Sessions
	} else {
		log.Warn().Str("section", "service").Msg("Redis not configured, referral session tokens disabled")
	}

	var events settlement.Events
	if len(cfg.Kafka.Brokers) > 0 {
		service.events = settlement.NewKafkaEvents(cfg.Kafka)
		events = service.events
	} else {
		log.Warn().Str("section", "service").Msg("Kafka not configured, settlement events disabled")
	}

	service.Engine = ledger.NewBalanceEngine(repo)
	service.Resolver = referral.NewResolver(repo, cfg.Referral.MaxDepth)
	service.Calculator = commission.NewCalculator(cfg.Referral, cfg.Bonus)
	service.Screener = fraud.NewScreener(cfg.Fraud, repo)
	service.Tiers = verification.NewProvider(cfg.Verification, repo)
	service.Orchestrator = settlement.NewOrchestrator(
		repo,
		service.Engine,
		service.Resolver,
		service.Calculator,
		service.Tiers,
		service.Screener,
		sessions,
		events,
		cfg.Settlement,
		cfg.Fraud,
	)
	return service, nil
}

// GetRepo returns the database repository
func (service *Service) GetRepo() *queries.Repo {
	return service.repo
}

// Close terminates every outbound connection
func (service *Service) Close() {
	if service.events != nil {
		service.events.Close()
	}
	if service.redisPool != nil {
		if err := service.redisPool.Close(); err != nil {
			log.Error().Err(err).Str("section", "service").Msg("Unable to close redis pool")
		}
	}
	if err := service.repo.Close(); err != nil {
		log.Error().Err(err).Str("section", "service").Msg("Unable to close database connections")
	}
}

// GetBalances returns the balance snapshot of a user
func (service *Service) GetBalances(userID uint64) ([]model.BalanceAccount, error) {
	return service.repo.GetBalanceAccounts(userID)
}

// GetLedger returns the paged transaction history of a user
func (service *Service) GetLedger(userID uint64, limit, page int) (*model.LedgerEntryList, error) {
	return service.repo.GetLedgerEntries(userID, limit, page)
}

// GetCommissions returns the paged commission history of a referrer
func (service *Service) GetCommissions(referrerID uint64, status string, limit, page int) (*model.CommissionList, error) {
	return service.repo.GetUserCommissions(referrerID, status, limit, page)
}

// GetClaims returns the paged claim history of a user
func (service *Service) GetClaims(userID uint64, status string, limit, page int) (*model.PaymentClaimList, error) {
	return service.repo.GetUserClaims(userID, status, limit, page)
}

// ExpireStaleClaims moves pending claims past the review deadline into the
// expired status
func (service *Service) ExpireStaleClaims() (int64, error) {
	deadline := time.Now().Add(-time.Duration(service.cfg.Fraud.ReviewDeadlineHours) * time.Hour)
	return service.repo.ExpireStaleClaims(deadline)
}
