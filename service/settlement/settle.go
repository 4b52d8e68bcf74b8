package settlement

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/monitor"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/verification"
)

// SettleRequest is one purchase entering the settlement pipeline
type SettleRequest struct {
	UserID               uint64
	PackageName          string
	Amount               *decimal.Big
	PaymentMethod        model.PaymentMethod
	WalletAddress        string
	ChainID              string
	ReferralSessionToken string
}

// CommissionSummary reports the outcome of the commission fan-out. Errors
// lists the ancestors that could not be credited, they never fail the
// purchase itself.
type CommissionSummary struct {
	Created         int          `json:"created"`
	TotalStable     *decimal.Big `json:"total_stable"`
	TotalBonusUnits int64        `json:"total_bonus_units"`
	Errors          []string     `json:"errors,omitempty"`
}

// SettlementResult is returned for every settled purchase
type SettlementResult struct {
	Investment  *model.Investment  `json:"investment"`
	Commissions *CommissionSummary `json:"commissions"`
}

// Settle runs the settlement sequence: tier validation, credit debit plus
// investment creation in one transaction, then best effort commission
// fan-out. Wallet funded purchases stay pending until confirmed externally,
// credit funded ones settle instantly.
func (orchestrator *Orchestrator) Settle(request *SettleRequest) (*SettlementResult, error) {
	if request.Amount == nil || request.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if !request.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	tier, err := orchestrator.tiers.TierFor(request.UserID)
	if err != nil {
		return nil, err
	}
	if !tier.AllowsAmount(request.Amount) {
		return nil, ErrAmountOutOfRange
	}

	status := model.InvestmentStatusPending
	if request.PaymentMethod == model.PaymentMethodCredits {
		status = model.InvestmentStatusCompleted
	}
	deliveryAt := time.Now().AddDate(0, 0, orchestrator.cfg.DeliveryDays)
	investment := model.NewInvestment(
		xid.New().String(),
		request.UserID,
		request.PackageName,
		conv.CloneToPrecision(request.Amount),
		request.PaymentMethod,
		status,
		request.WalletAddress,
		request.ChainID,
		deliveryAt,
	)

	txn, err := orchestrator.store.Begin()
	if err != nil {
		return nil, err
	}
	if err := orchestrator.store.CreateInvestment(txn, investment); err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	if request.PaymentMethod == model.PaymentMethodCredits {
		_, err := orchestrator.engine.DebitPurchase(txn, investment.RefID, request.UserID, request.Amount, investment.ID)
		if err != nil {
			_ = txn.Rollback()
			return nil, err
		}
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	monitor.SettlementsProcessed.WithLabelValues(string(request.PaymentMethod), status.String()).Inc()

	summary := orchestrator.fanOutCommissions(request, investment)

	result := &SettlementResult{
		Investment:  investment,
		Commissions: summary,
	}
	orchestrator.events.PublishSettlement(investment, summary)
	return result, nil
}

// fanOutCommissions credits every resolvable ancestor. Each commission is its
// own small transaction so a failure partway leaves earlier levels intact.
func (orchestrator *Orchestrator) fanOutCommissions(request *SettleRequest, investment *model.Investment) *CommissionSummary {
	summary := &CommissionSummary{
		TotalStable: conv.NewDecimalWithPrecision(),
	}

	orchestrator.consumeSessionToken(request)

	chain, err := orchestrator.resolver.ResolveChain(request.UserID)
	if err != nil {
		log.Error().Err(err).
			Str("section", "settlement").
			Uint64("user_id", request.UserID).
			Uint64("investment_id", investment.ID).
			Msg("Unable to resolve referral chain")
		summary.Errors = append(summary.Errors, fmt.Sprintf("chain: %s", err))
		return summary
	}

	tiers := map[uint64]*verification.Tier{}
	eligible := make([]model.ChainEntry, 0, len(chain))
	for _, entry := range chain {
		tier, err := orchestrator.tiers.TierFor(entry.UserID)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("level %d: %s", entry.Level, err))
			continue
		}
		tiers[entry.UserID] = tier
		eligible = append(eligible, entry)
	}

	for _, amount := range orchestrator.calc.Calculate(eligible, request.Amount, tiers) {
		if err := orchestrator.createCommission(investment, amount); err != nil {
			monitor.CommissionFanoutErrors.Inc()
			log.Error().Err(err).
				Str("section", "settlement").
				Uint64("referrer_id", amount.UserID).
				Int("level", amount.Level.Int()).
				Uint64("investment_id", investment.ID).
				Msg("Commission fan-out failed for ancestor")
			summary.Errors = append(summary.Errors, fmt.Sprintf("level %d: %s", amount.Level, err))
			continue
		}
		monitor.CommissionsCreated.WithLabelValues(strconv.Itoa(amount.Level.Int())).Inc()
		summary.Created++
		summary.TotalStable.Add(summary.TotalStable, amount.Stable)
		summary.TotalBonusUnits += amount.BonusUnits
	}
	return summary
}

// consumeSessionToken binds the purchasing user to the sponsor behind the
// referral session, if any. A stale or conflicting token is dropped silently,
// the purchase does not depend on it.
func (orchestrator *Orchestrator) consumeSessionToken(request *SettleRequest) {
	if len(request.ReferralSessionToken) == 0 || orchestrator.sessions == nil {
		return
	}
	referrerID, found, err := orchestrator.sessions.Resolve(request.ReferralSessionToken)
	if err != nil {
		log.Warn().Err(err).
			Str("section", "settlement").
			Uint64("user_id", request.UserID).
			Msg("Unable to resolve referral session token")
		return
	}
	if !found {
		return
	}
	if _, err := orchestrator.resolver.Establish(referrerID, request.UserID, model.ReferralSourceSession); err != nil {
		log.Debug().Err(err).
			Str("section", "settlement").
			Uint64("user_id", request.UserID).
			Uint64("referrer_id", referrerID).
			Msg("Referral session not converted into a relationship")
	}
	if err := orchestrator.sessions.Invalidate(request.ReferralSessionToken); err != nil {
		log.Warn().Err(err).
			Str("section", "settlement").
			Msg("Unable to invalidate referral session token")
	}
}

func (orchestrator *Orchestrator) createCommission(investment *model.Investment, amount model.CommissionAmount) error {
	txn, err := orchestrator.store.Begin()
	if err != nil {
		return err
	}
	record := model.NewCommission(
		xid.New().String(),
		amount.UserID,
		investment.UserID,
		investment.ID,
		amount.Level,
		conv.CloneToPrecision(investment.Amount.V),
		amount.Stable,
		amount.BonusUnits,
	)
	if err := orchestrator.store.CreateCommission(txn, record); err != nil {
		_ = txn.Rollback()
		return err
	}
	if _, err := orchestrator.engine.EarnCommission(txn, record.RefID, amount.UserID, amount.Stable, amount.BonusUnits, investment.ID); err != nil {
		_ = txn.Rollback()
		return err
	}
	return txn.Commit()
}

// ConfirmInvestment settles a pending wallet funded investment: the record
// moves to completed and every pending commission it generated matures from
// pending to available
func (orchestrator *Orchestrator) ConfirmInvestment(investmentID uint64) (*model.Investment, error) {
	investment, err := orchestrator.store.GetInvestment(nil, investmentID)
	if err != nil {
		return nil, err
	}
	if investment.Status != model.InvestmentStatusPending {
		return nil, ErrInvestmentNotPending
	}

	txn, err := orchestrator.store.Begin()
	if err != nil {
		return nil, err
	}
	if err := orchestrator.store.UpdateInvestmentStatus(txn, investment, model.InvestmentStatusCompleted); err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	commissions, err := orchestrator.store.GetCommissionsByInvestment(txn, investment.ID)
	if err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	for i := range commissions {
		record := &commissions[i]
		if record.Status != model.CommissionStatusPending {
			continue
		}
		_, err := orchestrator.engine.ConfirmCommission(txn, record.RefID, record.ReferrerID, record.AmountStable.V, record.BonusUnits, investment.ID)
		if err != nil {
			_ = txn.Rollback()
			return nil, err
		}
		if err := orchestrator.store.UpdateCommissionStatus(txn, record, model.CommissionStatusConfirmed); err != nil {
			_ = txn.Rollback()
			return nil, err
		}
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	orchestrator.events.PublishInvestmentStatus(investment)
	return investment, nil
}

// FailInvestment marks a pending investment as failed and reverses every
// pending commission it generated exactly
func (orchestrator *Orchestrator) FailInvestment(investmentID uint64) (*model.Investment, error) {
	investment, err := orchestrator.store.GetInvestment(nil, investmentID)
	if err != nil {
		return nil, err
	}
	if investment.Status != model.InvestmentStatusPending {
		return nil, ErrInvestmentNotPending
	}

	txn, err := orchestrator.store.Begin()
	if err != nil {
		return nil, err
	}
	if err := orchestrator.store.UpdateInvestmentStatus(txn, investment, model.InvestmentStatusFailed); err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	commissions, err := orchestrator.store.GetCommissionsByInvestment(txn, investment.ID)
	if err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	for i := range commissions {
		record := &commissions[i]
		if record.Status != model.CommissionStatusPending {
			continue
		}
		_, err := orchestrator.engine.VoidCommission(txn, record.RefID, record.ReferrerID, record.AmountStable.V, record.BonusUnits, investment.ID)
		if err != nil {
			_ = txn.Rollback()
			return nil, err
		}
		if err := orchestrator.store.UpdateCommissionStatus(txn, record, model.CommissionStatusVoided); err != nil {
			_ = txn.Rollback()
			return nil, err
		}
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	orchestrator.events.PublishInvestmentStatus(investment)
	return investment, nil
}
