package settlement

import (
	"strings"

	"github.com/ericlagergren/decimal"
	"github.com/rs/xid"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/featureflags"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/monitor"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/fraud"
)

// SubmitClaim screens a manual payment claim and persists it with its
// classification. Screening itself never blocks a submission: the claim is
// stored either way, the orchestrator only decides whether it goes straight
// to rejected or waits for an admin review.
func (orchestrator *Orchestrator) SubmitClaim(userID uint64, amount *decimal.Big, senderName, senderWallet string) (*model.PaymentClaim, *fraud.Result, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	result, err := orchestrator.screener.Screen(userID, amount, senderName, senderWallet)
	if err != nil {
		return nil, nil, err
	}

	claim := model.NewPaymentClaim(xid.New().String(), userID, conv.CloneToPrecision(amount), senderName, senderWallet)
	claim.RiskLevel = result.RiskLevel
	claim.RiskScore = result.Score
	claim.Violations = strings.Join(result.Violations, "; ")
	if orchestrator.autoReject(result) {
		claim.Status = model.ClaimStatusRejected
	}

	if err := orchestrator.store.CreateClaim(nil, claim); err != nil {
		return nil, nil, err
	}
	monitor.ClaimsScreened.WithLabelValues(result.RiskLevel.String()).Inc()
	orchestrator.events.PublishClaim(claim)
	return claim, result, nil
}

// autoReject decides whether a screening verdict skips the admin queue
// entirely. Rate limit violations reject unconditionally regardless of the
// score band; beyond those, a high risk score over the reject threshold
// rejects too, gated by a feature flag. High risk below the threshold still
// lands in review, it is never approved silently.
func (orchestrator *Orchestrator) autoReject(result *fraud.Result) bool {
	if result.Reject {
		return true
	}
	if result.RiskLevel != model.RiskLevelHigh {
		return false
	}
	if result.Score < orchestrator.fraudCfg.RejectScore {
		return false
	}
	return featureflags.IsEnabled("settlement.auto_reject_claims", true)
}

// ApproveClaim records the admin approval and credits the claimed amount to
// the user's available balance in the same transaction
func (orchestrator *Orchestrator) ApproveClaim(claimID, adminID uint64, comment string) (*model.PaymentClaim, error) {
	claim, err := orchestrator.store.GetClaim(nil, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != model.ClaimStatusPending {
		return nil, ErrClaimNotPending
	}

	txn, err := orchestrator.store.Begin()
	if err != nil {
		return nil, err
	}
	if err := orchestrator.store.UpdateClaimReview(txn, claim, model.ClaimStatusApproved, adminID, comment); err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	if _, err := orchestrator.engine.CreditClaim(txn, claim.RefID, claim.UserID, claim.Amount.V, adminID); err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	orchestrator.events.PublishClaim(claim)
	return claim, nil
}

// RejectClaim records the admin rejection, nothing is credited
func (orchestrator *Orchestrator) RejectClaim(claimID, adminID uint64, comment string) (*model.PaymentClaim, error) {
	claim, err := orchestrator.store.GetClaim(nil, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != model.ClaimStatusPending {
		return nil, ErrClaimNotPending
	}
	if err := orchestrator.store.UpdateClaimReview(nil, claim, model.ClaimStatusRejected, adminID, comment); err != nil {
		return nil, err
	}
	orchestrator.events.PublishClaim(claim)
	return claim, nil
}
