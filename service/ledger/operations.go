package ledger

import (
	"github.com/ericlagergren/decimal"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/queries"
)

// Snapshot is the post mutation state of a user's balance accounts
type Snapshot map[model.Currency]*model.BalanceAccount

// EarnCommission credits a referral commission as earned but not yet
// spendable: both earned and pending grow on the stable and bonus accounts.
// Like every operation here, the amount is truncated to the ledger precision
// up front so all account fields move by the same exact delta.
func (engine *BalanceEngine) EarnCommission(txn queries.Txn, refID string, userID uint64, stable *decimal.Big, bonusUnits int64, investmentID uint64) (Snapshot, error) {
	if !validAmount(stable) {
		return nil, ErrInvalidAmount
	}
	stable = conv.CloneToPrecision(stable)
	units := bonusUnitsToDecimal(bonusUnits)
	return engine.Apply(txn, &Mutation{
		RefID:  refID,
		UserID: userID,
		Type:   model.TransactionTypeCommissionEarned,
		Stable: FieldDelta{
			Earned:  stable,
			Pending: stable,
		},
		Bonus: FieldDelta{
			Earned:  units,
			Pending: units,
		},
		EntryDeltaStable:  stable,
		EntryDeltaBonus:   units,
		RelatedInvestment: investmentID,
	})
}

// ConfirmCommission matures an earned commission: the amount moves from
// pending to available, earned stays untouched
func (engine *BalanceEngine) ConfirmCommission(txn queries.Txn, refID string, userID uint64, stable *decimal.Big, bonusUnits int64, investmentID uint64) (Snapshot, error) {
	if !validAmount(stable) {
		return nil, ErrInvalidAmount
	}
	stable = conv.CloneToPrecision(stable)
	units := bonusUnitsToDecimal(bonusUnits)
	return engine.Apply(txn, &Mutation{
		RefID:  refID,
		UserID: userID,
		Type:   model.TransactionTypeCommissionConfirmed,
		Stable: FieldDelta{
			Pending:   neg(stable),
			Available: stable,
		},
		Bonus: FieldDelta{
			Pending:   neg(units),
			Available: units,
		},
		EntryDeltaStable:  stable,
		EntryDeltaBonus:   units,
		RelatedInvestment: investmentID,
	})
}

// VoidCommission reverses an earned commission exactly: pending and earned
// shrink by the original credit
func (engine *BalanceEngine) VoidCommission(txn queries.Txn, refID string, userID uint64, stable *decimal.Big, bonusUnits int64, investmentID uint64) (Snapshot, error) {
	if !validAmount(stable) {
		return nil, ErrInvalidAmount
	}
	stable = conv.CloneToPrecision(stable)
	units := bonusUnitsToDecimal(bonusUnits)
	return engine.Apply(txn, &Mutation{
		RefID:  refID,
		UserID: userID,
		Type:   model.TransactionTypeCommissionVoided,
		Stable: FieldDelta{
			Earned:  neg(stable),
			Pending: neg(stable),
		},
		Bonus: FieldDelta{
			Earned:  neg(units),
			Pending: neg(units),
		},
		EntryDeltaStable:  neg(stable),
		EntryDeltaBonus:   neg(units),
		RelatedInvestment: investmentID,
	})
}

// PayOut moves an available stable amount into total withdrawn
func (engine *BalanceEngine) PayOut(txn queries.Txn, refID string, userID uint64, stable *decimal.Big) (Snapshot, error) {
	if !validAmount(stable) {
		return nil, ErrInvalidAmount
	}
	stable = conv.CloneToPrecision(stable)
	return engine.Apply(txn, &Mutation{
		RefID:  refID,
		UserID: userID,
		Type:   model.TransactionTypePayout,
		Stable: FieldDelta{
			Available: neg(stable),
			Withdrawn: stable,
		},
		EntryDeltaStable: neg(stable),
	})
}

// DebitPurchase spends available credits on a purchase. The amount leaves
// both available and earned so the account equation keeps holding.
func (engine *BalanceEngine) DebitPurchase(txn queries.Txn, refID string, userID uint64, stable *decimal.Big, investmentID uint64) (Snapshot, error) {
	if !validAmount(stable) {
		return nil, ErrInvalidAmount
	}
	stable = conv.CloneToPrecision(stable)
	return engine.Apply(txn, &Mutation{
		RefID:  refID,
		UserID: userID,
		Type:   model.TransactionTypePurchaseDebit,
		Stable: FieldDelta{
			Earned:    neg(stable),
			Available: neg(stable),
		},
		EntryDeltaStable:  neg(stable),
		RelatedInvestment: investmentID,
	})
}

// CreditClaim credits an approved payment claim as immediately available
func (engine *BalanceEngine) CreditClaim(txn queries.Txn, refID string, userID uint64, stable *decimal.Big, adminID uint64) (Snapshot, error) {
	if !validAmount(stable) {
		return nil, ErrInvalidAmount
	}
	stable = conv.CloneToPrecision(stable)
	return engine.Apply(txn, &Mutation{
		RefID:  refID,
		UserID: userID,
		Type:   model.TransactionTypeClaimCredit,
		Stable: FieldDelta{
			Earned:    stable,
			Available: stable,
		},
		EntryDeltaStable: stable,
		RelatedAdmin:     adminID,
	})
}

// AdminAdjust applies a signed manual correction to the available stable
// balance, mirrored on earned
func (engine *BalanceEngine) AdminAdjust(txn queries.Txn, refID string, userID uint64, deltaStable *decimal.Big, adminID uint64, comment string) (Snapshot, error) {
	if deltaStable == nil || deltaStable.Sign() == 0 {
		return nil, ErrInvalidAmount
	}
	deltaStable = conv.CloneToPrecision(deltaStable)
	return engine.Apply(txn, &Mutation{
		RefID:  refID,
		UserID: userID,
		Type:   model.TransactionTypeAdminAdjustment,
		Stable: FieldDelta{
			Earned:    deltaStable,
			Available: deltaStable,
		},
		EntryDeltaStable: deltaStable,
		RelatedAdmin:     adminID,
		Comment:          comment,
	})
}
