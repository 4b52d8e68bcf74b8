package commission

import (
	"github.com/ericlagergren/decimal"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/verification"
)

// Calculator turns a resolved referral chain and a purchase amount into the
// commission amounts owed to each ancestor
type Calculator struct {
	rates     config.ReferralConfig
	unitPrice *decimal.Big
}

// NewCalculator creates a commission calculator from the referral and bonus
// configuration
func NewCalculator(referralCfg config.ReferralConfig, bonusCfg config.BonusConfig) *Calculator {
	return &Calculator{
		rates:     referralCfg,
		unitPrice: bonusCfg.GetUnitPrice(),
	}
}

// Calculate computes one commission per chain entry. The stable amount is the
// purchase amount scaled by the level rate and the sponsor tier multiplier,
// truncated to the ledger precision. Bonus units are whole units bought by
// the stable amount at the configured unit price, remainders are dropped.
// Ancestors whose stable amount truncates to zero earn nothing and are
// filtered out.
func (calc *Calculator) Calculate(chain []model.ChainEntry, purchaseAmount *decimal.Big, tiers map[uint64]*verification.Tier) []model.CommissionAmount {
	amounts := make([]model.CommissionAmount, 0, len(chain))
	for _, entry := range chain {
		rate := calc.rates.RateForLevel(entry.Level.Int())
		stable := conv.NewDecimalWithPrecision().Mul(purchaseAmount, rate)
		if tier, ok := tiers[entry.UserID]; ok && tier != nil {
			stable = stable.Mul(stable, tier.Multiplier)
		}
		stable = conv.RoundToPrecision(stable)
		if conv.Zero(stable) {
			continue
		}
		amounts = append(amounts, model.CommissionAmount{
			Level:      entry.Level,
			UserID:     entry.UserID,
			Stable:     stable,
			BonusUnits: conv.FloorUnits(stable, calc.unitPrice),
		})
	}
	return amounts
}
