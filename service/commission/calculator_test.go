package commission

import (
	"testing"

	"github.com/ericlagergren/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service/verification"
)

func testCalculator() *Calculator {
	return NewCalculator(
		config.ReferralConfig{L1: 0.12, L2: 0.05, L3: 0.03, MaxDepth: 3},
		config.BonusConfig{UnitPrice: 5},
	)
}

func tierWithMultiplier(multiplier float64) *verification.Tier {
	return &verification.Tier{
		Name:       "test",
		Multiplier: conv.FromFloat(multiplier),
		MinAmount:  conv.NewDecimalWithPrecision(),
		MaxAmount:  conv.NewDecimalWithPrecision(),
	}
}

func amount(value float64) *decimal.Big {
	return conv.FromFloat(value)
}

func TestCalculate(t *testing.T) {
	Convey("Given a calculator with the default rates", t, func() {
		calc := testCalculator()

		Convey("A single level one ancestor on a 100 purchase", func() {
			chain := []model.ChainEntry{{Level: model.CommissionLevel1, UserID: 20}}
			tiers := map[uint64]*verification.Tier{20: tierWithMultiplier(1.0)}

			amounts := calc.Calculate(chain, amount(100), tiers)

			Convey("It should earn 12 stable and exactly 2 whole bonus units", func() {
				So(amounts, ShouldHaveLength, 1)
				So(amounts[0].UserID, ShouldEqual, 20)
				So(amounts[0].Stable.Cmp(amount(12)), ShouldEqual, 0)
				So(amounts[0].Stable.String(), ShouldEqual, "12.00000000")
				So(amounts[0].BonusUnits, ShouldEqual, 2)
			})
		})

		Convey("A full three level chain on a 1000 purchase", func() {
			chain := []model.ChainEntry{
				{Level: model.CommissionLevel1, UserID: 20},
				{Level: model.CommissionLevel2, UserID: 30},
				{Level: model.CommissionLevel3, UserID: 40},
			}
			tiers := map[uint64]*verification.Tier{
				20: tierWithMultiplier(1.0),
				30: tierWithMultiplier(1.0),
				40: tierWithMultiplier(1.0),
			}

			amounts := calc.Calculate(chain, amount(1000), tiers)

			Convey("It should produce one commission per level", func() {
				So(amounts, ShouldHaveLength, 3)
				So(amounts[0].Stable.Cmp(amount(120)), ShouldEqual, 0)
				So(amounts[1].Stable.Cmp(amount(50)), ShouldEqual, 0)
				So(amounts[2].Stable.Cmp(amount(30)), ShouldEqual, 0)
				So(amounts[0].BonusUnits, ShouldEqual, 24)
				So(amounts[1].BonusUnits, ShouldEqual, 10)
				So(amounts[2].BonusUnits, ShouldEqual, 6)
			})
		})

		Convey("A sponsor with a raised verification multiplier", func() {
			chain := []model.ChainEntry{{Level: model.CommissionLevel1, UserID: 20}}
			tiers := map[uint64]*verification.Tier{20: tierWithMultiplier(1.5)}

			amounts := calc.Calculate(chain, amount(100), tiers)

			Convey("It should scale the commission by the multiplier", func() {
				So(amounts, ShouldHaveLength, 1)
				So(amounts[0].Stable.Cmp(amount(18)), ShouldEqual, 0)
				So(amounts[0].BonusUnits, ShouldEqual, 3)
			})
		})

		Convey("A chain shorter than the depth cap", func() {
			chain := []model.ChainEntry{
				{Level: model.CommissionLevel1, UserID: 20},
				{Level: model.CommissionLevel2, UserID: 30},
			}
			tiers := map[uint64]*verification.Tier{
				20: tierWithMultiplier(1.0),
				30: tierWithMultiplier(1.0),
			}

			amounts := calc.Calculate(chain, amount(100), tiers)

			Convey("It should not pad missing levels with zero records", func() {
				So(amounts, ShouldHaveLength, 2)
			})
		})

		Convey("A purchase small enough to truncate a commission to zero", func() {
			chain := []model.ChainEntry{{Level: model.CommissionLevel3, UserID: 40}}
			tiers := map[uint64]*verification.Tier{40: tierWithMultiplier(1.0)}

			amounts := calc.Calculate(chain, amount(0.0000001), tiers)

			Convey("It should drop the zero amount entry", func() {
				So(amounts, ShouldBeEmpty)
			})
		})

		Convey("A commission below one bonus unit", func() {
			chain := []model.ChainEntry{{Level: model.CommissionLevel1, UserID: 20}}
			tiers := map[uint64]*verification.Tier{20: tierWithMultiplier(1.0)}

			amounts := calc.Calculate(chain, amount(30), tiers)

			Convey("It should keep the stable amount and floor the units to zero", func() {
				So(amounts, ShouldHaveLength, 1)
				So(amounts[0].Stable.Cmp(amount(3.6)), ShouldEqual, 0)
				So(amounts[0].BonusUnits, ShouldEqual, 0)
			})
		})
	})
}
