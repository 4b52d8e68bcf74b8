package settlement

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

func TestSettle(t *testing.T) {
	Convey("Given a settlement pipeline with a two level referral chain", t, func() {
		h := newTestHarness()
		h.parents[10] = 20
		h.parents[20] = 30

		Convey("A wallet funded purchase of 1000", func() {
			result, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				PackageName:   "gold",
				Amount:        amount(1000),
				PaymentMethod: model.PaymentMethodWallet,
				WalletAddress: "0xabc",
				ChainID:       "56",
			})
			So(err, ShouldBeNil)

			Convey("It should create a pending investment with the delivery schedule", func() {
				So(result.Investment.ID, ShouldNotEqual, 0)
				So(result.Investment.Status, ShouldEqual, model.InvestmentStatusPending)
				expected := time.Now().AddDate(0, 0, 180)
				So(result.Investment.NftDeliveryAt, ShouldHappenWithin, time.Minute, expected)
				So(result.Investment.RoiDeliveryAt, ShouldHappenWithin, time.Minute, expected)
			})

			Convey("It should fan out one commission per ancestor", func() {
				So(result.Commissions.Created, ShouldEqual, 2)
				So(result.Commissions.Errors, ShouldBeEmpty)
				So(result.Commissions.TotalStable.Cmp(amount(170)), ShouldEqual, 0)
				So(result.Commissions.TotalBonusUnits, ShouldEqual, 34)

				records := h.store.commissionsFor(result.Investment.ID)
				So(records, ShouldHaveLength, 2)
				for _, record := range records {
					So(record.Status, ShouldEqual, model.CommissionStatusPending)
				}
			})

			Convey("It should credit the ancestors as pending, not available", func() {
				So(h.store.pendingStable(20).Cmp(amount(120)), ShouldEqual, 0)
				So(h.store.available(20).Sign(), ShouldEqual, 0)
				So(h.store.pendingStable(30).Cmp(amount(50)), ShouldEqual, 0)
			})

			Convey("Confirming the investment", func() {
				investment, err := h.orchestrator.ConfirmInvestment(result.Investment.ID)
				So(err, ShouldBeNil)

				Convey("It should mature the commissions to available", func() {
					So(investment.Status, ShouldEqual, model.InvestmentStatusCompleted)
					So(h.store.pendingStable(20).Sign(), ShouldEqual, 0)
					So(h.store.available(20).Cmp(amount(120)), ShouldEqual, 0)
					for _, record := range h.store.commissionsFor(investment.ID) {
						So(record.Status, ShouldEqual, model.CommissionStatusConfirmed)
					}
				})

				Convey("Confirming it twice", func() {
					_, err := h.orchestrator.ConfirmInvestment(investment.ID)
					So(err, ShouldEqual, ErrInvestmentNotPending)
				})
			})

			Convey("Failing the investment", func() {
				investment, err := h.orchestrator.FailInvestment(result.Investment.ID)
				So(err, ShouldBeNil)

				Convey("It should reverse the earned commissions exactly", func() {
					So(investment.Status, ShouldEqual, model.InvestmentStatusFailed)
					So(h.store.pendingStable(20).Sign(), ShouldEqual, 0)
					So(h.store.pendingStable(30).Sign(), ShouldEqual, 0)
					for _, record := range h.store.commissionsFor(investment.ID) {
						So(record.Status, ShouldEqual, model.CommissionStatusVoided)
					}
				})
			})
		})

		Convey("A credit funded purchase with sufficient balance", func() {
			h.store.fund(10, amount(500))

			result, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				PackageName:   "silver",
				Amount:        amount(200),
				PaymentMethod: model.PaymentMethodCredits,
			})
			So(err, ShouldBeNil)

			Convey("It should settle instantly and debit the credits", func() {
				So(result.Investment.Status, ShouldEqual, model.InvestmentStatusCompleted)
				So(h.store.available(10).Cmp(amount(300)), ShouldEqual, 0)
			})
		})

		Convey("A credit funded purchase without enough credits", func() {
			h.store.fund(10, amount(100))

			_, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				PackageName:   "silver",
				Amount:        amount(200),
				PaymentMethod: model.PaymentMethodCredits,
			})

			Convey("It should roll the whole purchase back", func() {
				So(err, ShouldNotBeNil)
				So(h.store.investments, ShouldBeEmpty)
				So(h.store.available(10).Cmp(amount(100)), ShouldEqual, 0)
			})
		})

		Convey("A credit funded purchase where the investment insert fails", func() {
			h.store.fund(10, amount(500))
			h.store.failCreateInvestment = true

			_, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				PackageName:   "silver",
				Amount:        amount(200),
				PaymentMethod: model.PaymentMethodCredits,
			})

			Convey("It should leave the credits untouched", func() {
				So(err, ShouldEqual, errInvestmentInsertFailed)
				So(h.store.available(10).Cmp(amount(500)), ShouldEqual, 0)
				So(h.store.entries, ShouldBeEmpty)
			})
		})

		Convey("A commission insert failing at level two", func() {
			h.store.failCommissionLevel = 2

			result, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				PackageName:   "gold",
				Amount:        amount(1000),
				PaymentMethod: model.PaymentMethodWallet,
			})
			So(err, ShouldBeNil)

			Convey("It should keep the purchase and the level one commission", func() {
				So(result.Investment.Status, ShouldEqual, model.InvestmentStatusPending)
				So(result.Commissions.Created, ShouldEqual, 1)
				So(result.Commissions.Errors, ShouldHaveLength, 1)
				So(result.Commissions.Errors[0], ShouldContainSubstring, "level 2")

				records := h.store.commissionsFor(result.Investment.ID)
				So(records, ShouldHaveLength, 1)
				So(records[0].Level, ShouldEqual, model.CommissionLevel1)
				So(records[0].Status, ShouldEqual, model.CommissionStatusPending)
				So(h.store.pendingStable(20).Cmp(amount(120)), ShouldEqual, 0)
				So(h.store.pendingStable(30).Sign(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a purchase with validation problems", t, func() {
		h := newTestHarness()

		Convey("A zero amount", func() {
			_, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				Amount:        amount(0),
				PaymentMethod: model.PaymentMethodWallet,
			})
			So(err, ShouldEqual, ErrInvalidAmount)
		})

		Convey("An unknown payment method", func() {
			_, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				Amount:        amount(100),
				PaymentMethod: model.PaymentMethod("cheque"),
			})
			So(err, ShouldEqual, ErrInvalidPaymentMethod)
		})

		Convey("An amount outside the verification tier range", func() {
			h.tiers.tiers[10] = boundedTier(100, 1000)

			_, err := h.orchestrator.Settle(&SettleRequest{
				UserID:        10,
				Amount:        amount(5000),
				PaymentMethod: model.PaymentMethodWallet,
			})

			Convey("It should fail before anything is written", func() {
				So(err, ShouldEqual, ErrAmountOutOfRange)
				So(h.store.investments, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a purchase carrying a referral session token", t, func() {
		h := newTestHarness()
		h.sessions.tokens["tok-1"] = 20

		result, err := h.orchestrator.Settle(&SettleRequest{
			UserID:               10,
			PackageName:          "gold",
			Amount:               amount(100),
			PaymentMethod:        model.PaymentMethodWallet,
			ReferralSessionToken: "tok-1",
		})
		So(err, ShouldBeNil)

		Convey("It should establish the relationship and credit the sponsor", func() {
			So(h.parents[10], ShouldEqual, 20)
			So(result.Commissions.Created, ShouldEqual, 1)
			So(h.store.pendingStable(20).Cmp(amount(12)), ShouldEqual, 0)
		})

		Convey("It should consume the session token", func() {
			So(h.sessions.invalidated, ShouldContain, "tok-1")
		})
	})
}
