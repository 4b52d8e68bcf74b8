package queries

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog/log"
	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
)

func setupDB() (*gorm.DB, sqlmock.Sqlmock) {
	logger := log.With().Str("test", "queries").Str("method", "setupDB").Logger()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		logger.Fatal().Msgf("can't create sqlmock: %s", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "postgres-mock",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Fatal().Msgf("can't open gorm connection: %s", err)
	}

	return gormDB, mock
}

func setupRepo() (*Repo, sqlmock.Sqlmock) {
	db, mock := setupDB()
	return &Repo{
		Conn:       db,
		ConnReader: db,
	}, mock
}

func TestActiveReferrerOf(t *testing.T) {
	Convey("Given a user with an active sponsor", t, func() {
		repo, mock := setupRepo()
		mock.ExpectQuery("SELECT * FROM \"referral_relationships\" WHERE referred_id = $1 AND status = $2 ORDER BY \"referral_relationships\".\"id\" LIMIT 1").
			WithArgs(10, model.ReferralStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referred_id", "source", "status", "created_at"}).
				AddRow(1, 20, 10, "session", "active", time.Now()))

		referrerID, found, err := repo.ActiveReferrerOf(10)

		Convey("It should return the sponsor id", func() {
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(referrerID, ShouldEqual, 20)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})

	Convey("Given a user without a sponsor", t, func() {
		repo, mock := setupRepo()
		mock.ExpectQuery("SELECT * FROM \"referral_relationships\" WHERE referred_id = $1 AND status = $2 ORDER BY \"referral_relationships\".\"id\" LIMIT 1").
			WithArgs(11, model.ReferralStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referred_id", "source", "status", "created_at"}))

		referrerID, found, err := repo.ActiveReferrerOf(11)

		Convey("It should report not found without an error", func() {
			So(err, ShouldBeNil)
			So(found, ShouldBeFalse)
			So(referrerID, ShouldEqual, 0)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}

func TestGetUserVerificationTier(t *testing.T) {
	Convey("Given a user with a verification tier", t, func() {
		repo, mock := setupRepo()
		mock.ExpectQuery("SELECT \"verification_tier\" FROM \"users\" WHERE id = $1 ORDER BY \"users\".\"id\" LIMIT 1").
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows([]string{"verification_tier"}).AddRow("gold"))

		tier, err := repo.GetUserVerificationTier(42)

		Convey("It should return the tier name", func() {
			So(err, ShouldBeNil)
			So(tier, ShouldEqual, "gold")
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}

func TestLastClaimAt(t *testing.T) {
	Convey("Given a repo with a split writer and reader", t, func() {
		writerDB, writerMock := setupDB()
		readerDB, _ := setupDB()
		repo := &Repo{Conn: writerDB, ConnReader: readerDB}

		submitted := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		writerMock.ExpectQuery("SELECT * FROM \"payment_claims\" WHERE user_id = $1 ORDER BY submitted_at DESC,\"payment_claims\".\"id\" LIMIT 1").
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "submitted_at"}).
				AddRow(3, 10, submitted))

		lastAt, found, err := repo.LastClaimAt(10)

		Convey("It should read the cooldown state from the writer, not a replica", func() {
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(lastAt.Equal(submitted), ShouldBeTrue)
			So(writerMock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}

func TestGetDirectReferrals(t *testing.T) {
	Convey("Given a referrer on the second page of referrals", t, func() {
		repo, mock := setupRepo()
		mock.ExpectQuery("SELECT * FROM \"referral_relationships\" WHERE referrer_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 10 OFFSET 10").
			WithArgs(20, model.ReferralStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referred_id", "source", "status", "created_at"}).
				AddRow(12, 20, 31, "session", "active", time.Now()).
				AddRow(11, 20, 30, "import", "active", time.Now()))

		rels, err := repo.GetDirectReferrals(20, 10, 2)

		Convey("It should return the page of relationships", func() {
			So(err, ShouldBeNil)
			So(rels, ShouldHaveLength, 2)
			So(rels[0].ReferredID, ShouldEqual, 31)
			So(rels[1].Source, ShouldEqual, model.ReferralSourceImport)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}
