package crons

import (
	"github.com/rs/zerolog/log"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service"
)

// CronExpireStaleClaims moves pending payment claims past the review deadline
// into the expired status so they stop counting against the reviewer queue
func CronExpireStaleClaims(srv *service.Service) {
	logger := log.With().
		Str("section", "crons").
		Str("method", "CronExpireStaleClaims").
		Logger()

	expired, err := srv.ExpireStaleClaims()
	if err != nil {
		logger.Error().Err(err).Msg("Unable to expire stale payment claims")
		return
	}
	if expired > 0 {
		logger.Info().Int64("expired", expired).Msg("Expired stale payment claims")
	}
}
