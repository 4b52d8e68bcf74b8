package crons

import (
	"github.com/robfig/cron"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service"
)

var cronService *cron.Cron

// Start Initiate the crons based on the given configuration file
func Start(crons config.Crons, srv *service.Service) {
	cronService = cron.New()
	for id, schedule := range crons {
		callback := GetCronByID(id, srv)
		_ = cronService.AddFunc(schedule, callback)
	}
	cronService.Start()
}

// GetCronByID get a function to execute based on the id
func GetCronByID(id string, srv *service.Service) func() {
	switch id {
	case "expire_claims":
		return func() {
			CronExpireStaleClaims(srv)
		}
	}
	return (func() {})
}

// Close godoc
func Close() {
	if cronService != nil {
		cronService.Stop()
	}
}
