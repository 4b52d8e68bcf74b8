package actions

import (
	"context"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service"
)

// Actions structure
type Actions struct {
	ctx     context.Context
	cfg     config.Config
	service *service.Service
}

// NewActions constructor
func NewActions(cfg config.Config, srv *service.Service, ctx context.Context) *Actions {
	return &Actions{
		ctx:     ctx,
		cfg:     cfg,
		service: srv,
	}
}
