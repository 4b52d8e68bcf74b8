package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/actions"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/config"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/crons"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/featureflags"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/monitor"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/service"
)

// Server interface
type Server interface {
	Listen()
}

type server struct {
	config  config.Config
	actions *actions.Actions
	service *service.Service
	ctx     context.Context
	close   context.CancelFunc
	HTTP    *http.Server
}

// NewServer constructor
func NewServer(cfg config.Config) Server {
	ctx, close := context.WithCancel(context.Background())

	settlementService, err := service.NewService(cfg)
	if err != nil {
		log.Fatal().Str("section", "server").Err(err).Msg("Unable to init services")
	}

	userActions := actions.NewActions(cfg, settlementService, ctx)

	crons.Start(cfg.Crons, settlementService)

	return &server{
		config:  cfg,
		service: settlementService,
		actions: userActions,
		ctx:     ctx,
		close:   close,
	}
}

// Listen for incoming API requests and process them until a termination signal
func (srv *server) Listen() {
	go srv.ListenToRequests()
	go monitor.LoopMetricsServer(srv.config.Server.Monitoring)

	srv.stopOnSignal()
}

func (srv *server) stopOnSignal() {
	// listen for termination signals
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc

	log.Info().Str("section", "server").Str("app_event", "terminate").Str("signal", sig.String()).Msg("Shutting down services")
	srv.closeApp(5 * time.Second)
}

func (srv *server) closeApp(timeout time.Duration) {
	// define a timeout in which the graceful shutdown procedure should happen before forcing the shutdown
	timeoutFunc := time.AfterFunc(timeout, func() {
		log.Printf("timeout %d ms has been elapsed, force exit", timeout.Milliseconds())
		os.Exit(0)
	})
	defer timeoutFunc.Stop()

	monitor.ShutdownServer()
	if err := srv.HTTP.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Str("section", "server").Str("action", "terminate").Msg("Unable to shutdown HTTP server")
	}

	crons.Close()

	srv.close()
	srv.service.Close()

	featureflags.Close()

	log.Info().Str("section", "server").Str("app_event", "terminate").Str("state", "complete").Msg("All workers terminated")
}
