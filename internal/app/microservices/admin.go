package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yasir870/khobzak-delivery-system/config"
	httpserver "github.com/yasir870/khobzak-delivery-system/internal/adapter/http/server"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/postgres"
	"github.com/yasir870/khobzak-delivery-system/internal/service/admin"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	postgresclient "github.com/yasir870/khobzak-delivery-system/pkg/postgres"
)

// AdminService is the oversight instance: system overview counters and
// the list of in-flight deliveries.
type AdminService struct {
	postgresDB *postgresclient.PostgreDB
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func NewAdmin(ctx context.Context, cfg config.Config, log logger.Logger) (*AdminService, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	adminRepo := postgres.NewAdminRepo(db.Pool)
	adminSvc := admin.NewAdminService(adminRepo, log)

	authSvc := newAuthService(db.Pool, cfg, log)

	server, err := httpserver.New(cfg, httpserver.Deps{
		Auth:  authSvc,
		Admin: adminSvc,
	}, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	return &AdminService{
		postgresDB: db,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *AdminService) Start(ctx context.Context) error {
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "admin service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "admin service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (s *AdminService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	s.postgresDB.Pool.Close()
}
