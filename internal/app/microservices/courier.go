package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yasir870/khobzak-delivery-system/config"
	httpserver "github.com/yasir870/khobzak-delivery-system/internal/adapter/http/server"
	wshandler "github.com/yasir870/khobzak-delivery-system/internal/adapter/http/ws"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/locationiq"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/postgres"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/rabbit"
	redisadapter "github.com/yasir870/khobzak-delivery-system/internal/adapter/redis"
	"github.com/yasir870/khobzak-delivery-system/internal/service/courier"
	"github.com/yasir870/khobzak-delivery-system/internal/service/location"
	"github.com/yasir870/khobzak-delivery-system/internal/service/order"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	postgresclient "github.com/yasir870/khobzak-delivery-system/pkg/postgres"
	rabbitclient "github.com/yasir870/khobzak-delivery-system/pkg/rabbit"
	redisclient "github.com/yasir870/khobzak-delivery-system/pkg/redis"
	"github.com/yasir870/khobzak-delivery-system/pkg/trm"
)

// CourierService is the courier-facing instance: shift management,
// the order feed with accept/reject/depart/deliver actions, and the
// realtime location ingest pipeline.
type CourierService struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbitclient.RabbitMQ
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func NewCourier(ctx context.Context, cfg config.Config, log logger.Logger) (*CourierService, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	rabbitMQ, err := rabbitclient.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "failed to setup rabbitmq", err)
		return nil, err
	}
	if err := rabbit.DeclareTopology(rabbitMQ); err != nil {
		log.Error(ctx, "failed to declare rabbitmq topology", err)
		return nil, err
	}

	redisClient, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		log.Error(ctx, "failed to setup redis", err)
		return nil, err
	}

	// repositories
	orderRepo := postgres.NewOrderRepo(db.Pool)
	eventRepo := postgres.NewOrderEventRepo(db.Pool)
	courierRepo := postgres.NewCourierRepo(db.Pool)
	locationRepo := postgres.NewCourierLocationRepo(db.Pool)
	locationCache := redisadapter.NewLocationCache(redisClient)

	// messaging
	producer := rabbit.NewProducer(rabbitMQ, string(cfg.Mode))

	// services
	geocoder := locationiq.New(cfg.ExternalAPI.LocationIQapiKey)
	txManager := trm.New(db.Pool)
	orderSvc := order.New(orderRepo, eventRepo, courierRepo, geocoder, producer, txManager, log)

	locationSvc := location.NewService(locationRepo, locationCache, producer, log)
	locationIngest := location.NewIngest(locationSvc, string(cfg.Mode), log)
	courierSvc := courier.New(courierRepo, locationSvc, locationCache, geocoder, producer, log)

	authSvc := newAuthService(db.Pool, cfg, log)

	// websocket handlers
	courierStream := wshandler.NewCourierWS(locationSvc, string(cfg.Mode), log)

	server, err := httpserver.New(cfg, httpserver.Deps{
		Auth:          authSvc,
		Order:         orderSvc,
		Courier:       courierSvc,
		Ingest:        locationIngest,
		CourierStream: courierStream,
	}, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	return &CourierService{
		postgresDB: db,
		rabbitMQ:   rabbitMQ,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *CourierService) Start(ctx context.Context) error {
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "courier service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "courier service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (s *CourierService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	if err := s.rabbitMQ.Close(ctx); err != nil {
		s.log.Warn(ctx, "failed to close rabbitmq connection", "error", err.Error())
	}

	s.postgresDB.Pool.Close()
}
