package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yasir870/khobzak-delivery-system/config"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/handler"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/middleware"
	wshandler "github.com/yasir870/khobzak-delivery-system/internal/adapter/http/ws"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

// Deps carries the mode-specific services a server instance can expose.
// Only the ones relevant to the configured mode are required.
type Deps struct {
	Auth    handler.AuthService
	Order   handler.OrderService
	Courier handler.CourierService
	Admin   handler.AdminService
	Ingest  handler.LocationIngest

	Tracking handler.TrackingService

	CourierStream *wshandler.CourierWS
	TrackingWS    *wshandler.TrackingWS
	NotifyWS      *wshandler.NotifyWS
}

type API struct {
	mode   types.ServiceMode
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	order   *handler.Order
	courier *handler.Courier
	admin   *handler.Admin
	auth    *handler.Auth

	courierStream *wshandler.CourierWS
	trackingWS    *wshandler.TrackingWS
	notifyWS      *wshandler.NotifyWS
}

func New(cfg config.Config, deps Deps, log logger.Logger) (*API, error) {
	var addr string
	routes := &handlers{
		health: handler.NewHealth(string(cfg.Mode)),
	}

	if deps.Auth == nil {
		return nil, errors.New("auth service is required")
	}

	switch cfg.Mode {
	case types.OrderService:
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.OrderService)
		routes.order = handler.NewOrder(deps.Order, deps.Tracking, log)
		routes.trackingWS = deps.TrackingWS
		routes.notifyWS = deps.NotifyWS
	case types.CourierService:
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.CourierService)
		routes.order = handler.NewOrder(deps.Order, deps.Tracking, log)
		routes.courier = handler.NewCourier(deps.Courier, deps.Order, deps.Ingest, log)
		routes.courierStream = deps.CourierStream
	case types.AdminService:
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.AdminService)
		routes.admin = handler.NewAdmin(deps.Admin, log)
	case types.AuthService:
		addr = fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Services.AuthService)
		routes.auth = handler.NewAuth(deps.Auth, log)
	default:
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	mid := middleware.NewMiddleware(deps.Auth, log)

	api := &API{
		mode:   cfg.Mode,
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes, api.m, api.mode)

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies the shared middleware chain to the mux.
func (a *API) withMiddleware() http.Handler {
	metrics := a.m.Metrics(string(a.mode))
	return a.m.Recover(a.m.RequestID(a.m.Logging(metrics(a.m.Auth(a.mux)))))
}
