package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/middleware"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware, mode types.ServiceMode) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	setupMetricsRoute(mux)

	switch mode {
	case types.OrderService:
		setupOrderRoutes(mux, routes, m)
	case types.CourierService:
		setupCourierRoutes(mux, routes, m)
	case types.AdminService:
		setupAdminRoutes(mux, routes, m)
	case types.AuthService:
		setupAuthRoutes(mux, routes)
	}
}

// setupOrderRoutes setups routes for the customer-facing order service
func setupOrderRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /orders", m.RequireRoles(routes.order.Create, types.RoleCustomer))                           // Place a new order
	mux.Handle("GET /orders", m.RequireRoles(routes.order.ListMine, types.RoleCustomer))                          // List own orders
	mux.Handle("GET /orders/{order_id}", m.RequireRoles(routes.order.Get, types.RoleCustomer, types.RoleAdmin))   // Order details
	mux.Handle("POST /orders/{order_id}/received", m.RequireRoles(routes.order.ConfirmReceipt, types.RoleCustomer)) // Confirm hand-off

	mux.Handle("GET /orders/{order_id}/tracking", m.RequireRoles(routes.order.TrackingSnapshot, types.RoleCustomer, types.RoleCourier, types.RoleAdmin)) // One-shot tracking snapshot
	mux.Handle("GET /ws/orders/{order_id}/tracking", m.RequireRoles(routes.trackingWS.HandleWS, types.RoleCustomer, types.RoleCourier, types.RoleAdmin)) // Live tracking stream
	mux.Handle("GET /ws/customers", m.RequireRoles(routes.notifyWS.HandleWS, types.RoleCustomer))                                                        // Order status toasts
}

// setupCourierRoutes setups routes for the courier service
func setupCourierRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /orders/feed", m.RequireRoles(routes.order.Feed, types.RoleCourier))                     // Pending orders up for grabs
	mux.Handle("POST /orders/{order_id}/accept", m.RequireRoles(routes.order.Accept, types.RoleCourier))     // Claim a pending order
	mux.Handle("POST /orders/{order_id}/reject", m.RequireRoles(routes.order.Reject, types.RoleCourier))     // Decline a pending order
	mux.Handle("POST /orders/{order_id}/depart", m.RequireRoles(routes.order.Depart, types.RoleCourier))     // Picked up, heading out
	mux.Handle("POST /orders/{order_id}/deliver", m.RequireRoles(routes.order.Deliver, types.RoleCourier))   // Dropped off

	mux.Handle("POST /couriers/online", m.RequireRoles(routes.courier.GoOnline, types.RoleCourier))   // Courier starts a shift
	mux.Handle("POST /couriers/offline", m.RequireRoles(routes.courier.GoOffline, types.RoleCourier)) // Courier ends a shift
	mux.Handle("POST /couriers/location", m.RequireRoles(routes.courier.UpdateLocation, types.RoleCourier)) // One-shot location ingest
	mux.Handle("GET /couriers/me/location", m.RequireRoles(routes.courier.WhereAmI, types.RoleCourier))
	mux.Handle("GET /couriers/me/orders", m.RequireRoles(routes.courier.MyOrders, types.RoleCourier))

	mux.Handle("GET /ws/couriers", m.RequireRoles(routes.courierStream.HandleWS, types.RoleCourier)) // Location ingest stream
}

// setupAdminRoutes setups routes for admin service
func setupAdminRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /admin/overview", m.RequireRoles(routes.admin.GetOverview, types.RoleAdmin))                  // System metrics overview
	mux.Handle("GET /admin/deliveries/active", m.RequireRoles(routes.admin.GetActiveDeliveries, types.RoleAdmin)) // In-flight deliveries
}

func setupAuthRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("POST /auth/register", routes.auth.Register)
	mux.HandleFunc("POST /auth/login", routes.auth.Login)
	mux.HandleFunc("POST /auth/refresh", routes.auth.Refresh)
	mux.HandleFunc("GET /auth/me", routes.auth.Profile)
}

// setupMetricsRoute exposes Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
