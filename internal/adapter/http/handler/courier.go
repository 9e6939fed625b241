package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/handler/dto"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

type Courier struct {
	service CourierService
	orders  OrderService
	ingest  LocationIngest
	l       logger.Logger
}

type CourierService interface {
	Get(ctx context.Context, courierID uuid.UUID) (*models.Courier, error)
	GoOnline(ctx context.Context, courierID uuid.UUID) error
	GoOffline(ctx context.Context, courierID uuid.UUID) error
	WhereAmI(ctx context.Context, courierID uuid.UUID) (models.Location, error)
}

// LocationIngest accepts posted GPS readings, applying the same
// per-courier throttle as the WebSocket stream.
type LocationIngest interface {
	Offer(ctx context.Context, courierID uuid.UUID, orderID *uuid.UUID, sample models.LocationSample) (bool, error)
}

func NewCourier(service CourierService, orders OrderService, ingest LocationIngest, l logger.Logger) *Courier {
	return &Courier{
		service: service,
		orders:  orders,
		ingest:  ingest,
		l:       l,
	}
}

func (h *Courier) GoOnline(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_courier_online")
	user := models.UserFromContext(ctx)

	if err := h.service.GoOnline(ctx, user.ID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set courier status to online", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"status":  "AVAILABLE",
		"message": "You are now online and will see new orders",
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "courier set to online successfully", "courier_id", user.ID)
}

func (h *Courier) GoOffline(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_courier_offline")
	user := models.UserFromContext(ctx)

	if err := h.service.GoOffline(ctx, user.ID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set courier status to offline", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"status":  "OFFLINE",
		"message": "You are now offline",
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "courier set to offline successfully", "courier_id", user.ID)
}

// UpdateLocation takes a single posted GPS reading. Readings arriving
// faster than the publish interval are acknowledged but dropped, the
// response says which happened so the device can back off.
func (h *Courier) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_courier_location")
	user := models.UserFromContext(ctx)

	var req dto.UpdateLocationRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	if errs := checkValid(&req); errs != nil {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, errs)
		return
	}

	accepted, err := h.ingest.Offer(ctx, user.ID, req.OrderID, req.ToSample())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish courier location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	status := "accepted"
	if !accepted {
		status = "throttled"
	}

	if err := writeJSON(w, http.StatusOK, envelope{"status": status}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

// WhereAmI echoes the courier's last published position with a display
// address, mirroring what customers see.
func (h *Courier) WhereAmI(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "courier_where_am_i")
	user := models.UserFromContext(ctx)

	loc, err := h.service.WhereAmI(ctx, user.ID)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"address":   loc.DisplayAddress(),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

// MyOrders lists the courier's assigned orders; ?active=true narrows to
// in-flight deliveries.
func (h *Courier) MyOrders(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_courier_orders")
	user := models.UserFromContext(ctx)

	active := r.URL.Query().Get("active") == "true"

	orders, err := h.orders.ListForCourier(ctx, user.ID, active)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"orders": orders, "count": len(orders)}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}
