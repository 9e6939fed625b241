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

type Order struct {
	service  OrderService
	tracking TrackingService
	l        logger.Logger
}

type OrderService interface {
	Create(ctx context.Context, order *models.Order) error
	Accept(ctx context.Context, orderID, courierID uuid.UUID) error
	Reject(ctx context.Context, orderID, courierID uuid.UUID) error
	Depart(ctx context.Context, orderID, courierID uuid.UUID) error
	Deliver(ctx context.Context, orderID, courierID uuid.UUID) error
	ConfirmReceipt(ctx context.Context, orderID, customerID uuid.UUID) error
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListPending(ctx context.Context) ([]models.OrderSummary, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderSummary, error)
	ListForCourier(ctx context.Context, courierID uuid.UUID, active bool) ([]models.OrderSummary, error)
}

type TrackingService interface {
	Snapshot(ctx context.Context, orderID uuid.UUID, viewer *models.User) (models.TrackingSnapshot, error)
	Stream(ctx context.Context, orderID uuid.UUID, viewer *models.User, send func(models.TrackingSnapshot) error) error
}

func NewOrder(service OrderService, tracking TrackingService, l logger.Logger) *Order {
	return &Order{
		service:  service,
		tracking: tracking,
		l:        l,
	}
}

func (h *Order) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_order")
	user := models.UserFromContext(ctx)

	var req dto.CreateOrderRequest
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

	order := req.ToModel(user.ID)
	if err := h.service.Create(ctx, order); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create order", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
	}

	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "order created successfully", "order_id", order.ID)
}

func (h *Order) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_order")

	orderID, ok := pathUUID(w, r, "order_id")
	if !ok {
		return
	}

	order, err := h.service.Get(ctx, orderID)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"order": order}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

// ListMine returns the authenticated customer's orders.
func (h *Order) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_customer_orders")
	user := models.UserFromContext(ctx)

	orders, err := h.service.ListForCustomer(ctx, user.ID)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"orders": orders, "count": len(orders)}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

// Feed returns the open orders an online courier can pick from.
func (h *Order) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "pending_orders_feed")

	orders, err := h.service.ListPending(ctx)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"orders": orders, "count": len(orders)}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

func (h *Order) Accept(w http.ResponseWriter, r *http.Request) {
	h.courierAction(w, r, "accept_order", h.service.Accept, "Order accepted. Time to pick up the bread.")
}

func (h *Order) Reject(w http.ResponseWriter, r *http.Request) {
	h.courierAction(w, r, "reject_order", h.service.Reject, "Order rejected.")
}

func (h *Order) Depart(w http.ResponseWriter, r *http.Request) {
	h.courierAction(w, r, "depart_order", h.service.Depart, "On the way. Customer can now track you live.")
}

func (h *Order) Deliver(w http.ResponseWriter, r *http.Request) {
	h.courierAction(w, r, "deliver_order", h.service.Deliver, "Delivery completed.")
}

// ConfirmReceipt is the customer-side confirmation of an on-the-way order.
func (h *Order) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "confirm_receipt")
	user := models.UserFromContext(ctx)

	orderID, ok := pathUUID(w, r, "order_id")
	if !ok {
		return
	}

	if err := h.service.ConfirmReceipt(ctx, orderID, user.ID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to confirm receipt", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "Receipt confirmed. Enjoy your bread."}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

// TrackingSnapshot serves the initial map render for a tracked order.
func (h *Order) TrackingSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "tracking_snapshot")
	user := models.UserFromContext(ctx)

	orderID, ok := pathUUID(w, r, "order_id")
	if !ok {
		return
	}

	snap, err := h.tracking.Snapshot(ctx, orderID, user)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"tracking": snap}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

func (h *Order) courierAction(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, orderID, courierID uuid.UUID) error, message string) {
	ctx := wrap.WithAction(r.Context(), action)
	user := models.UserFromContext(ctx)

	orderID, ok := pathUUID(w, r, "order_id")
	if !ok {
		return
	}

	if err := fn(ctx, orderID, user.ID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "order action failed", err, "order_id", orderID)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"order_id": orderID, "message": message}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

// pathUUID parses a UUID path segment, responding with 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		badRequestResponse(w, "invalid "+name+" uuid format")
		return uuid.Nil, false
	}
	return id, true
}
