package wshandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/ws/dto"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	ws "github.com/yasir870/khobzak-delivery-system/pkg/wsHub"
)

type OrderGetter interface {
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// NotifyWS keeps one connection per customer and pushes toast
// notifications when their orders change state. The realtime feed is
// best-effort on purpose: a disconnected customer simply refetches
// their orders on next load.
type NotifyWS struct {
	hub    *ws.ConnectionHub
	orders OrderGetter
	l      logger.Logger
}

func NewNotifyWS(hub *ws.ConnectionHub, orders OrderGetter, l logger.Logger) *NotifyWS {
	return &NotifyWS{
		hub:    hub,
		orders: orders,
		l:      l,
	}
}

func (h *NotifyWS) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "customer_notifications_ws")
	user := models.UserFromContext(ctx)

	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to upgrade websocket", err)
		return
	}

	conn := ws.NewConn(ctx, user.ID, raw)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register connection", err)
		_ = raw.Close()
		return
	}
	defer func() { _ = h.hub.Delete(user.ID) }()

	h.l.Info(ctx, "customer notification stream opened", "customer_id", user.ID)

	// Block until the peer disconnects; inbound frames are ignored.
	_ = conn.Listen(func(msg map[string]any) error { return nil })
}

// Run consumes the order status stream and fans toasts out to connected
// customers. Meant to run as a background goroutine per instance.
func (h *NotifyWS) Run(ctx context.Context, events <-chan models.OrderStatusUpdate) {
	ctx = wrap.WithAction(ctx, "order_toast_bridge")

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-events:
			if !ok {
				return
			}
			h.deliver(ctx, msg)
		}
	}
}

func (h *NotifyWS) deliver(ctx context.Context, msg models.OrderStatusUpdate) {
	order, err := h.orders.Get(ctx, msg.OrderID)
	if err != nil {
		h.l.Warn(ctx, "failed to resolve order for toast", "order_id", msg.OrderID, "error", err.Error())
		return
	}

	toast := dto.Toast{
		Type:    "toast",
		OrderID: msg.OrderID,
		Status:  msg.Status,
		Message: toastMessage(msg.Status),
	}

	if err := h.hub.SendTo(order.CustomerID, toast); err != nil {
		if !errors.Is(err, ws.ErrConnIsNotFound) {
			h.l.Warn(ctx, "failed to push toast", "customer_id", order.CustomerID, "error", err.Error())
		}
	}
}

func toastMessage(status types.OrderStatus) string {
	switch status {
	case types.StatusAccepted:
		return "A courier accepted your order and is heading to the bakery."
	case types.StatusRejected:
		return "Your order was declined. Please try again."
	case types.StatusOnTheWay:
		return "Your bread is on the way. Tap to track it live."
	case types.StatusDelivered:
		return "Your order was delivered. Enjoy!"
	case types.StatusReceived:
		return "Thanks for confirming your delivery."
	default:
		return "Your order status changed."
	}
}
