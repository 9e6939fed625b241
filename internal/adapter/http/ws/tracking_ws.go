package wshandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/ws/dto"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
)

type TrackingStreamer interface {
	Stream(ctx context.Context, orderID uuid.UUID, viewer *models.User, send func(models.TrackingSnapshot) error) error
}

// TrackingWS streams live tracking snapshots for one order to its viewer.
type TrackingWS struct {
	tracking    TrackingStreamer
	serviceName string
	l           logger.Logger
}

func NewTrackingWS(tracking TrackingStreamer, serviceName string, l logger.Logger) *TrackingWS {
	return &TrackingWS{
		tracking:    tracking,
		serviceName: serviceName,
		l:           l,
	}
}

func (h *TrackingWS) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "tracking_ws")
	user := models.UserFromContext(ctx)

	orderID, err := uuid.Parse(r.PathValue("order_id"))
	if err != nil {
		http.Error(w, "invalid order_id uuid format", http.StatusBadRequest)
		return
	}
	ctx = wrap.WithOrderID(ctx, orderID.String())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to upgrade websocket", err)
		return
	}
	defer conn.Close()

	metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Inc()
	defer metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Dec()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The read pump only notices the client going away; viewers never
	// send meaningful frames.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(snap models.TrackingSnapshot) error {
		return conn.WriteJSON(dto.TrackingFrame{Type: "tracking", Tracking: snap})
	}

	if err := h.tracking.Stream(ctx, orderID, user, send); err != nil && !errors.Is(err, context.Canceled) {
		h.l.Warn(ctx, "tracking stream ended with error", "error", err.Error())

		frame := dto.ErrorFrame{Type: "error", Error: err.Error()}
		_ = conn.WriteJSON(frame)
		return
	}

	h.l.Info(ctx, "tracking stream closed")
}
