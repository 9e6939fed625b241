package wshandler

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/ws/dto"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/service/location"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CourierWS ingests the courier app's position stream. Each connection
// gets its own sampler, so the publish throttle is per courier and
// survives for the lifetime of the connection.
type CourierWS struct {
	publisher   location.Publisher
	serviceName string
	l           logger.Logger
}

func NewCourierWS(publisher location.Publisher, serviceName string, l logger.Logger) *CourierWS {
	return &CourierWS{
		publisher:   publisher,
		serviceName: serviceName,
		l:           l,
	}
}

// HandleWS upgrades the connection and pumps incoming location messages
// through the throttling sampler. The courier identity comes from the
// authenticated user, not the URL, so a courier can only ever publish
// its own positions.
func (h *CourierWS) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "courier_location_ws")
	user := models.UserFromContext(ctx)

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

	stream := newConnStream()
	sampler := location.NewSampler(stream, h.publisher, h.serviceName, h.l)

	sendErr := func(err error) {
		frame := dto.ErrorFrame{Type: "error", Error: err.Error()}
		if werr := conn.WriteJSON(frame); werr != nil {
			h.l.Warn(ctx, "failed to send error frame", "error", werr.Error())
		}
	}

	if err := sampler.Start(ctx, user.ID, nil, sendErr); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start location sampler", err)
		sendErr(err)
		return
	}
	defer sampler.Stop()

	h.l.Info(ctx, "courier location stream opened", "courier_id", user.ID)

	for {
		var msg dto.LocationMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.l.Warn(ctx, "courier location stream closed unexpectedly", "error", err.Error())
			}
			return
		}

		if !msg.Valid() {
			sendErr(errInvalidCoordinates)
			continue
		}

		sampler.SetOrder(msg.OrderID)
		stream.emit(msg.ToSample())
	}
}

// connStream adapts the WebSocket read loop to the sampler's provider
// interface: emit feeds one parsed sample to the registered callback.
type connStream struct {
	mu       sync.Mutex
	onSample func(models.LocationSample)
}

func newConnStream() *connStream {
	return &connStream{}
}

func (s *connStream) Watch(ctx context.Context, onSample func(models.LocationSample), onError func(error)) (func(), error) {
	s.mu.Lock()
	s.onSample = onSample
	s.mu.Unlock()

	stop := func() {
		s.mu.Lock()
		s.onSample = nil
		s.mu.Unlock()
	}
	return stop, nil
}

func (s *connStream) emit(sample models.LocationSample) {
	s.mu.Lock()
	fn := s.onSample
	s.mu.Unlock()

	if fn != nil {
		fn(sample)
	}
}
