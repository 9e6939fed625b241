package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/internal/service/route"
)

// Session is the per-viewer state of one tracked order. It absorbs the
// realtime streams, which are at-least-once and unordered, and keeps only
// the newest state: an update older than (or equal to) what the session
// already holds is dropped, so duplicate delivery of the same message is
// a no-op and a replayed stale position never moves the marker backwards.
type Session struct {
	mu sync.Mutex

	orderID     uuid.UUID
	destination models.Location
	calc        RouteCalculator

	status   types.OrderStatus
	statusAt time.Time

	courier     models.CourierLocation
	hasLocation bool
}

func NewSession(order *models.Order, calc RouteCalculator) *Session {
	s := &Session{
		orderID: order.ID,
		calc:    calc,
		status:  order.Status,
	}
	if order.Destination != nil {
		s.destination = *order.Destination
	}
	return s
}

// Seed installs the initial courier position fetched before the streams
// were attached. It goes through the same staleness check as live
// updates, so a fresher streamed position that raced ahead wins.
func (s *Session) Seed(loc models.CourierLocation) bool {
	return s.ApplyLocation(models.CourierLocationUpdate{
		CourierID:      loc.CourierID,
		OrderID:        loc.OrderID,
		Latitude:       loc.Latitude,
		Longitude:      loc.Longitude,
		HeadingDegrees: loc.HeadingDegrees,
		SpeedKmh:       loc.SpeedKmh,
		AccuracyMeters: loc.AccuracyMeters,
		UpdatedAt:      loc.UpdatedAt,
	})
}

// ApplyLocation merges one location message, last write wins by update
// timestamp. Reports whether the session state changed.
func (s *Session) ApplyLocation(msg models.CourierLocationUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasLocation && !msg.UpdatedAt.After(s.courier.UpdatedAt) {
		return false
	}

	s.courier = msg.ToCourierLocation()
	s.hasLocation = true
	return true
}

// ApplyStatus merges one order status message with the same staleness
// discipline as locations.
func (s *Session) ApplyStatus(msg models.OrderStatusUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.statusAt.IsZero() && !msg.Timestamp.After(s.statusAt) {
		return false
	}

	s.status = msg.Status
	s.statusAt = msg.Timestamp
	return true
}

// Terminal reports whether the session reached a final order status and
// the stream should be closed.
func (s *Session) Terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.IsTerminal()
}

// Snapshot derives the current map-view state. It recomputes the route
// from the held position, so the returned distance/duration always match
// the marker. Reports false while no position has arrived yet.
func (s *Session) Snapshot(ctx context.Context) (models.TrackingSnapshot, bool) {
	s.mu.Lock()
	courier := s.courier
	status := s.status
	has := s.hasLocation
	dest := s.destination
	s.mu.Unlock()

	if !has {
		return models.TrackingSnapshot{}, false
	}

	origin := models.Location{Latitude: courier.Latitude, Longitude: courier.Longitude}
	r := s.calc.ComputeRoute(ctx, origin, dest)

	return models.TrackingSnapshot{
		OrderID:      s.orderID,
		Status:       status,
		Courier:      courier,
		Destination:  dest,
		Route:        r,
		DistanceText: route.FormatDistance(r.DistanceMeters),
		DurationText: route.FormatDuration(r.DurationSeconds),
	}, true
}
