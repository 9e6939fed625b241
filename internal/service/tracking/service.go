package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
)

/*
Service is the customer-facing tracking view. It decides whether an order
may be tracked at all, composes the one-shot snapshot for the initial map
render, and runs live sessions fed by the realtime streams.
*/
type Service struct {
	orders    OrderRepository
	locations LocationFetcher
	events    EventSource
	calc      RouteCalculator
	l         logger.Logger
}

func New(orders OrderRepository, locations LocationFetcher, events EventSource, calc RouteCalculator, l logger.Logger) *Service {
	return &Service{
		orders:    orders,
		locations: locations,
		events:    events,
		calc:      calc,
		l:         l,
	}
}

// resolve loads the order and applies the tracking guard. The guard runs
// before any location lookup: an untrackable order never costs a cache or
// store roundtrip, and callers get the precise reason.
//
// No courier assigned wins over wrong state, so a PENDING order reports
// "no courier yet" rather than the generic untrackable error.
func (s *Service) resolve(ctx context.Context, orderID uuid.UUID, viewer *models.User) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to get order: %w", err))
	}

	if !canView(order, viewer) {
		// Hide existence of other customers' orders.
		return nil, types.ErrOrderNotFound
	}

	if order.CourierID == nil {
		return nil, types.ErrCourierNotAssigned
	}
	if !order.Status.IsTrackable() {
		return nil, fmt.Errorf("%w: %s", types.ErrNotTrackableInState, order.Status)
	}

	return order, nil
}

func canView(order *models.Order, viewer *models.User) bool {
	if viewer == nil || viewer.IsAnonymous() {
		return false
	}
	switch viewer.Role {
	case types.RoleAdmin:
		return true
	case types.RoleCourier:
		return order.CourierID != nil && *order.CourierID == viewer.ID
	default:
		return order.CustomerID == viewer.ID
	}
}

// Snapshot returns the current tracking state for the initial map render:
// latest courier position, route to destination and display texts.
// Returns types.ErrLocationNotAvailable when the courier has not yet
// published a position.
func (s *Service) Snapshot(ctx context.Context, orderID uuid.UUID, viewer *models.User) (models.TrackingSnapshot, error) {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "tracking_snapshot")

	order, err := s.resolve(ctx, orderID, viewer)
	if err != nil {
		return models.TrackingSnapshot{}, err
	}

	loc, err := s.locations.FetchLatest(ctx, *order.CourierID)
	if err != nil {
		if errors.Is(err, types.ErrLocationNotAvailable) {
			return models.TrackingSnapshot{}, types.ErrLocationNotAvailable
		}
		return models.TrackingSnapshot{}, wrap.Error(ctx, fmt.Errorf("failed to fetch courier location: %w", err))
	}

	session := NewSession(order, s.calc)
	session.Seed(loc)

	snap, _ := session.Snapshot(ctx)
	return snap, nil
}

// Stream runs a live tracking session until the context is cancelled or
// the order reaches a terminal status. Every state change produces a
// fresh snapshot through send; a send error ends the session.
//
// The initial position is seeded from FetchLatest after the streams are
// attached, so no update published in between is lost. A courier that has
// not published yet is not an error here: the session simply starts
// emitting once the first message arrives.
func (s *Service) Stream(ctx context.Context, orderID uuid.UUID, viewer *models.User, send func(models.TrackingSnapshot) error) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "tracking_stream")

	order, err := s.resolve(ctx, orderID, viewer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	locCh, err := s.events.SubscribeCourierLocation(ctx, *order.CourierID)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to subscribe to courier locations: %w", err))
	}
	statusCh, err := s.events.SubscribeOrderStatus(ctx, orderID)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to subscribe to order status: %w", err))
	}

	session := NewSession(order, s.calc)

	if loc, err := s.locations.FetchLatest(ctx, *order.CourierID); err == nil {
		session.Seed(loc)
	} else if !errors.Is(err, types.ErrLocationNotAvailable) {
		s.l.Warn(ctx, "failed to seed tracking session", "error", err.Error())
	}

	gauge := metrics.TrackableOrdersGauge.WithLabelValues(string(types.OrderService))
	gauge.Inc()
	defer gauge.Dec()

	emit := func() error {
		snap, ok := session.Snapshot(ctx)
		if !ok {
			return nil
		}
		return send(snap)
	}

	if err := emit(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-locCh:
			if !ok {
				return nil
			}
			if !session.ApplyLocation(msg) {
				continue
			}
			if err := emit(); err != nil {
				return err
			}

		case msg, ok := <-statusCh:
			if !ok {
				return nil
			}
			if !session.ApplyStatus(msg) {
				continue
			}
			if err := emit(); err != nil {
				return err
			}
			if session.Terminal() {
				s.l.Info(ctx, "tracking session finished", "status", msg.Status)
				return nil
			}
		}
	}
}
