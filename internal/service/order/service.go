package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	"github.com/yasir870/khobzak-delivery-system/pkg/trm"
)

/*
Service owns the order lifecycle: creation at checkout, the courier's
accept/reject/depart/deliver actions and the customer's receipt
confirmation. Every transition is validated against the state machine,
recorded in order_events and fanned out to subscribers.
*/
type Service struct {
	repos     repos
	publisher Publisher
	geocoder  GeoCoder
	trm       trm.TxManager
	l         logger.Logger
}

type repos struct {
	order   Repository
	event   EventRepository
	courier CourierRepository
}

func New(orderRepo Repository, eventRepo EventRepository, courierRepo CourierRepository, geocoder GeoCoder, publisher Publisher, trm trm.TxManager, l logger.Logger) *Service {
	return &Service{
		repos: repos{
			order:   orderRepo,
			event:   eventRepo,
			courier: courierRepo,
		},
		publisher: publisher,
		geocoder:  geocoder,
		trm:       trm,
		l:         l,
	}
}

// Create registers a checkout order in PENDING state and resolves the
// destination coordinates: embedded "(lat, lng)" in the address wins,
// otherwise forward geocoding is attempted. An unresolvable destination
// is not fatal, the order just cannot offer live tracking until a courier
// app reports it.
func (s *Service) Create(ctx context.Context, order *models.Order) error {
	ctx = wrap.WithOrderID(ctx, order.ID.String())

	order.Status = types.StatusPending
	order.CourierID = nil
	order.CreatedAt = time.Now()

	if order.Destination == nil {
		if dest, ok := models.ParseEmbeddedCoordinates(order.Address); ok {
			order.Destination = &dest
		} else if s.geocoder != nil {
			lng, lat, err := s.geocoder.GetLocation(ctx, order.Address)
			if err != nil {
				s.l.Warn(ctx, "failed to geocode order address", "error", err.Error())
			} else {
				order.Destination = &models.Location{Latitude: lat, Longitude: lng, Address: order.Address}
			}
		}
	}

	fn := func(ctx context.Context) error {
		if err := s.repos.order.Create(ctx, order); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to create order: %w", err))
		}
		return s.appendEvent(ctx, order.ID, types.EventOrderCreated, models.OrderEventRecord{
			NewStatus: types.StatusPending,
		})
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return err
	}

	s.l.Info(ctx, "order created", "order_number", order.OrderNumber)
	return nil
}

// Accept assigns the courier to a pending order.
func (s *Service) Accept(ctx context.Context, orderID, courierID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "accept_order")

	courier, err := s.repos.courier.Get(ctx, courierID)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to get courier: %w", err))
	}
	if courier.Status == types.StatusCourierOffline {
		return types.ErrCourierOffline
	}

	return s.transition(ctx, orderID, types.StatusAccepted, types.ActorCourier, &courierID)
}

// Reject declines a pending order, or lets the assigned courier back out
// of an accepted one. Either way the courier identity ends up null; who
// rejected survives only in the audit trail.
func (s *Service) Reject(ctx context.Context, orderID, courierID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "reject_order")

	order, err := s.repos.order.Get(ctx, orderID)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to get order: %w", err))
	}
	// An assigned order may only be released by its own courier.
	if order.CourierID != nil && *order.CourierID != courierID {
		return types.ErrOrderCourierMismatch
	}

	return s.transition(ctx, orderID, types.StatusRejected, types.ActorCourier, &courierID)
}

// Depart marks an accepted order as on the way.
func (s *Service) Depart(ctx context.Context, orderID, courierID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "depart_order")

	if err := s.requireAssignedCourier(ctx, orderID, courierID); err != nil {
		return err
	}
	return s.transition(ctx, orderID, types.StatusOnTheWay, types.ActorCourier, &courierID)
}

// Deliver marks the order delivered by the courier and stamps the
// delivery timestamp.
func (s *Service) Deliver(ctx context.Context, orderID, courierID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "deliver_order")

	if err := s.requireAssignedCourier(ctx, orderID, courierID); err != nil {
		return err
	}
	return s.transition(ctx, orderID, types.StatusDelivered, types.ActorCourier, &courierID)
}

// ConfirmReceipt lets the customer confirm an on-the-way order arrived.
func (s *Service) ConfirmReceipt(ctx context.Context, orderID, customerID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "confirm_receipt")

	order, err := s.repos.order.Get(ctx, orderID)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to get order: %w", err))
	}
	if order.CustomerID != customerID {
		return types.ErrOrderNotFound
	}

	return s.transition(ctx, orderID, types.StatusReceived, types.ActorCustomer, order.CourierID)
}

func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.repos.order.Get(ctx, orderID)
}

// ListPending returns the open order feed shown to online couriers.
func (s *Service) ListPending(ctx context.Context) ([]models.OrderSummary, error) {
	return s.repos.order.ListPending(ctx)
}

// ListForCustomer returns the customer's own orders, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderSummary, error) {
	return s.repos.order.ListByCustomer(ctx, customerID)
}

// ListForCourier returns orders assigned to a courier; active restricts
// the list to trackable states.
func (s *Service) ListForCourier(ctx context.Context, courierID uuid.UUID, active bool) ([]models.OrderSummary, error) {
	return s.repos.order.ListByCourier(ctx, courierID, active)
}

// transition applies one state-machine step inside a transaction.
// It reads the order, validates actor and edge, performs the conditional
// update, appends the audit event and publishes the status message.
func (s *Service) transition(ctx context.Context, orderID uuid.UUID, to types.OrderStatus, actor types.Actor, courierID *uuid.UUID) error {
	var msg models.OrderStatusUpdate

	fn := func(ctx context.Context) error {
		order, err := s.repos.order.Get(ctx, orderID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to get order: %w", err))
		}

		from := order.Status
		if !CanTransition(from, to, actor) {
			if from == types.StatusAccepted && to == types.StatusAccepted {
				return types.ErrOrderAlreadyTaken
			}
			return fmt.Errorf("%w: %s -> %s by %s", types.ErrInvalidTransition, from, to, actor)
		}

		// Courier identity is non-null only in post-acceptance states;
		// rejection resets it to null.
		var assign *uuid.UUID
		if to != types.StatusRejected {
			assign = courierID
		}

		var deliveredAt *time.Time
		if StampsDeliveredAt(to) {
			now := time.Now()
			deliveredAt = &now
		}

		if err := s.repos.order.UpdateStatus(ctx, orderID, from, to, assign, deliveredAt); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to update order status: %w", err))
		}

		if err := s.appendEvent(ctx, orderID, eventFor(to), models.OrderEventRecord{
			OldStatus: from,
			NewStatus: to,
			Actor:     actor,
			CourierID: assign,
		}); err != nil {
			return err
		}

		msg = models.OrderStatusUpdate{
			OrderID:   orderID,
			Status:    to,
			CourierID: assign,
			Timestamp: time.Now(),
		}
		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return err
	}

	if err := s.publisher.PublishOrderStatus(ctx, msg); err != nil {
		// Status fan-out is best-effort; subscribers refetch on reconnect.
		s.l.Warn(ctx, "failed to publish order status", "error", err.Error())
	}

	s.l.Info(ctx, "order transitioned", "status", to)
	return nil
}

// requireAssignedCourier rejects actions from a courier the order does
// not belong to.
func (s *Service) requireAssignedCourier(ctx context.Context, orderID, courierID uuid.UUID) error {
	order, err := s.repos.order.Get(ctx, orderID)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to get order: %w", err))
	}
	if order.CourierID == nil || *order.CourierID != courierID {
		return types.ErrOrderCourierMismatch
	}
	return nil
}

func (s *Service) appendEvent(ctx context.Context, orderID uuid.UUID, eventType types.OrderEvent, record models.OrderEventRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal order event: %w", err))
	}
	if err := s.repos.event.CreateEvent(ctx, orderID, eventType, data); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to record order event: %w", err))
	}
	return nil
}
