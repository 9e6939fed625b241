package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

/*=================Order Repository===============================*/

type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)

	// UpdateStatus conditionally moves an order from one status to
	// another, assigning or clearing the courier and stamping the
	// delivery timestamp as requested. The condition on the current
	// status makes concurrent accepts race-safe: the loser observes
	// zero affected rows and gets types.ErrOrderAlreadyTaken.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to types.OrderStatus, courierID *uuid.UUID, deliveredAt *time.Time) error

	ListPending(ctx context.Context) ([]models.OrderSummary, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderSummary, error)
	ListByCourier(ctx context.Context, courierID uuid.UUID, active bool) ([]models.OrderSummary, error)
	CountByStatus(ctx context.Context, statuses ...types.OrderStatus) (int, error)
}

/*=================Order Event Repository=========================*/

type EventRepository interface {
	// CreateEvent appends an audit row to the order_events table.
	CreateEvent(ctx context.Context, orderID uuid.UUID, eventType types.OrderEvent, eventData json.RawMessage) error
}

/*=================Courier Repository=============================*/

type CourierRepository interface {
	Get(ctx context.Context, courierID uuid.UUID) (*models.Courier, error)
	ChangeStatus(ctx context.Context, courierID uuid.UUID, newStatus types.CourierStatus) (oldStatus types.CourierStatus, err error)
}

/*========================Publisher===============================*/

type Publisher interface {
	PublishOrderStatus(ctx context.Context, msg models.OrderStatusUpdate) error
}

/*===================== Address Geo Coder ========================*/

type GeoCoder interface {
	GetLocation(ctx context.Context, address string) (longitude, latitude float64, err error)
}
