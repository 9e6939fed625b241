package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
)

/*=================Order Repository===============================*/

type OrderRepository interface {
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

/*=================Location Fetcher===============================*/

// LocationFetcher resolves the courier's most recent published position.
// Implemented by the location service (cache first, store fallback).
type LocationFetcher interface {
	FetchLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error)
}

/*=================Event Source===================================*/

// EventSource delivers the realtime streams a tracking session feeds on.
// Delivery is at-least-once and may replay out of order after broker
// reconnects; the session deduplicates by update timestamp.
type EventSource interface {
	SubscribeCourierLocation(ctx context.Context, courierID uuid.UUID) (<-chan models.CourierLocationUpdate, error)
	SubscribeOrderStatus(ctx context.Context, orderID uuid.UUID) (<-chan models.OrderStatusUpdate, error)
}

/*=================Route Calculator===============================*/

type RouteCalculator interface {
	ComputeRoute(ctx context.Context, origin, destination models.Location) models.Route
}
