package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

/* ======================= rabbitmq ======================= */

// CourierLocationUpdate is fanned out on every accepted location publish.
// Delivery is at-least-once and may replay out of order after reconnects,
// so consumers must treat each message as the authoritative latest state
// and discard anything older than what they already hold.
type CourierLocationUpdate struct {
	CourierID      uuid.UUID  `json:"courier_id"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	HeadingDegrees *float64   `json:"heading_degrees,omitempty"`
	SpeedKmh       *float64   `json:"speed_kmh,omitempty"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (m CourierLocationUpdate) ToCourierLocation() CourierLocation {
	return CourierLocation{
		CourierID:      m.CourierID,
		OrderID:        m.OrderID,
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		HeadingDegrees: m.HeadingDegrees,
		SpeedKmh:       m.SpeedKmh,
		AccuracyMeters: m.AccuracyMeters,
		UpdatedAt:      m.UpdatedAt,
	}
}

// OrderStatusUpdate is published on every order transition.
type OrderStatusUpdate struct {
	OrderID       uuid.UUID         `json:"order_id"`
	Status        types.OrderStatus `json:"status"`
	CourierID     *uuid.UUID        `json:"courier_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// CourierStatusUpdate is published when a courier goes online/offline
// or starts/finishes a delivery.
type CourierStatusUpdate struct {
	CourierID uuid.UUID           `json:"courier_id"`
	Status    types.CourierStatus `json:"status"`
	OrderID   *uuid.UUID          `json:"order_id,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

/* ======================= order_events table ======================= */

type OrderEventRecord struct {
	OldStatus types.OrderStatus `json:"old_status"`
	NewStatus types.OrderStatus `json:"new_status"`
	Actor     types.Actor       `json:"actor"`
	CourierID *uuid.UUID        `json:"courier_id,omitempty"`
}
