package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

type OverviewResponse struct {
	OrdersPending   int `json:"orders_pending"`
	OrdersActive    int `json:"orders_active"`
	OrdersDelivered int `json:"orders_delivered"`
	OrdersRejected  int `json:"orders_rejected"`
	CouriersOnline  int `json:"couriers_online"`
}

// ActiveDelivery is an in-flight order as the admin dashboard sees it.
type ActiveDelivery struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      types.OrderStatus `json:"status"`
	CourierID   *uuid.UUID        `json:"courier_id,omitempty"`

	CourierLocation *Location `json:"courier_location,omitempty"`
	Destination     *Location `json:"destination,omitempty"`

	DistanceRemainingKm float64   `json:"distance_remaining_km"`
	CreatedAt           time.Time `json:"created_at"`
}

type ActiveDeliveriesResponse struct {
	Deliveries []ActiveDelivery `json:"deliveries"`
	Count      int              `json:"count"`
}
