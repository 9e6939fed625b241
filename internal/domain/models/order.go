package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	CustomerID    uuid.UUID
	CustomerPhone string
	CourierID     *uuid.UUID
	Status        types.OrderStatus

	// Delivery target. Address is free text from checkout; Destination is
	// set when coordinates are known (parsed out of the address or geocoded).
	Address     string
	Destination *Location

	TotalPrice   float64
	ItemsSummary string

	CreatedAt   time.Time
	DeliveredAt *time.Time
}

// OrderSummary is the listing row shown in courier and customer feeds.
type OrderSummary struct {
	ID           uuid.UUID         `json:"id"`
	OrderNumber  string            `json:"order_number"`
	Status       types.OrderStatus `json:"status"`
	Address      string            `json:"address"`
	TotalPrice   float64           `json:"total_price"`
	ItemsSummary string            `json:"items_summary"`
	CreatedAt    time.Time         `json:"created_at"`
}
