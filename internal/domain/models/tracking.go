package models

import (
	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

// Route is the drawable path between courier and destination.
// Estimated marks a great-circle fallback: the distance/duration are
// heuristic and the polyline is a straight line.
type Route struct {
	Polyline        []Location `json:"polyline"`
	DistanceMeters  float64    `json:"distance_meters"`
	DurationSeconds float64    `json:"duration_seconds"`
	Estimated       bool       `json:"estimated"`
}

// TrackingSnapshot is the data contract between the tracking pipeline and
// the customer's map view. It is derived state, recomputed per location
// event, and never persisted.
type TrackingSnapshot struct {
	OrderID     uuid.UUID         `json:"order_id"`
	Status      types.OrderStatus `json:"status"`
	Courier     CourierLocation   `json:"courier"`
	Destination Location          `json:"destination"`
	Route       Route             `json:"route"`

	DistanceText string `json:"distance_text"`
	DurationText string `json:"duration_text"`
}
