package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
)

// UpdateLocationRequest is one GPS reading posted by a courier device
// that cannot hold a WebSocket open.
type UpdateLocationRequest struct {
	OrderID        *uuid.UUID `json:"order_id" validate:"omitempty"`
	Latitude       float64    `json:"latitude" validate:"required,latitude"`
	Longitude      float64    `json:"longitude" validate:"required,longitude"`
	HeadingDegrees *float64   `json:"heading_degrees" validate:"omitempty,gte=0,lt=360"`
	SpeedKmh       *float64   `json:"speed_kmh" validate:"omitempty,gte=0"`
	AccuracyMeters *float64   `json:"accuracy_meters" validate:"omitempty,gte=0"`
	Timestamp      time.Time  `json:"timestamp"`
}

func (r *UpdateLocationRequest) ToSample() models.LocationSample {
	return models.LocationSample{
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		HeadingDegrees: r.HeadingDegrees,
		SpeedKmh:       r.SpeedKmh,
		AccuracyMeters: r.AccuracyMeters,
		Timestamp:      r.Timestamp,
	}
}
