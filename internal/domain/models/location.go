package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// DisplayAddress degrades to raw coordinates when no human-readable
// address is available (reverse geocoding failed or was skipped).
func (l Location) DisplayAddress() string {
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("%.5f, %.5f", l.Latitude, l.Longitude)
}

// LocationSample is a single raw GPS reading from a courier device.
type LocationSample struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	HeadingDegrees *float64  `json:"heading_degrees,omitempty"`
	SpeedKmh       *float64  `json:"speed_kmh,omitempty"`
	AccuracyMeters *float64  `json:"accuracy_meters,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// CourierLocation is the single current-position row kept per courier.
// Samples overwrite it in place; history never accumulates here.
type CourierLocation struct {
	CourierID      uuid.UUID  `json:"courier_id"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	HeadingDegrees *float64   `json:"heading_degrees,omitempty"`
	SpeedKmh       *float64   `json:"speed_kmh,omitempty"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (c CourierLocation) Location() Location {
	return Location{Latitude: c.Latitude, Longitude: c.Longitude}
}
