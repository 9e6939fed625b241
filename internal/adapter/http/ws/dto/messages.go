package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

// LocationMessage is one raw GPS reading sent by the courier app over
// its WebSocket connection.
type LocationMessage struct {
	Type           string     `json:"type"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	HeadingDegrees *float64   `json:"heading_degrees,omitempty"`
	SpeedKmh       *float64   `json:"speed_kmh,omitempty"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
}

func (m LocationMessage) ToSample() models.LocationSample {
	return models.LocationSample{
		Latitude:       m.Latitude,
		Longitude:      m.Longitude,
		HeadingDegrees: m.HeadingDegrees,
		SpeedKmh:       m.SpeedKmh,
		AccuracyMeters: m.AccuracyMeters,
		Timestamp:      m.Timestamp,
	}
}

// Valid applies the same coordinate bounds as HTTP ingestion.
func (m LocationMessage) Valid() bool {
	return m.Latitude >= -90 && m.Latitude <= 90 &&
		m.Longitude >= -180 && m.Longitude <= 180
}

// TrackingFrame is one snapshot pushed to a tracking viewer.
type TrackingFrame struct {
	Type     string                  `json:"type"`
	Tracking models.TrackingSnapshot `json:"tracking"`
}

// Toast is a short human-readable notification pushed to a customer when
// their order changes state.
type Toast struct {
	Type    string            `json:"type"`
	OrderID uuid.UUID         `json:"order_id"`
	Status  types.OrderStatus `json:"status"`
	Message string            `json:"message"`
}

// ErrorFrame reports a non-fatal problem to the peer without closing the
// connection.
type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
