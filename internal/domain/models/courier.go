package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

type Courier struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Status    types.CourierStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	TotalDeliveries int
	TotalEarnings   float64
}

type CourierInfo struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	Status string    `json:"status"`
}
