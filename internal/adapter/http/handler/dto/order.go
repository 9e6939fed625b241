package dto

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
)

type CreateOrderRequest struct {
	CustomerPhone string `json:"customer_phone" validate:"required,e164"`

	// Address is free text from checkout. Raw coordinates may be embedded
	// as "(lat, lng)"; explicit fields below take precedence.
	Address              string   `json:"address" validate:"required,max=500"`
	DestinationLatitude  *float64 `json:"destination_latitude" validate:"omitempty,latitude"`
	DestinationLongitude *float64 `json:"destination_longitude" validate:"omitempty,longitude"`

	TotalPrice   float64 `json:"total_price" validate:"required,gt=0"`
	ItemsSummary string  `json:"items_summary" validate:"required,max=1000"`
}

func (r *CreateOrderRequest) ToModel(customerID uuid.UUID) *models.Order {
	order := &models.Order{
		OrderNumber:   newOrderNumber(),
		CustomerID:    customerID,
		CustomerPhone: r.CustomerPhone,
		Address:       r.Address,
		TotalPrice:    r.TotalPrice,
		ItemsSummary:  r.ItemsSummary,
	}
	if r.DestinationLatitude != nil && r.DestinationLongitude != nil {
		order.Destination = &models.Location{
			Latitude:  *r.DestinationLatitude,
			Longitude: *r.DestinationLongitude,
			Address:   r.Address,
		}
	}
	return order
}

// newOrderNumber generates the human-facing order reference,
// e.g. ORD-20260828-4821.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%04d", time.Now().Format("20060102"), rand.Intn(10000))
}
