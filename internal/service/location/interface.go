package location

import (
	"context"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
)

/*=================Location Provider==============================*/

// Provider is the injected positioning capability. Watch begins continuous
// observation with high-accuracy, no-cache semantics and reports every raw
// reading through onSample and every transient failure through onError.
// The returned stop function cancels observation and is safe to call twice.
type Provider interface {
	Watch(ctx context.Context, onSample func(models.LocationSample), onError func(error)) (stop func(), err error)
}

/*=================Location Repository============================*/

type Repository interface {
	// Upsert atomically inserts or overwrites the single current-location
	// row for the courier.
	Upsert(ctx context.Context, loc models.CourierLocation) error

	// GetLatest returns the current row, selecting by newest update
	// timestamp if historical duplicates exist.
	// Returns types.ErrLocationNotAvailable when the courier has no row.
	GetLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error)
}

/*=================Location Cache=================================*/

type Cache interface {
	SetLatest(ctx context.Context, loc models.CourierLocation) error
	GetLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error)
	Remove(ctx context.Context, courierID uuid.UUID) error
}

/*=================Event Producer=================================*/

type EventProducer interface {
	PublishLocationUpdate(ctx context.Context, msg models.CourierLocationUpdate) error
}
