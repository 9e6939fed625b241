package courier

import (
	"context"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

/*=================Courier Repository=============================*/

type Repository interface {
	Get(ctx context.Context, courierID uuid.UUID) (*models.Courier, error)

	// ChangeStatus swaps the courier's availability and returns the
	// previous value so callers can detect no-op changes.
	ChangeStatus(ctx context.Context, courierID uuid.UUID, newStatus types.CourierStatus) (oldStatus types.CourierStatus, err error)

	ListOnline(ctx context.Context) ([]models.Courier, error)
	CountOnline(ctx context.Context) (int, error)
}

/*=================Location Access================================*/

type LocationFetcher interface {
	FetchLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error)
}

type LocationCache interface {
	Remove(ctx context.Context, courierID uuid.UUID) error
}

/*=================Reverse Geo Coder==============================*/

type ReverseGeoCoder interface {
	GetAddress(ctx context.Context, longitude, latitude float64) (string, error)
}

/*========================Publisher===============================*/

type Publisher interface {
	PublishCourierStatus(ctx context.Context, msg models.CourierStatusUpdate) error
}
