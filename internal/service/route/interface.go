package route

import (
	"context"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
)

// Fetcher asks an external routing service for a driving route.
type Fetcher interface {
	Route(ctx context.Context, origin, destination models.Location) (models.Route, error)
}
