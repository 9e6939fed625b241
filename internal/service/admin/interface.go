package admin

import (
	"context"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
)

type AdminRepository interface {
	GetOverview(ctx context.Context) (*models.OverviewResponse, error)
	GetActiveDeliveries(ctx context.Context) (*models.ActiveDeliveriesResponse, error)
}
