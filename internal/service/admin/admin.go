package admin

import (
	"context"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/internal/service/route"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

type AdminService struct {
	adminRepo AdminRepository
	l         logger.Logger
}

func NewAdminService(adminRepo AdminRepository, l logger.Logger) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		l:         l,
	}
}

func (s *AdminService) GetOverview(ctx context.Context) (*models.OverviewResponse, error) {
	return s.adminRepo.GetOverview(ctx)
}

// GetActiveDeliveries lists in-flight orders with the remaining
// great-circle distance between courier and destination. Orders whose
// courier has not published a position yet are listed without a distance.
func (s *AdminService) GetActiveDeliveries(ctx context.Context) (*models.ActiveDeliveriesResponse, error) {
	res, err := s.adminRepo.GetActiveDeliveries(ctx)
	if err != nil {
		return nil, err
	}

	if len(res.Deliveries) == 0 {
		return nil, types.ErrOrderNotFound
	}

	for i, d := range res.Deliveries {
		if d.CourierLocation == nil || d.Destination == nil {
			s.l.Warn(ctx, "active delivery is missing a coordinate",
				"order_id", d.OrderID.String(),
				"has_courier_location", d.CourierLocation != nil,
				"has_destination", d.Destination != nil,
			)
			continue
		}
		res.Deliveries[i].DistanceRemainingKm = route.HaversineKm(*d.CourierLocation, *d.Destination)
	}

	return res, nil
}
