package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) GetOverview(ctx context.Context) (*models.OverviewResponse, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE o.status = 'PENDING'),
			COUNT(*) FILTER (WHERE o.status IN ('ACCEPTED', 'ON_THE_WAY')),
			COUNT(*) FILTER (WHERE o.status IN ('DELIVERED', 'RECEIVED')),
			COUNT(*) FILTER (WHERE o.status = 'REJECTED'),
			(SELECT COUNT(*) FROM couriers WHERE status != 'OFFLINE')
		FROM orders o;`

	var res models.OverviewResponse
	err := q.QueryRow(ctx, query).Scan(
		&res.OrdersPending, &res.OrdersActive, &res.OrdersDelivered, &res.OrdersRejected, &res.CouriersOnline,
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("admin repo: GetOverview: %w", err))
	}
	return &res, nil
}

// GetActiveDeliveries joins active orders with the current position of
// their courier. Orders whose courier has not published yet come back
// without a courier location.
func (r *AdminRepo) GetActiveDeliveries(ctx context.Context) (*models.ActiveDeliveriesResponse, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT o.id, o.order_number, o.status, o.courier_id,
		       cl.latitude, cl.longitude,
		       o.destination_latitude, o.destination_longitude,
		       o.created_at
		FROM orders o
		LEFT JOIN courier_locations cl ON cl.courier_id = o.courier_id
		WHERE o.status IN ('ACCEPTED', 'ON_THE_WAY')
		ORDER BY o.created_at ASC;`

	rows, err := q.Query(ctx, query)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("admin repo: GetActiveDeliveries: %w", err))
	}
	defer rows.Close()

	var res models.ActiveDeliveriesResponse
	for rows.Next() {
		var (
			d                  models.ActiveDelivery
			courLat, courLng   *float64
			destLat, destLng   *float64
		)
		if err := rows.Scan(
			&d.OrderID, &d.OrderNumber, &d.Status, &d.CourierID,
			&courLat, &courLng, &destLat, &destLng, &d.CreatedAt,
		); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("admin repo: scan delivery: %w", err))
		}

		if courLat != nil && courLng != nil {
			d.CourierLocation = &models.Location{Latitude: *courLat, Longitude: *courLng}
		}
		if destLat != nil && destLng != nil {
			d.Destination = &models.Location{Latitude: *destLat, Longitude: *destLng}
		}

		res.Deliveries = append(res.Deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("admin repo: iterate deliveries: %w", err))
	}

	res.Count = len(res.Deliveries)
	return &res, nil
}
