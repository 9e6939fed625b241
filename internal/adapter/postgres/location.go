package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// serviceLabel tags repository metrics emitted by this adapter.
const serviceLabel = "postgres"

// CourierLocationRepo keeps one current-position row per courier in the
// courier_locations table. courier_id is the primary key, so a sample is
// a single atomic statement: insert the row or overwrite it in place.
type CourierLocationRepo struct {
	db *pgxpool.Pool
}

func NewCourierLocationRepo(db *pgxpool.Pool) *CourierLocationRepo {
	return &CourierLocationRepo{
		db: db,
	}
}

func (r *CourierLocationRepo) Upsert(ctx context.Context, loc models.CourierLocation) error {
	const op = "CourierLocationRepo.Upsert"
	query := `
		INSERT INTO courier_locations(courier_id, order_id, latitude, longitude, heading_degrees, speed_kmh, accuracy_meters, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (courier_id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			heading_degrees = EXCLUDED.heading_degrees,
			speed_kmh = EXCLUDED.speed_kmh,
			accuracy_meters = EXCLUDED.accuracy_meters,
			updated_at = EXCLUDED.updated_at;`

	start := time.Now()
	_, err := TxorDB(ctx, r.db).Exec(ctx, query,
		loc.CourierID, loc.OrderID, loc.Latitude, loc.Longitude,
		loc.HeadingDegrees, loc.SpeedKmh, loc.AccuracyMeters, loc.UpdatedAt,
	)
	metrics.RecordDatabaseQuery(serviceLabel, "upsert_courier_location", err, time.Since(start))
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// GetLatest returns the courier's current row. The order-by guards
// against historical duplicates left behind by older schema versions:
// the newest update always wins.
func (r *CourierLocationRepo) GetLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error) {
	const op = "CourierLocationRepo.GetLatest"
	query := `
		SELECT courier_id, order_id, latitude, longitude, heading_degrees, speed_kmh, accuracy_meters, updated_at
		FROM courier_locations
		WHERE courier_id = $1
		ORDER BY updated_at DESC
		LIMIT 1;`

	var loc models.CourierLocation
	err := TxorDB(ctx, r.db).QueryRow(ctx, query, courierID).Scan(
		&loc.CourierID, &loc.OrderID, &loc.Latitude, &loc.Longitude,
		&loc.HeadingDegrees, &loc.SpeedKmh, &loc.AccuracyMeters, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CourierLocation{}, types.ErrLocationNotAvailable
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return models.CourierLocation{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return loc, nil
}
