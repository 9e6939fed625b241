package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

type CourierRepo struct {
	db *pgxpool.Pool
}

func NewCourierRepo(db *pgxpool.Pool) *CourierRepo {
	return &CourierRepo{db: db}
}

func (r *CourierRepo) Get(ctx context.Context, courierID uuid.UUID) (*models.Courier, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, name, phone, status, total_deliveries, total_earnings, created_at, updated_at
		FROM couriers
		WHERE id = $1;`

	var c models.Courier
	err := q.QueryRow(ctx, query, courierID).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Status,
		&c.TotalDeliveries, &c.TotalEarnings, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrCourierNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("courier repo: Get: %w", err))
	}
	return &c, nil
}

// ChangeStatus swaps the availability in one statement and returns the
// previous value so the caller can detect a no-op toggle.
func (r *CourierRepo) ChangeStatus(ctx context.Context, courierID uuid.UUID, newStatus types.CourierStatus) (types.CourierStatus, error) {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE couriers c
		SET status = $1, updated_at = NOW()
		FROM (SELECT id, status FROM couriers WHERE id = $2 FOR UPDATE) old
		WHERE c.id = old.id
		RETURNING old.status;`

	var oldStatus types.CourierStatus
	if err := q.QueryRow(ctx, query, newStatus, courierID).Scan(&oldStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", types.ErrCourierNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return "", wrap.Error(ctx, fmt.Errorf("courier repo: ChangeStatus: %w", err))
	}
	return oldStatus, nil
}

func (r *CourierRepo) ListOnline(ctx context.Context) ([]models.Courier, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, name, phone, status, total_deliveries, total_earnings, created_at, updated_at
		FROM couriers
		WHERE status != $1
		ORDER BY updated_at DESC;`

	rows, err := q.Query(ctx, query, types.StatusCourierOffline)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("courier repo: ListOnline: %w", err))
	}
	defer rows.Close()

	var couriers []models.Courier
	for rows.Next() {
		var c models.Courier
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &c.TotalDeliveries, &c.TotalEarnings, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("courier repo: scan courier: %w", err))
		}
		couriers = append(couriers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("courier repo: iterate couriers: %w", err))
	}
	return couriers, nil
}

func (r *CourierRepo) CountOnline(ctx context.Context) (int, error) {
	q := TxorDB(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM couriers WHERE status != $1;`
	if err := q.QueryRow(ctx, query, types.StatusCourierOffline).Scan(&count); err != nil {
		return 0, fmt.Errorf("courier repo: CountOnline: %w", err)
	}
	return count, nil
}
