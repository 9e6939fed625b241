package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO orders (order_number, customer_id, customer_phone, status, address,
		                    destination_latitude, destination_longitude,
		                    total_price, items_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at;`

	var destLat, destLng *float64
	if order.Destination != nil {
		destLat = &order.Destination.Latitude
		destLng = &order.Destination.Longitude
	}

	err := q.QueryRow(ctx, query,
		order.OrderNumber, order.CustomerID, order.CustomerPhone, order.Status, order.Address,
		destLat, destLng, order.TotalPrice, order.ItemsSummary,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("order repo: Create: %w", err)
	}

	return nil
}

func (r *OrderRepo) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, order_number, customer_id, customer_phone, courier_id, status, address,
		       destination_latitude, destination_longitude,
		       total_price, items_summary, created_at, delivered_at
		FROM orders
		WHERE id = $1;`

	var (
		order            models.Order
		destLat, destLng *float64
	)
	err := q.QueryRow(ctx, query, orderID).Scan(
		&order.ID, &order.OrderNumber, &order.CustomerID, &order.CustomerPhone,
		&order.CourierID, &order.Status, &order.Address,
		&destLat, &destLng,
		&order.TotalPrice, &order.ItemsSummary, &order.CreatedAt, &order.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrOrderNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("order repo: Get: %w", err))
	}

	if destLat != nil && destLng != nil {
		order.Destination = &models.Location{
			Latitude:  *destLat,
			Longitude: *destLng,
			Address:   order.Address,
		}
	}

	return &order, nil
}

// UpdateStatus moves the order from one status to another in a single
// conditional statement. The WHERE on the current status makes racing
// writers safe: the loser affects zero rows. Zero rows on a
// PENDING->ACCEPTED move means another courier won the race; anything
// else means the order changed state underneath the caller.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to types.OrderStatus, courierID *uuid.UUID, deliveredAt *time.Time) error {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE orders
		SET status = $1,
		    courier_id = $2,
		    delivered_at = COALESCE($3, delivered_at),
		    updated_at = NOW()
		WHERE id = $4 AND status = $5;`

	cmdTag, err := q.Exec(ctx, query, to, courierID, deliveredAt, orderID, from)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("order repo: UpdateStatus: %w", err))
	}

	if cmdTag.RowsAffected() == 0 {
		if from == types.StatusPending && to == types.StatusAccepted {
			return types.ErrOrderAlreadyTaken
		}
		return types.ErrInvalidTransition
	}

	return nil
}

const summaryColumns = `id, order_number, status, address, total_price, items_summary, created_at`

func (r *OrderRepo) ListPending(ctx context.Context) ([]models.OrderSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE status = $1
		ORDER BY created_at ASC;`, summaryColumns)

	return r.listSummaries(ctx, query, types.StatusPending)
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC;`, summaryColumns)

	return r.listSummaries(ctx, query, customerID)
}

func (r *OrderRepo) ListByCourier(ctx context.Context, courierID uuid.UUID, active bool) ([]models.OrderSummary, error) {
	if active {
		query := fmt.Sprintf(`
			SELECT %s
			FROM orders
			WHERE courier_id = $1 AND status IN ($2, $3)
			ORDER BY created_at DESC;`, summaryColumns)
		return r.listSummaries(ctx, query, courierID, types.StatusAccepted, types.StatusOnTheWay)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE courier_id = $1
		ORDER BY created_at DESC;`, summaryColumns)
	return r.listSummaries(ctx, query, courierID)
}

func (r *OrderRepo) CountByStatus(ctx context.Context, statuses ...types.OrderStatus) (int, error) {
	q := TxorDB(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM orders WHERE status = ANY($1);`

	list := make([]string, 0, len(statuses))
	for _, s := range statuses {
		list = append(list, string(s))
	}

	if err := q.QueryRow(ctx, query, list).Scan(&count); err != nil {
		return 0, fmt.Errorf("order repo: CountByStatus: %w", err)
	}
	return count, nil
}

func (r *OrderRepo) listSummaries(ctx context.Context, query string, args ...any) ([]models.OrderSummary, error) {
	q := TxorDB(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("order repo: list: %w", err))
	}
	defer rows.Close()

	var result []models.OrderSummary
	for rows.Next() {
		var s models.OrderSummary
		if err := rows.Scan(&s.ID, &s.OrderNumber, &s.Status, &s.Address, &s.TotalPrice, &s.ItemsSummary, &s.CreatedAt); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("order repo: scan summary: %w", err))
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("order repo: iterate summaries: %w", err))
	}

	return result, nil
}
