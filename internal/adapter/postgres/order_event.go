package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

// OrderEventRepo appends to the order_events audit table. Rows are
// insert-only; nothing in the system updates or deletes them.
type OrderEventRepo struct {
	db *pgxpool.Pool
}

func NewOrderEventRepo(db *pgxpool.Pool) *OrderEventRepo {
	return &OrderEventRepo{db: db}
}

func (r *OrderEventRepo) CreateEvent(ctx context.Context, orderID uuid.UUID, eventType types.OrderEvent, eventData json.RawMessage) error {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO order_events (order_id, event_type, event_data)
		VALUES ($1, $2, $3);`

	if _, err := q.Exec(ctx, query, orderID, eventType, eventData); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("order event repo: CreateEvent: %w", err))
	}
	return nil
}
