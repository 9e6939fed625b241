package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

type RefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepo(db *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Save(ctx context.Context, record *models.RefreshTokenRecord) error {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := q.Exec(ctx, query, record.ID, record.UserID, record.TokenHash, record.ExpiresAt, record.Revoked, record.CreatedAt)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("refresh token repo: Save: %w", err))
	}
	return nil
}

func (r *RefreshTokenRepo) Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, user_id, token_hash, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE id = $1;`

	var rec models.RefreshTokenRecord
	err := q.QueryRow(ctx, query, tokenID).Scan(&rec.ID, &rec.UserID, &rec.TokenHash, &rec.ExpiresAt, &rec.Revoked, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap.Error(ctx, fmt.Errorf("refresh token repo: Get: %w", err))
	}
	return &rec, nil
}

func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, tokenID uuid.UUID) error {
	q := TxorDB(ctx, r.db)

	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1;`
	if _, err := q.Exec(ctx, query, tokenID); err != nil {
		return wrap.Error(ctx, fmt.Errorf("refresh token repo: MarkUsed: %w", err))
	}
	return nil
}
