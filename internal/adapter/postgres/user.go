package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

// uniqueViolation is the Postgres error code for unique_violation.
const uniqueViolation = "23505"

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) (uuid.UUID, error) {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO users (name, email, phone, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`

	var id uuid.UUID
	err := q.QueryRow(ctx, query, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, types.ErrEmailAlreadyExists
		}
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("user repo: CreateUser: %w", err))
	}

	user.ID = id
	return id, nil
}

func (r *UserRepo) GetUser(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "email = $1", email)
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return r.getUser(ctx, "id = $1", userID)
}

func (r *UserRepo) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id, name, email, phone, password_hash, role, status, created_at
		FROM users
		WHERE %s;`, where)

	var u models.User
	err := q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, wrap.Error(ctx, fmt.Errorf("user repo: get user: %w", err))
	}
	return &u, nil
}
