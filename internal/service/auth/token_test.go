package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

var testLog = logger.InitLogger("test", logger.LevelError)

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (uuid.UUID, error) {
	user.ID = uuid.New()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetUser(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

type fakeRefreshRepo struct {
	records map[uuid.UUID]*models.RefreshTokenRecord
}

func (r *fakeRefreshRepo) Save(ctx context.Context, record *models.RefreshTokenRecord) error {
	r.records[record.ID] = record
	return nil
}

func (r *fakeRefreshRepo) Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	return r.records[tokenID], nil
}

func (r *fakeRefreshRepo) MarkUsed(ctx context.Context, tokenID uuid.UUID) error {
	rec, ok := r.records[tokenID]
	if !ok {
		return types.ErrNotFound
	}
	rec.Revoked = true
	return nil
}

func newTokenFixture(t *testing.T) (*TokenService, *models.User, *fakeRefreshRepo) {
	t.Helper()

	users := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	refresh := &fakeRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}

	user := &models.User{
		Name:   "Hassan",
		Email:  "hassan@khobzak.iq",
		Role:   types.RoleCustomer,
		Status: types.StatusUserActive,
	}
	if _, err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc := NewTokenService("test-secret", users, refresh, fakeTx{}, 24*time.Hour, 15*time.Minute, testLog)
	return svc, user, refresh
}

func TestGenerateAndValidate_RoundTrip(t *testing.T) {
	svc, user, refresh := newTokenFixture(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("both tokens must be issued")
	}

	claims, err := svc.Validate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user_id = %s, want %s", claims.UserID, user.ID)
	}
	if claims.TokenType != models.AccessToken {
		t.Fatalf("token type = %s, want access", claims.TokenType)
	}
	if claims.Email != user.Email || claims.Role != user.Role {
		t.Fatalf("claims lost identity: %+v", claims)
	}

	refreshClaims, err := svc.Validate(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if refreshClaims.TokenType != models.RefreshToken {
		t.Fatalf("token type = %s, want refresh", refreshClaims.TokenType)
	}

	// The stored record holds a hash, never the token itself.
	rec := refresh.records[refreshClaims.TokenID]
	if rec == nil {
		t.Fatal("refresh record must be persisted")
	}
	if rec.TokenHash == pair.RefreshToken {
		t.Fatal("refresh token must be stored hashed")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	svc, user, _ := newTokenFixture(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewTokenService("other-secret", nil, nil, fakeTx{}, 24*time.Hour, 15*time.Minute, testLog)
	if _, err := other.Validate(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken with foreign secret, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	svc, _, _ := newTokenFixture(t)

	if _, err := svc.Validate(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefresh_RotatesPair(t *testing.T) {
	svc, user, refresh := newTokenFixture(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("rotation must issue a new refresh token")
	}

	// The spent token is revoked: replaying it fails.
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on replay, got %v", err)
	}

	// Exactly one live record remains.
	live := 0
	for _, rec := range refresh.records {
		if !rec.Revoked {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("expected 1 live refresh record, got %d", live)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, user, _ := newTokenFixture(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
}
