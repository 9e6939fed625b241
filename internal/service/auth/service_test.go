package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

func newAuthFixture() (*Service, *fakeUserRepo) {
	users := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	refresh := &fakeRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}
	tokens := NewTokenService("test-secret", users, refresh, fakeTx{}, 24*time.Hour, 15*time.Minute, testLog)
	return New(users, tokens, testLog), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	id, err := svc.Register(ctx, "Hassan", "hassan@khobzak.iq", "+9647501234567", "s3cret-pass", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("register must return the new user id")
	}

	pair, err := svc.Login(ctx, "hassan@khobzak.iq", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != id || user.Role != types.RoleCustomer {
		t.Fatalf("authenticated as wrong user: %+v", user)
	}
}

func TestRegister_BlocksAdminSelfRegistration(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "Evil", "evil@khobzak.iq", "+9647501234567", "s3cret-pass", types.RoleAdmin)
	if !errors.Is(err, types.ErrInvalidCredentials) {
		t.Fatalf("admin self-registration must fail, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Hassan", "hassan@khobzak.iq", "+9647501234567", "s3cret-pass", types.RoleCustomer); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(ctx, "Other", "hassan@khobzak.iq", "+9647509876543", "other-pass", types.RoleCourier)
	if !errors.Is(err, types.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLogin_UniformFailures(t *testing.T) {
	svc, users := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Hassan", "hassan@khobzak.iq", "+9647501234567", "s3cret-pass", types.RoleCustomer); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown email and wrong password are indistinguishable.
	if _, err := svc.Login(ctx, "nobody@khobzak.iq", "s3cret-pass"); !errors.Is(err, types.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "hassan@khobzak.iq", "wrong-pass"); !errors.Is(err, types.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	// An inactive account cannot log in even with valid credentials.
	for _, u := range users.users {
		u.Status = types.StatusUserBanned
	}
	if _, err := svc.Login(ctx, "hassan@khobzak.iq", "s3cret-pass"); !errors.Is(err, types.ErrInvalidCredentials) {
		t.Fatalf("banned account: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_RejectsRefreshToken(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Hassan", "hassan@khobzak.iq", "+9647501234567", "s3cret-pass", types.RoleCustomer); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.Login(ctx, "hassan@khobzak.iq", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Authenticate(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token must not authenticate, got %v", err)
	}
}
