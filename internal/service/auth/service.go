package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	userRepo UserRepo
	tokens   TokenProvider
	l        logger.Logger
}

func New(userRepo UserRepo, tokens TokenProvider, l logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		l:        l,
	}
}

// Register creates a new account with the requested role. Customer and
// courier self-registration is open; admin accounts are provisioned out
// of band.
func (s *Service) Register(ctx context.Context, name, email, phone, password string, role types.UserRole) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "register_user")

	if role == types.RoleAdmin {
		return uuid.Nil, types.ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetUser(ctx, email)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("failed to look up email: %w", err))
	}
	if existing != nil {
		return uuid.Nil, types.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         role,
		Status:       types.StatusUserActive,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, types.ErrEmailAlreadyExists) {
			return uuid.Nil, types.ErrEmailAlreadyExists
		}
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("failed to create user: %w", err))
	}

	s.l.Info(ctx, "user registered", "user_id", id.String(), "role", role.String())
	return id, nil
}

// Login verifies credentials and issues a token pair. Credential
// failures are indistinguishable from unknown emails on purpose.
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "login_user")

	user, err := s.userRepo.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to look up user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, types.ErrInvalidCredentials
	}

	if user.Status != types.StatusUserActive {
		return nil, types.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to generate tokens: %w", err))
	}
	return pair, nil
}

// Refresh rotates a refresh token into a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

// Authenticate resolves an access token into the account it belongs to.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != models.AccessToken {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load user: %w", err))
	}
	return user, nil
}
