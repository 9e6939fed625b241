package microservices

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yasir870/khobzak-delivery-system/config"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/postgres"
	"github.com/yasir870/khobzak-delivery-system/internal/service/auth"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	"github.com/yasir870/khobzak-delivery-system/pkg/trm"
)

// newAuthService wires the account/token stack. Every service needs it:
// the auth service issues tokens, the rest only validate them through
// the shared auth middleware.
func newAuthService(pool *pgxpool.Pool, cfg config.Config, log logger.Logger) *auth.Service {
	userRepo := postgres.NewUserRepo(pool)
	refreshRepo := postgres.NewRefreshTokenRepo(pool)
	txManager := trm.New(pool)

	tokenSvc := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		userRepo,
		refreshRepo,
		txManager,
		cfg.Auth.RefreshTokenTTL,
		cfg.Auth.AccessTokenTTL,
		log,
	)

	return auth.New(userRepo, tokenSvc, log)
}
