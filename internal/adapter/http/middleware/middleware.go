package middleware

import (
	"context"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

type (
	AuthService interface {
		Authenticate(ctx context.Context, token string) (*models.User, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
