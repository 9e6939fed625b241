package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/adapter/http/handler/dto"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

type Auth struct {
	service AuthService
	l       logger.Logger
}

type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string, role types.UserRole) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		service: service,
		l:       l,
	}
}

func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_user")

	var req dto.RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	if errs := checkValid(&req); errs != nil {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, errs)
		return
	}

	id, err := h.service.Register(ctx, req.Name, req.Email, req.Phone, req.Password, types.UserRole(req.Role))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"id":      id,
		"message": "registration successful",
	}

	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "user registered successfully", "user_id", id)
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_user")

	var req dto.LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	if errs := checkValid(&req); errs != nil {
		failedValidationResponse(w, errs)
		return
	}

	pair, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.l.Warn(ctx, "login failed", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"tokens": dto.NewTokenResponse(pair)}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_tokens")

	var req dto.RefreshRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if errs := checkValid(&req); errs != nil {
		failedValidationResponse(w, errs)
		return
	}

	pair, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.l.Warn(ctx, "token refresh failed", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"tokens": dto.NewTokenResponse(pair)}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

// Profile returns the authenticated user's own account.
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	user := models.UserFromContext(r.Context())
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	response := envelope{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"phone":  user.Phone,
		"role":   user.Role,
		"status": user.Status,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}
