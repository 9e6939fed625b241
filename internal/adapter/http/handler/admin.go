package handler

import (
	"context"
	"net/http"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

type Admin struct {
	service AdminService
	l       logger.Logger
}

type AdminService interface {
	GetOverview(ctx context.Context) (*models.OverviewResponse, error)
	GetActiveDeliveries(ctx context.Context) (*models.ActiveDeliveriesResponse, error)
}

func NewAdmin(service AdminService, l logger.Logger) *Admin {
	return &Admin{
		service: service,
		l:       l,
	}
}

func (h *Admin) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_overview")

	overview, err := h.service.GetOverview(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get overview", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"overview": overview}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}

func (h *Admin) GetActiveDeliveries(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_active_deliveries")

	res, err := h.service.GetActiveDeliveries(ctx)
	if err != nil {
		if IsOneOf(err, types.ErrOrderNotFound) {
			writeJSON(w, http.StatusOK, envelope{"deliveries": []models.ActiveDelivery{}, "count": 0}, nil)
			return
		}
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get active deliveries", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"deliveries": res.Deliveries, "count": res.Count}, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}
