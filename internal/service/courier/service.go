package courier

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
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
)

// Service covers the courier side of the marketplace: availability
// toggling and the courier app's own view of its published position.
type Service struct {
	repo      Repository
	locations LocationFetcher
	cache     LocationCache
	geocoder  ReverseGeoCoder
	publisher Publisher
	l         logger.Logger
}

func New(repo Repository, locations LocationFetcher, cache LocationCache, geocoder ReverseGeoCoder, publisher Publisher, l logger.Logger) *Service {
	return &Service{
		repo:      repo,
		locations: locations,
		cache:     cache,
		geocoder:  geocoder,
		publisher: publisher,
		l:         l,
	}
}

func (s *Service) Get(ctx context.Context, courierID uuid.UUID) (*models.Courier, error) {
	return s.repo.Get(ctx, courierID)
}

// GoOnline marks the courier available for the pending-order feed.
func (s *Service) GoOnline(ctx context.Context, courierID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "courier_go_online")

	old, err := s.repo.ChangeStatus(ctx, courierID, types.StatusCourierAvailable)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to change courier status: %w", err))
	}
	if old != types.StatusCourierOffline {
		return types.ErrCourierAlreadyOnline
	}

	metrics.CouriersOnlineGauge.WithLabelValues(string(types.CourierService)).Inc()
	s.publishStatus(ctx, courierID, types.StatusCourierAvailable, nil)
	s.l.Info(ctx, "courier went online", "courier_id", courierID.String())
	return nil
}

// GoOffline marks the courier unavailable and drops the cached position
// so viewers stop seeing a stale marker.
func (s *Service) GoOffline(ctx context.Context, courierID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "courier_go_offline")

	old, err := s.repo.ChangeStatus(ctx, courierID, types.StatusCourierOffline)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to change courier status: %w", err))
	}
	if old == types.StatusCourierOffline {
		return types.ErrCourierAlreadyOffline
	}

	if s.cache != nil {
		if err := s.cache.Remove(ctx, courierID); err != nil {
			s.l.Warn(ctx, "failed to evict cached courier location", "error", err.Error())
		}
	}

	metrics.CouriersOnlineGauge.WithLabelValues(string(types.CourierService)).Dec()
	s.publishStatus(ctx, courierID, types.StatusCourierOffline, nil)
	s.l.Info(ctx, "courier went offline", "courier_id", courierID.String())
	return nil
}

// StartDelivery flips the courier into the delivering state when an
// order is accepted. A courier already delivering keeps the status, the
// marketplace allows one active order at a time but the toggle itself is
// idempotent.
func (s *Service) StartDelivery(ctx context.Context, courierID, orderID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "courier_start_delivery")

	old, err := s.repo.ChangeStatus(ctx, courierID, types.StatusCourierDelivering)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to change courier status: %w", err))
	}
	if old == types.StatusCourierOffline {
		return types.ErrCourierOffline
	}

	s.publishStatus(ctx, courierID, types.StatusCourierDelivering, &orderID)
	return nil
}

// FinishDelivery returns the courier to the available pool.
func (s *Service) FinishDelivery(ctx context.Context, courierID, orderID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithOrderID(ctx, orderID.String()), "courier_finish_delivery")

	if _, err := s.repo.ChangeStatus(ctx, courierID, types.StatusCourierAvailable); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to change courier status: %w", err))
	}

	s.publishStatus(ctx, courierID, types.StatusCourierAvailable, &orderID)
	return nil
}

// WhereAmI returns the courier's last published position with a
// human-readable address. Reverse geocoding is cosmetic: on failure the
// location is returned with coordinates only.
func (s *Service) WhereAmI(ctx context.Context, courierID uuid.UUID) (models.Location, error) {
	ctx = wrap.WithAction(ctx, "courier_where_am_i")

	loc, err := s.locations.FetchLatest(ctx, courierID)
	if err != nil {
		if errors.Is(err, types.ErrLocationNotAvailable) {
			return models.Location{}, types.ErrLocationNotAvailable
		}
		return models.Location{}, wrap.Error(ctx, fmt.Errorf("failed to fetch courier location: %w", err))
	}

	result := loc.Location()
	if s.geocoder != nil {
		addr, err := s.geocoder.GetAddress(ctx, loc.Longitude, loc.Latitude)
		if err != nil {
			s.l.Warn(ctx, "reverse geocoding failed, returning raw coordinates", "error", err.Error())
		} else {
			result.Address = addr
		}
	}
	return result, nil
}

func (s *Service) publishStatus(ctx context.Context, courierID uuid.UUID, status types.CourierStatus, orderID *uuid.UUID) {
	if s.publisher == nil {
		return
	}
	msg := models.CourierStatusUpdate{
		CourierID: courierID,
		Status:    status,
		OrderID:   orderID,
		Timestamp: time.Now(),
	}
	if err := s.publisher.PublishCourierStatus(ctx, msg); err != nil {
		s.l.Warn(ctx, "failed to publish courier status", "error", err.Error())
	}
}
