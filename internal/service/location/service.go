package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

/*
Service makes accepted samples durable and visible: one row per courier in
Postgres (atomic upsert), a latest-position entry in Redis, and a fan-out
message for subscribed viewers. The Postgres row is the source of truth;
cache and fan-out are best-effort.
*/
type Service struct {
	repo     Repository
	cache    Cache
	producer EventProducer
	l        logger.Logger
}

func NewService(repo Repository, cache Cache, producer EventProducer, l logger.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		producer: producer,
		l:        l,
	}
}

// Publish stores the sample as the courier's current location.
// A persistence failure is reported as ErrPublishFailed; the caller's
// sampling loop continues and the next sample retries naturally.
func (s *Service) Publish(ctx context.Context, courierID uuid.UUID, orderID *uuid.UUID, sample models.LocationSample) error {
	ctx = wrap.WithAction(ctx, "publish_location")

	loc := models.CourierLocation{
		CourierID:      courierID,
		OrderID:        orderID,
		Latitude:       sample.Latitude,
		Longitude:      sample.Longitude,
		HeadingDegrees: sample.HeadingDegrees,
		SpeedKmh:       sample.SpeedKmh,
		AccuracyMeters: sample.AccuracyMeters,
		UpdatedAt:      sample.Timestamp,
	}

	if err := s.repo.Upsert(ctx, loc); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrPublishFailed, err))
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, loc); err != nil {
			s.l.Warn(ctx, "failed to cache latest location", "error", err.Error())
		}
	}

	if s.producer != nil {
		msg := models.CourierLocationUpdate{
			CourierID:      loc.CourierID,
			OrderID:        loc.OrderID,
			Latitude:       loc.Latitude,
			Longitude:      loc.Longitude,
			HeadingDegrees: loc.HeadingDegrees,
			SpeedKmh:       loc.SpeedKmh,
			AccuracyMeters: loc.AccuracyMeters,
			UpdatedAt:      loc.UpdatedAt,
		}
		if err := s.producer.PublishLocationUpdate(ctx, msg); err != nil {
			// Fan-out is best-effort; viewers recover via FetchLatest.
			s.l.Warn(ctx, "failed to fan out location update", "error", err.Error())
		}
	}

	return nil
}

// FetchLatest returns the courier's most recent position, cache first.
// Returns types.ErrLocationNotAvailable when the courier has never
// published, which is distinct from a transport failure.
func (s *Service) FetchLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error) {
	ctx = wrap.WithAction(ctx, "fetch_latest_location")

	if s.cache != nil {
		loc, err := s.cache.GetLatest(ctx, courierID)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, types.ErrLocationNotAvailable) {
			s.l.Warn(ctx, "location cache lookup failed, falling back to store", "error", err.Error())
		}
	}

	loc, err := s.repo.GetLatest(ctx, courierID)
	if err != nil {
		if errors.Is(err, types.ErrLocationNotAvailable) {
			return models.CourierLocation{}, types.ErrLocationNotAvailable
		}
		return models.CourierLocation{}, wrap.Error(ctx, fmt.Errorf("failed to fetch latest location: %w", err))
	}
	return loc, nil
}
