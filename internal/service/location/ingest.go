package location

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
)

// Ingest is the request-scoped counterpart of the Sampler: couriers
// posting positions over plain HTTP have no connection to hang a
// watermark on, so the throttle state lives here, keyed by courier.
// The discipline is identical, at most one accepted sample per courier
// within MinPublishInterval.
type Ingest struct {
	publisher   Publisher
	interval    time.Duration
	serviceName string
	now         func() time.Time
	l           logger.Logger

	mu           sync.Mutex
	lastAccepted map[uuid.UUID]time.Time
}

func NewIngest(publisher Publisher, serviceName string, l logger.Logger) *Ingest {
	return &Ingest{
		publisher:    publisher,
		interval:     MinPublishInterval,
		serviceName:  serviceName,
		now:          time.Now,
		l:            l,
		lastAccepted: make(map[uuid.UUID]time.Time),
	}
}

// Offer runs one posted sample through the throttle. Returns whether the
// sample was accepted; a publish failure on an accepted sample is
// returned to the caller so the device can retry.
func (i *Ingest) Offer(ctx context.Context, courierID uuid.UUID, orderID *uuid.UUID, sample models.LocationSample) (bool, error) {
	i.mu.Lock()
	now := i.now()
	if last, ok := i.lastAccepted[courierID]; ok && now.Sub(last) < i.interval {
		i.mu.Unlock()
		metrics.LocationSamplesTotal.WithLabelValues(i.serviceName, "throttled").Inc()
		return false, nil
	}
	i.lastAccepted[courierID] = now
	i.mu.Unlock()

	metrics.LocationSamplesTotal.WithLabelValues(i.serviceName, "accepted").Inc()

	if sample.Timestamp.IsZero() {
		sample.Timestamp = now
	}

	if err := i.publisher.Publish(ctx, courierID, orderID, sample); err != nil {
		return true, err
	}
	return true, nil
}
