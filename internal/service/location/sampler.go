package location

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

// MinPublishInterval is the leaky-bucket window: at most one sample per
// courier is accepted within it, the rest are dropped silently.
const MinPublishInterval = 5 * time.Second

// Publisher persists an accepted sample.
type Publisher interface {
	Publish(ctx context.Context, courierID uuid.UUID, orderID *uuid.UUID, sample models.LocationSample) error
}

// Sampler throttles the raw position stream of one courier and forwards
// accepted samples to the publisher. The throttle keeps only a single
// watermark (the last accepted timestamp); dropped samples are not queued.
type Sampler struct {
	provider    Provider
	publisher   Publisher
	interval    time.Duration
	serviceName string
	now         func() time.Time
	l           logger.Logger

	mu           sync.Mutex
	started      bool
	stopWatch    func()
	courierID    uuid.UUID
	orderID      *uuid.UUID
	lastAccepted time.Time
	onError      func(error)
}

func NewSampler(provider Provider, publisher Publisher, serviceName string, l logger.Logger) *Sampler {
	return &Sampler{
		provider:    provider,
		publisher:   publisher,
		interval:    MinPublishInterval,
		serviceName: serviceName,
		now:         time.Now,
		l:           l,
	}
}

// Start begins continuous observation for the given courier.
// Observation errors are surfaced via onError but never stop the watch;
// the stream is transient-tolerant.
func (s *Sampler) Start(ctx context.Context, courierID uuid.UUID, orderID *uuid.UUID, onError func(error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return types.ErrSamplerStarted
	}
	if s.provider == nil {
		return types.ErrPositionUnavailable
	}

	s.courierID = courierID
	s.orderID = orderID
	s.lastAccepted = time.Time{}
	s.onError = onError

	stop, err := s.provider.Watch(ctx,
		func(sample models.LocationSample) {
			s.Offer(ctx, sample)
		},
		func(err error) {
			s.l.Warn(ctx, "location observation error", "error", err.Error())
			if onError != nil {
				onError(err)
			}
		},
	)
	if err != nil {
		return err
	}

	s.stopWatch = stop
	s.started = true

	s.l.Info(wrap.WithAction(ctx, "sampler_started"), "location sampling started", "courier_id", courierID)
	return nil
}

// Offer runs one raw sample through the throttle and, when accepted,
// publishes it. Returns whether the sample was accepted. Exposed so HTTP
// ingest shares the same watermark as the continuous watch.
func (s *Sampler) Offer(ctx context.Context, sample models.LocationSample) bool {
	s.mu.Lock()

	now := s.now()
	if !s.lastAccepted.IsZero() && now.Sub(s.lastAccepted) < s.interval {
		s.mu.Unlock()
		metrics.LocationSamplesTotal.WithLabelValues(s.serviceName, "throttled").Inc()
		return false
	}
	s.lastAccepted = now
	courierID := s.courierID
	orderID := s.orderID
	s.mu.Unlock()

	metrics.LocationSamplesTotal.WithLabelValues(s.serviceName, "accepted").Inc()

	if sample.Timestamp.IsZero() {
		sample.Timestamp = now
	}

	if err := s.publisher.Publish(ctx, courierID, orderID, sample); err != nil {
		// Publish failures are recovered naturally by the next accepted
		// sample; surface them like observation errors.
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish location sample", err)
		s.mu.Lock()
		onError := s.onError
		s.mu.Unlock()
		if onError != nil {
			onError(err)
		}
	}

	return true
}

// SetOrder updates the order associated with subsequent samples.
func (s *Sampler) SetOrder(orderID *uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderID = orderID
}

// Stop cancels observation. Idempotent.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}
	s.started = false
	s.onError = nil
}
