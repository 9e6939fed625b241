package location

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

var testLog = logger.InitLogger("test", logger.LevelError)

type fakeProvider struct {
	onSample func(models.LocationSample)
	onError  func(error)
	stopped  bool
}

func (p *fakeProvider) Watch(ctx context.Context, onSample func(models.LocationSample), onError func(error)) (func(), error) {
	p.onSample = onSample
	p.onError = onError
	return func() { p.stopped = true }, nil
}

type publishCall struct {
	courierID uuid.UUID
	orderID   *uuid.UUID
	sample    models.LocationSample
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (p *fakePublisher) Publish(ctx context.Context, courierID uuid.UUID, orderID *uuid.UUID, sample models.LocationSample) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{courierID: courierID, orderID: orderID, sample: sample})
	return p.err
}

func (p *fakePublisher) published() []publishCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishCall(nil), p.calls...)
}

func sampleAt(lat float64) models.LocationSample {
	return models.LocationSample{Latitude: lat, Longitude: 42.97, Timestamp: time.Now()}
}

func TestSampler_ThrottlesWithinWindow(t *testing.T) {
	provider := &fakeProvider{}
	publisher := &fakePublisher{}
	s := NewSampler(provider, publisher, "test", testLog)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	courierID := uuid.New()
	if err := s.Start(context.Background(), courierID, nil, nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	// First sample is always accepted.
	provider.onSample(sampleAt(36.86))

	// Two and four seconds later: still inside the 5s window, dropped.
	clock = clock.Add(2 * time.Second)
	provider.onSample(sampleAt(36.87))
	clock = clock.Add(2 * time.Second)
	provider.onSample(sampleAt(36.88))

	// Crossing the window reopens the bucket.
	clock = clock.Add(2 * time.Second)
	provider.onSample(sampleAt(36.89))

	calls := publisher.published()
	if len(calls) != 2 {
		t.Fatalf("expected 2 published samples, got %d", len(calls))
	}
	if calls[0].sample.Latitude != 36.86 || calls[1].sample.Latitude != 36.89 {
		t.Fatalf("wrong samples survived the throttle: %+v", calls)
	}
	if calls[0].courierID != courierID {
		t.Fatalf("published for courier %s, want %s", calls[0].courierID, courierID)
	}
}

func TestSampler_PublishFailureDoesNotStopStream(t *testing.T) {
	provider := &fakeProvider{}
	publisher := &fakePublisher{err: errors.New("broker down")}
	s := NewSampler(provider, publisher, "test", testLog)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	var gotErr error
	onError := func(err error) { gotErr = err }

	if err := s.Start(context.Background(), uuid.New(), nil, onError); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	provider.onSample(sampleAt(36.86))
	if gotErr == nil {
		t.Fatal("publish failure must be surfaced via onError")
	}

	// The stream keeps flowing: the next accepted sample publishes again.
	publisher.err = nil
	clock = clock.Add(6 * time.Second)
	provider.onSample(sampleAt(36.87))

	if n := len(publisher.published()); n != 2 {
		t.Fatalf("expected 2 publish attempts, got %d", n)
	}
}

func TestSampler_SetOrderTagsSubsequentSamples(t *testing.T) {
	provider := &fakeProvider{}
	publisher := &fakePublisher{}
	s := NewSampler(provider, publisher, "test", testLog)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	if err := s.Start(context.Background(), uuid.New(), nil, nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	provider.onSample(sampleAt(36.86))

	orderID := uuid.New()
	s.SetOrder(&orderID)
	clock = clock.Add(6 * time.Second)
	provider.onSample(sampleAt(36.87))

	calls := publisher.published()
	if len(calls) != 2 {
		t.Fatalf("expected 2 published samples, got %d", len(calls))
	}
	if calls[0].orderID != nil {
		t.Fatal("first sample published before an order was set")
	}
	if calls[1].orderID == nil || *calls[1].orderID != orderID {
		t.Fatalf("second sample not tagged with order: %+v", calls[1].orderID)
	}
}

func TestSampler_StartTwice(t *testing.T) {
	s := NewSampler(&fakeProvider{}, &fakePublisher{}, "test", testLog)

	if err := s.Start(context.Background(), uuid.New(), nil, nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if err := s.Start(context.Background(), uuid.New(), nil, nil); !errors.Is(err, types.ErrSamplerStarted) {
		t.Fatalf("expected ErrSamplerStarted, got %v", err)
	}
}

func TestSampler_StopIsIdempotent(t *testing.T) {
	provider := &fakeProvider{}
	s := NewSampler(provider, &fakePublisher{}, "test", testLog)

	if err := s.Start(context.Background(), uuid.New(), nil, nil); err != nil {
		t.Fatalf("start: %v", err)
	}

	s.Stop()
	if !provider.stopped {
		t.Fatal("stop must cancel observation")
	}
	s.Stop() // no panic, no effect
}

func TestSampler_FillsMissingTimestamp(t *testing.T) {
	provider := &fakeProvider{}
	publisher := &fakePublisher{}
	s := NewSampler(provider, publisher, "test", testLog)

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	if err := s.Start(context.Background(), uuid.New(), nil, nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	provider.onSample(models.LocationSample{Latitude: 36.86, Longitude: 42.97})

	calls := publisher.published()
	if len(calls) != 1 {
		t.Fatalf("expected 1 published sample, got %d", len(calls))
	}
	if !calls[0].sample.Timestamp.Equal(clock) {
		t.Fatalf("zero timestamp must be stamped with the accept time, got %v", calls[0].sample.Timestamp)
	}
}
