package courier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

var testLog = logger.InitLogger("test", logger.LevelError)

type fakeRepo struct {
	couriers map[uuid.UUID]*models.Courier
}

func (r *fakeRepo) Get(ctx context.Context, courierID uuid.UUID) (*models.Courier, error) {
	c, ok := r.couriers[courierID]
	if !ok {
		return nil, types.ErrCourierNotFound
	}
	return c, nil
}

func (r *fakeRepo) ChangeStatus(ctx context.Context, courierID uuid.UUID, newStatus types.CourierStatus) (types.CourierStatus, error) {
	c, ok := r.couriers[courierID]
	if !ok {
		return "", types.ErrCourierNotFound
	}
	old := c.Status
	c.Status = newStatus
	return old, nil
}

func (r *fakeRepo) ListOnline(ctx context.Context) ([]models.Courier, error) { return nil, nil }

func (r *fakeRepo) CountOnline(ctx context.Context) (int, error) { return 0, nil }

type fakeFetcher struct {
	loc models.CourierLocation
	err error
}

func (f *fakeFetcher) FetchLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error) {
	return f.loc, f.err
}

type fakeCache struct {
	removed []uuid.UUID
	err     error
}

func (c *fakeCache) Remove(ctx context.Context, courierID uuid.UUID) error {
	c.removed = append(c.removed, courierID)
	return c.err
}

type fakeGeocoder struct {
	address string
	err     error
}

func (g *fakeGeocoder) GetAddress(ctx context.Context, longitude, latitude float64) (string, error) {
	return g.address, g.err
}

type fakeStatusPublisher struct {
	msgs []models.CourierStatusUpdate
}

func (p *fakeStatusPublisher) PublishCourierStatus(ctx context.Context, msg models.CourierStatusUpdate) error {
	p.msgs = append(p.msgs, msg)
	return nil
}

func newFixture(status types.CourierStatus) (*Service, uuid.UUID, *fakeRepo, *fakeCache, *fakeStatusPublisher) {
	id := uuid.New()
	repo := &fakeRepo{couriers: map[uuid.UUID]*models.Courier{
		id: {ID: id, Status: status},
	}}
	cache := &fakeCache{}
	pub := &fakeStatusPublisher{}
	svc := New(repo, &fakeFetcher{err: types.ErrLocationNotAvailable}, cache, nil, pub, testLog)
	return svc, id, repo, cache, pub
}

func TestGoOnline(t *testing.T) {
	svc, id, repo, _, pub := newFixture(types.StatusCourierOffline)

	if err := svc.GoOnline(context.Background(), id); err != nil {
		t.Fatalf("go online: %v", err)
	}
	if repo.couriers[id].Status != types.StatusCourierAvailable {
		t.Fatalf("status = %s, want AVAILABLE", repo.couriers[id].Status)
	}
	if len(pub.msgs) != 1 || pub.msgs[0].Status != types.StatusCourierAvailable {
		t.Fatalf("expected one AVAILABLE status message, got %+v", pub.msgs)
	}
}

func TestGoOnline_AlreadyOnline(t *testing.T) {
	svc, id, _, _, _ := newFixture(types.StatusCourierAvailable)

	if err := svc.GoOnline(context.Background(), id); !errors.Is(err, types.ErrCourierAlreadyOnline) {
		t.Fatalf("expected ErrCourierAlreadyOnline, got %v", err)
	}
}

func TestGoOffline_EvictsCachedLocation(t *testing.T) {
	svc, id, repo, cache, _ := newFixture(types.StatusCourierAvailable)

	if err := svc.GoOffline(context.Background(), id); err != nil {
		t.Fatalf("go offline: %v", err)
	}
	if repo.couriers[id].Status != types.StatusCourierOffline {
		t.Fatalf("status = %s, want OFFLINE", repo.couriers[id].Status)
	}
	if len(cache.removed) != 1 || cache.removed[0] != id {
		t.Fatal("cached position must be evicted on going offline")
	}
}

func TestGoOffline_AlreadyOffline(t *testing.T) {
	svc, id, _, _, _ := newFixture(types.StatusCourierOffline)

	if err := svc.GoOffline(context.Background(), id); !errors.Is(err, types.ErrCourierAlreadyOffline) {
		t.Fatalf("expected ErrCourierAlreadyOffline, got %v", err)
	}
}

func TestGoOffline_CacheFailureIsNotFatal(t *testing.T) {
	svc, id, _, cache, _ := newFixture(types.StatusCourierAvailable)
	cache.err = errors.New("redis down")

	if err := svc.GoOffline(context.Background(), id); err != nil {
		t.Fatalf("cache eviction failure must not fail the toggle, got %v", err)
	}
}

func TestStartDelivery(t *testing.T) {
	svc, id, repo, _, pub := newFixture(types.StatusCourierAvailable)
	orderID := uuid.New()

	if err := svc.StartDelivery(context.Background(), id, orderID); err != nil {
		t.Fatalf("start delivery: %v", err)
	}
	if repo.couriers[id].Status != types.StatusCourierDelivering {
		t.Fatalf("status = %s, want DELIVERING", repo.couriers[id].Status)
	}
	last := pub.msgs[len(pub.msgs)-1]
	if last.OrderID == nil || *last.OrderID != orderID {
		t.Fatal("delivery status message must carry the order id")
	}
}

func TestStartDelivery_Offline(t *testing.T) {
	svc, id, _, _, _ := newFixture(types.StatusCourierOffline)

	if err := svc.StartDelivery(context.Background(), id, uuid.New()); !errors.Is(err, types.ErrCourierOffline) {
		t.Fatalf("expected ErrCourierOffline, got %v", err)
	}
}

func TestWhereAmI(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{couriers: map[uuid.UUID]*models.Courier{id: {ID: id, Status: types.StatusCourierAvailable}}}
	fetcher := &fakeFetcher{loc: models.CourierLocation{
		CourierID: id,
		Latitude:  36.8619,
		Longitude: 42.9788,
		UpdatedAt: time.Now(),
	}}

	t.Run("with reverse geocoding", func(t *testing.T) {
		svc := New(repo, fetcher, nil, &fakeGeocoder{address: "Bakery Lane, Duhok"}, nil, testLog)
		loc, err := svc.WhereAmI(context.Background(), id)
		if err != nil {
			t.Fatalf("where am i: %v", err)
		}
		if loc.Address != "Bakery Lane, Duhok" {
			t.Fatalf("address = %q", loc.Address)
		}
	})

	t.Run("geocoding failure degrades to coordinates", func(t *testing.T) {
		svc := New(repo, fetcher, nil, &fakeGeocoder{err: errors.New("quota exceeded")}, nil, testLog)
		loc, err := svc.WhereAmI(context.Background(), id)
		if err != nil {
			t.Fatalf("where am i: %v", err)
		}
		if loc.Address != "" {
			t.Fatal("failed geocoding must leave address empty")
		}
		if loc.DisplayAddress() != "36.86190, 42.97880" {
			t.Fatalf("display address = %q", loc.DisplayAddress())
		}
	})

	t.Run("no published position", func(t *testing.T) {
		svc := New(repo, &fakeFetcher{err: types.ErrLocationNotAvailable}, nil, nil, nil, testLog)
		if _, err := svc.WhereAmI(context.Background(), id); !errors.Is(err, types.ErrLocationNotAvailable) {
			t.Fatalf("expected ErrLocationNotAvailable, got %v", err)
		}
	})
}
