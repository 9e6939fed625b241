package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

type fixedCalc struct {
	route models.Route
	calls int
}

func (c *fixedCalc) ComputeRoute(ctx context.Context, origin, destination models.Location) models.Route {
	c.calls++
	return c.route
}

func trackedOrder() *models.Order {
	courierID := uuid.New()
	return &models.Order{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		CourierID:   &courierID,
		Status:      types.StatusOnTheWay,
		Destination: &models.Location{Latitude: 36.8719, Longitude: 42.9888},
	}
}

func locUpdate(courierID uuid.UUID, lat float64, at time.Time) models.CourierLocationUpdate {
	return models.CourierLocationUpdate{
		CourierID: courierID,
		Latitude:  lat,
		Longitude: 42.97,
		UpdatedAt: at,
	}
}

func TestSession_SnapshotBeforeFirstPosition(t *testing.T) {
	order := trackedOrder()
	s := NewSession(order, &fixedCalc{})

	if _, ok := s.Snapshot(context.Background()); ok {
		t.Fatal("snapshot must report false before any position arrived")
	}
}

func TestSession_LastWriteWinsByTimestamp(t *testing.T) {
	order := trackedOrder()
	s := NewSession(order, &fixedCalc{})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if !s.ApplyLocation(locUpdate(*order.CourierID, 36.86, base)) {
		t.Fatal("first location must be applied")
	}

	// Duplicate delivery of the same message is a no-op.
	if s.ApplyLocation(locUpdate(*order.CourierID, 36.86, base)) {
		t.Fatal("duplicate message must be dropped")
	}

	// A replayed older position never moves the marker backwards.
	if s.ApplyLocation(locUpdate(*order.CourierID, 30.00, base.Add(-10*time.Second))) {
		t.Fatal("stale message must be dropped")
	}

	// Fresher positions win.
	if !s.ApplyLocation(locUpdate(*order.CourierID, 36.88, base.Add(5*time.Second))) {
		t.Fatal("newer message must be applied")
	}

	snap, ok := s.Snapshot(context.Background())
	if !ok {
		t.Fatal("snapshot expected after applied positions")
	}
	if snap.Courier.Latitude != 36.88 {
		t.Fatalf("marker latitude = %f, want 36.88", snap.Courier.Latitude)
	}
}

func TestSession_SeedLosesToFresherStream(t *testing.T) {
	order := trackedOrder()
	s := NewSession(order, &fixedCalc{})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// A streamed position raced ahead of the snapshot fetch.
	s.ApplyLocation(locUpdate(*order.CourierID, 36.88, base.Add(3*time.Second)))

	seeded := s.Seed(models.CourierLocation{
		CourierID: *order.CourierID,
		Latitude:  36.86,
		Longitude: 42.97,
		UpdatedAt: base,
	})
	if seeded {
		t.Fatal("older seed must not overwrite a fresher streamed position")
	}

	snap, _ := s.Snapshot(context.Background())
	if snap.Courier.Latitude != 36.88 {
		t.Fatalf("marker latitude = %f, want streamed 36.88", snap.Courier.Latitude)
	}
}

func TestSession_StatusStaleness(t *testing.T) {
	order := trackedOrder()
	s := NewSession(order, &fixedCalc{})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if !s.ApplyStatus(models.OrderStatusUpdate{OrderID: order.ID, Status: types.StatusDelivered, Timestamp: base}) {
		t.Fatal("first status must be applied")
	}
	if s.ApplyStatus(models.OrderStatusUpdate{OrderID: order.ID, Status: types.StatusOnTheWay, Timestamp: base.Add(-time.Second)}) {
		t.Fatal("stale status must be dropped")
	}
	if !s.Terminal() {
		t.Fatal("session must be terminal after DELIVERED")
	}
}

func TestSession_SnapshotRecomputesRoute(t *testing.T) {
	order := trackedOrder()
	calc := &fixedCalc{route: models.Route{
		DistanceMeters:  950,
		DurationSeconds: 180,
		Polyline:        []models.Location{{Latitude: 36.86, Longitude: 42.97}},
	}}
	s := NewSession(order, calc)

	s.ApplyLocation(locUpdate(*order.CourierID, 36.86, time.Now()))

	snap, ok := s.Snapshot(context.Background())
	if !ok {
		t.Fatal("expected snapshot")
	}
	if calc.calls != 1 {
		t.Fatalf("route must be recomputed per snapshot, calls = %d", calc.calls)
	}
	if snap.DistanceText != "950 m" {
		t.Fatalf("distance text = %q, want %q", snap.DistanceText, "950 m")
	}
	if snap.DurationText != "3 min" {
		t.Fatalf("duration text = %q, want %q", snap.DurationText, "3 min")
	}
	if snap.OrderID != order.ID || snap.Status != types.StatusOnTheWay {
		t.Fatalf("unexpected snapshot header: %+v", snap)
	}
	if snap.Destination.Latitude != order.Destination.Latitude {
		t.Fatal("snapshot destination must come from the order")
	}
}
