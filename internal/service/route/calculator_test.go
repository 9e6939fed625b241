package route

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

type fakeFetcher struct {
	route models.Route
	err   error
	calls int
}

func (f *fakeFetcher) Route(ctx context.Context, origin, destination models.Location) (models.Route, error) {
	f.calls++
	return f.route, f.err
}

var testLog = logger.InitLogger("test", logger.LevelError)

func TestComputeRoute_UsesFetchedRoute(t *testing.T) {
	fetched := models.Route{
		Polyline:        []models.Location{{Latitude: 36.86, Longitude: 42.97}, {Latitude: 36.87, Longitude: 42.99}},
		DistanceMeters:  950,
		DurationSeconds: 180,
	}
	calc := NewCalculator(&fakeFetcher{route: fetched}, "test", testLog)

	got := calc.ComputeRoute(context.Background(), fetched.Polyline[0], fetched.Polyline[1])
	if got.Estimated {
		t.Fatal("fetched route must not be marked estimated")
	}
	if got.DistanceMeters != 950 || got.DurationSeconds != 180 {
		t.Fatalf("unexpected route: %+v", got)
	}
}

func TestComputeRoute_FallsBackOnError(t *testing.T) {
	calc := NewCalculator(&fakeFetcher{err: errors.New("osrm down")}, "test", testLog)

	origin := models.Location{Latitude: 36.8619, Longitude: 42.9788}
	dest := models.Location{Latitude: 36.8719, Longitude: 42.9888}

	got := calc.ComputeRoute(context.Background(), origin, dest)
	if !got.Estimated {
		t.Fatal("fallback route must be marked estimated")
	}
	want := Fallback(origin, dest)
	if got.DistanceMeters != want.DistanceMeters {
		t.Fatalf("fallback distance = %f, want %f", got.DistanceMeters, want.DistanceMeters)
	}
	if len(got.Polyline) != 2 {
		t.Fatalf("fallback polyline must be the straight line, got %d points", len(got.Polyline))
	}
}

func TestComputeRoute_FallsBackWithoutFetcher(t *testing.T) {
	calc := NewCalculator(nil, "test", testLog)

	got := calc.ComputeRoute(context.Background(),
		models.Location{Latitude: 36.86, Longitude: 42.97},
		models.Location{Latitude: 36.87, Longitude: 42.99},
	)
	if !got.Estimated {
		t.Fatal("expected estimated route when no fetcher is configured")
	}
}

func TestFallback_DurationMatchesAssumedSpeed(t *testing.T) {
	origin := models.Location{Latitude: 36.8619, Longitude: 42.9788}
	dest := models.Location{Latitude: 36.9619, Longitude: 42.9788}

	r := Fallback(origin, dest)

	// duration = distance / 30 km/h
	wantSec := (r.DistanceMeters / 1000.0) / 30.0 * 3600.0
	if math.Abs(r.DurationSeconds-wantSec) > 0.001 {
		t.Fatalf("duration = %f, want %f", r.DurationSeconds, wantSec)
	}
}

func TestHaversineMeters_KnownDistance(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	d := HaversineMeters(36.0, 43.0, 37.0, 43.0)
	if d < 110_000 || d > 112_500 {
		t.Fatalf("unexpected distance for one degree of latitude: %f m", d)
	}

	if z := HaversineMeters(36.5, 43.5, 36.5, 43.5); z != 0 {
		t.Fatalf("distance between identical points = %f, want 0", z)
	}
}

func TestHaversineKm(t *testing.T) {
	p1 := models.Location{Latitude: 36.0, Longitude: 43.0}
	p2 := models.Location{Latitude: 37.0, Longitude: 43.0}

	km := HaversineKm(p1, p2)
	m := HaversineMeters(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude)
	if math.Abs(km*1000-m) > 0.001 {
		t.Fatalf("km and meter variants disagree: %f vs %f", km*1000, m)
	}
}
