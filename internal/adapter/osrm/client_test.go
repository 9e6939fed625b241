package osrm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
)

var (
	origin = models.Location{Latitude: 36.8619, Longitude: 42.9788}
	dest   = models.Location{Latitude: 36.8719, Longitude: 42.9888}
)

func TestRoute_ParsesResponse(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"geometry": {"coordinates": [[42.9788, 36.8619], [42.9888, 36.8719]]},
				"distance": 950.0,
				"duration": 180.0
			}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	r, err := c.Route(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/route/v1/driving/") {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if r.DistanceMeters != 950 || r.DurationSeconds != 180 {
		t.Fatalf("unexpected route: %+v", r)
	}
	if len(r.Polyline) != 2 {
		t.Fatalf("expected 2 polyline points, got %d", len(r.Polyline))
	}
	// GeoJSON pairs are longitude-first; the model is lat/lng.
	if r.Polyline[0].Latitude != 36.8619 || r.Polyline[0].Longitude != 42.9788 {
		t.Fatalf("polyline coordinate order wrong: %+v", r.Polyline[0])
	}
	if r.Estimated {
		t.Fatal("fetched route must not be estimated")
	}
}

func TestRoute_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Route(context.Background(), origin, dest); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestRoute_EmptyRouteList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Route(context.Background(), origin, dest)
	if !errors.Is(err, types.ErrRoutingServiceFailed) {
		t.Fatalf("expected ErrRoutingServiceFailed, got %v", err)
	}
}

func TestRoute_SkipsMalformedCoordinatePairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"geometry": {"coordinates": [[42.9788, 36.8619], [42.0], [42.9888, 36.8719]]},
				"distance": 100.0,
				"duration": 60.0
			}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	r, err := c.Route(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Polyline) != 2 {
		t.Fatalf("malformed pair should be skipped, got %d points", len(r.Polyline))
	}
}
