package route

import (
	"context"
	"math"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
	"github.com/yasir870/khobzak-delivery-system/pkg/metrics"
)

const (
	earthRadiusKm = 6371 // радиус Земли в км
	earthRadiusM  = 6371000.0

	// fallbackSpeedKmh is the assumed average courier speed used to
	// estimate duration when the routing service is unreachable.
	fallbackSpeedKmh = 30.0
)

// Calculator turns two coordinates into a distance/duration and, when the
// routing service cooperates, a drawable polyline. It never fails: any
// service error degrades to a great-circle estimate.
type Calculator struct {
	fetcher     Fetcher
	serviceName string
	l           logger.Logger
}

func NewCalculator(fetcher Fetcher, serviceName string, l logger.Logger) *Calculator {
	return &Calculator{
		fetcher:     fetcher,
		serviceName: serviceName,
		l:           l,
	}
}

// ComputeRoute resolves the driving route from origin to destination.
// Stateless and safe to call on every location event.
func (c *Calculator) ComputeRoute(ctx context.Context, origin, destination models.Location) models.Route {
	if c.fetcher != nil {
		r, err := c.fetcher.Route(ctx, origin, destination)
		if err == nil && len(r.Polyline) > 0 {
			return r
		}
		if err != nil {
			c.l.Warn(ctx, "routing service failed, falling back to great-circle estimate", "error", err.Error())
		}
	}

	metrics.RoutingFallbacksTotal.WithLabelValues(c.serviceName).Inc()
	return Fallback(origin, destination)
}

// Fallback builds a great-circle estimate: haversine distance, duration at
// a fixed average speed, straight-line polyline for drawing.
func Fallback(origin, destination models.Location) models.Route {
	distance := HaversineMeters(origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)
	durationSec := (distance / 1000.0) / fallbackSpeedKmh * 3600.0

	return models.Route{
		Polyline:        []models.Location{origin, destination},
		DistanceMeters:  distance,
		DurationSeconds: durationSec,
		Estimated:       true,
	}
}

// HaversineMeters computes the great-circle distance between two points in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lon1Rad := degreesToRadians(lon1)
	lat2Rad := degreesToRadians(lat2)
	lon2Rad := degreesToRadians(lon2)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Pow(math.Sin(deltaLon/2), 2)

	angle := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * angle
}

// HaversineKm computes the great-circle distance between two points in kilometers.
func HaversineKm(p1, p2 models.Location) float64 {
	return HaversineMeters(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude) / 1000.0
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
