package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

const defaultBaseURL = "https://router.project-osrm.org"

// Client calls an OSRM-compatible routing service. No authentication.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // lng/lat pairs
		} `json:"geometry"`
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

// Route fetches the driving route between two points.
// Coordinates go on the wire longitude-first, per the OSRM convention.
func (c *Client) Route(ctx context.Context, origin, destination models.Location) (models.Route, error) {
	const op = "osrm.Client.Route"

	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Route{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.Route{}, wrap.Error(ctx, fmt.Errorf("%s: request failed: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.Route{}, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Route{}, wrap.Error(ctx, fmt.Errorf("%s: failed to decode response: %w", op, err))
	}

	if len(payload.Routes) == 0 {
		return models.Route{}, wrap.Error(ctx, fmt.Errorf("%s: %w: empty route list", op, types.ErrRoutingServiceFailed))
	}

	best := payload.Routes[0]
	polyline := make([]models.Location, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		polyline = append(polyline, models.Location{
			Longitude: pair[0],
			Latitude:  pair[1],
		})
	}

	return models.Route{
		Polyline:        polyline,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}
