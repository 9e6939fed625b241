package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/models"
	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

const (
	locationKeyPrefix = "courier:location:"
	locationGeoKey    = "couriers:geo"

	// locationTTL bounds staleness: a courier that stops publishing
	// disappears from the cache and reads fall through to Postgres.
	locationTTL = 5 * time.Minute
)

// LocationCache keeps the latest courier position in Redis: a JSON value
// per courier for point reads plus a shared geo set for radius queries.
type LocationCache struct {
	client *redis.Client
}

func NewLocationCache(client *redis.Client) *LocationCache {
	return &LocationCache{client: client}
}

func locationKey(courierID uuid.UUID) string {
	return locationKeyPrefix + courierID.String()
}

func (c *LocationCache) SetLatest(ctx context.Context, loc models.CourierLocation) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("location cache: marshal: %w", err))
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, locationKey(loc.CourierID), data, locationTTL)
	pipe.GeoAdd(ctx, locationGeoKey, &redis.GeoLocation{
		Name:      loc.CourierID.String(),
		Longitude: loc.Longitude,
		Latitude:  loc.Latitude,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("location cache: set: %w", err))
	}
	return nil
}

func (c *LocationCache) GetLatest(ctx context.Context, courierID uuid.UUID) (models.CourierLocation, error) {
	data, err := c.client.Get(ctx, locationKey(courierID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.CourierLocation{}, types.ErrLocationNotAvailable
		}
		return models.CourierLocation{}, wrap.Error(ctx, fmt.Errorf("location cache: get: %w", err))
	}

	var loc models.CourierLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		return models.CourierLocation{}, wrap.Error(ctx, fmt.Errorf("location cache: unmarshal: %w", err))
	}
	return loc, nil
}

func (c *LocationCache) Remove(ctx context.Context, courierID uuid.UUID) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, locationKey(courierID))
	pipe.ZRem(ctx, locationGeoKey, courierID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("location cache: remove: %w", err))
	}
	return nil
}

// Nearby returns courier IDs within radiusKm of the given point, closest
// first. Backed by the geo set, so only couriers with a cached position
// are returned.
func (c *LocationCache) Nearby(ctx context.Context, center models.Location, radiusKm float64, limit int) ([]uuid.UUID, error) {
	results, err := c.client.GeoSearch(ctx, locationGeoKey, &redis.GeoSearchQuery{
		Longitude:  center.Longitude,
		Latitude:   center.Latitude,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      limit,
	}).Result()
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("location cache: geo search: %w", err))
	}

	ids := make([]uuid.UUID, 0, len(results))
	for _, name := range results {
		id, err := uuid.Parse(name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
