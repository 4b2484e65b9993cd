package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles vehicle snapshot caching in Redis. Snapshots are
// short-lived read-side copies; every lifecycle write invalidates the
// entry so the database stays the source of truth.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// VehicleCacheTTL bounds how stale a cached vehicle snapshot can get.
const VehicleCacheTTL = 30 * time.Second

const vehicleCachePrefix = "cache:vehicle:"

// CachedVehicle is the cached read-side view of a vehicle.
type CachedVehicle struct {
	ID                  string  `json:"id"`
	Make                string  `json:"make"`
	Model               string  `json:"model"`
	Year                int     `json:"year"`
	LicensePlate        string  `json:"license_plate"`
	Status              string  `json:"status"`
	CurrentOdometer     int64   `json:"current_odometer"`
	FuelLevel           float64 `json:"fuel_level"`
	CurrentDriverID     string  `json:"current_driver_id,omitempty"`
	NextServiceOdometer int64   `json:"next_service_odometer"`
}

// GetVehicle retrieves a vehicle snapshot from cache. A cache miss
// returns (nil, nil).
func (s *CacheStore) GetVehicle(ctx context.Context, vehicleID string) (*CachedVehicle, error) {
	data, err := s.client.Get(ctx, vehicleCachePrefix+vehicleID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var v CachedVehicle
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVehicle stores a vehicle snapshot in cache.
func (s *CacheStore) SetVehicle(ctx context.Context, v *CachedVehicle) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, vehicleCachePrefix+v.ID, data, VehicleCacheTTL).Err()
}

// InvalidateVehicle removes a vehicle snapshot from cache.
func (s *CacheStore) InvalidateVehicle(ctx context.Context, vehicleID string) error {
	return s.client.Del(ctx, vehicleCachePrefix+vehicleID).Err()
}
