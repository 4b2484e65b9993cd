package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed per-vehicle locking in Redis. A vehicle
// lock is the serialization point for checkout/checkin: while held, no
// other lifecycle operation may touch the vehicle.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireVehicleLock attempts to acquire a lock for the given vehicle.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:vehicle:%s", vehicleID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseVehicleLock releases the lock for the given vehicle.
func (s *LockStore) ReleaseVehicleLock(ctx context.Context, vehicleID string) error {
	key := fmt.Sprintf("lock:vehicle:%s", vehicleID)

	return s.client.Del(ctx, key).Err()
}
