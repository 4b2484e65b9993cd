package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for per-vehicle distributed
// locking.
type LockStoreInterface interface {
	AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error)
	ReleaseVehicleLock(ctx context.Context, vehicleID string) error
}

// CacheStoreInterface defines the interface for vehicle snapshot
// caching.
type CacheStoreInterface interface {
	GetVehicle(ctx context.Context, vehicleID string) (*CachedVehicle, error)
	SetVehicle(ctx context.Context, v *CachedVehicle) error
	InvalidateVehicle(ctx context.Context, vehicleID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
