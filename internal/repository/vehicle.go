package repository

import (
	"context"

	"github.com/heinNell/Asset-Management/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetAll retrieves vehicles, optionally filtered by status.
	// An empty status returns every vehicle.
	GetAll(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error)

	// Update updates an existing vehicle.
	Update(ctx context.Context, vehicle *domain.Vehicle) error
}
