package repository

import (
	"context"

	"github.com/heinNell/Asset-Management/internal/domain"
)

// AssignmentRepository defines the persistence operations for
// checkout/checkin assignments.
type AssignmentRepository interface {
	// Create persists a new assignment.
	Create(ctx context.Context, assignment *domain.Assignment) error

	// GetByID retrieves an assignment by ID.
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)

	// GetActiveByVehicleID retrieves the active assignment for a
	// vehicle. Returns nil if no active assignment exists.
	GetActiveByVehicleID(ctx context.Context, vehicleID string) (*domain.Assignment, error)

	// GetByVehicleID retrieves assignment history for a vehicle,
	// newest first.
	GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Assignment, error)

	// GetByDriverID retrieves assignment history for a driver,
	// newest first.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Assignment, error)

	// GetRecent retrieves the most recent assignments across the fleet.
	GetRecent(ctx context.Context, limit int) ([]*domain.Assignment, error)

	// Update updates an existing assignment.
	Update(ctx context.Context, assignment *domain.Assignment) error
}
