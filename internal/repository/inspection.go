package repository

import (
	"context"

	"github.com/heinNell/Asset-Management/internal/domain"
)

// InspectionRepository defines the persistence operations for
// inspections. Inspections are append-only apart from the reviewer
// fields.
type InspectionRepository interface {
	// Create persists a new inspection.
	Create(ctx context.Context, inspection *domain.Inspection) error

	// GetByID retrieves an inspection by ID.
	GetByID(ctx context.Context, id string) (*domain.Inspection, error)

	// GetByVehicleID retrieves inspections for a vehicle, newest first.
	GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Inspection, error)

	// UpdateReview sets the reviewer status and notes on an inspection.
	UpdateReview(ctx context.Context, id string, status domain.ReviewStatus, reviewedBy, notes string) error
}
