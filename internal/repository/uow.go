package repository

import "context"

// Repos bundles the transaction-scoped repositories handed to a unit of
// work callback.
type Repos struct {
	Vehicles    VehicleRepository
	Assignments AssignmentRepository
	Inspections InspectionRepository
}

// UnitOfWork runs a function against a single atomic scope. Either
// every write inside the callback is applied or none is, so a vehicle
// status flip and its assignment write can never be observed apart.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repos) error) error
}
