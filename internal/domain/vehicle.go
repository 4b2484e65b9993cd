package domain

import "time"

// VehicleStatus represents the current status of a vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusInUse        VehicleStatus = "IN_USE"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

// Vehicle represents a fleet vehicle. The odometer is monotonically
// non-decreasing over the vehicle's lifetime; status transitions go
// through the assignment lifecycle only.
type Vehicle struct {
	ID              string
	Make            string
	Model           string
	Year            int
	LicensePlate    string
	Status          VehicleStatus
	CurrentOdometer int64
	FuelLevel       float64 // percentage, 0-100
	CurrentDriverID string  // empty unless status is IN_USE

	LastServiceOdometer int64
	NextServiceOdometer int64
	ServiceInterval     int64 // distance units between services
	LastServiceAt       time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceStatus is the derived service-interval view of a vehicle.
// It is computed on demand and never persisted.
type ServiceStatus struct {
	DistanceRemaining      int64
	IsOverdue              bool
	EstimatedDaysRemaining int
}
