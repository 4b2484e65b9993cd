package domain

import "time"

// AssignmentStatus represents the current status of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "ACTIVE"
	AssignmentStatusCompleted AssignmentStatus = "COMPLETED"
)

// Assignment is one checkout/checkin trip record for a vehicle and
// driver. The checkout fills the starting half; the checkin closes the
// record, after which it is immutable history.
type Assignment struct {
	ID        string
	VehicleID string
	DriverID  string
	Status    AssignmentStatus

	StartingOdometer int64
	EndingOdometer   int64 // meaningful only once Status is COMPLETED
	StartingFuel     float64
	EndingFuel       float64
	TotalDistance    int64

	Destination string
	Purpose     string
	TripNotes   string

	CheckoutSignature string
	CheckinSignature  string

	CheckedOutAt time.Time
	CheckedInAt  time.Time
}
