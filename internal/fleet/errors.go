package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrVehicleNotAvailable is returned when checkout is attempted on
	// a vehicle that is not in the AVAILABLE state.
	ErrVehicleNotAvailable = errors.New("vehicle is not available for checkout")

	// ErrAssignmentConflict is returned when a concurrent lifecycle
	// operation on the same vehicle wins the race.
	ErrAssignmentConflict = errors.New("vehicle has a concurrent assignment operation in progress")

	// ErrAssignmentNotActive is returned when checkin is attempted on
	// an assignment that is not active.
	ErrAssignmentNotActive = errors.New("assignment is not active")

	// ErrServiceOverdue is returned when checkout is blocked because
	// the vehicle is past its service interval.
	ErrServiceOverdue = errors.New("vehicle service is overdue")

	// ErrStorageTimeout is returned when a persistence call exceeds its
	// deadline. Reads may be retried; writes should be retried only
	// with an idempotency key.
	ErrStorageTimeout = errors.New("storage operation timed out")

	// ErrInvalidVehicleID is returned when a vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidAssignmentID is returned when an assignment ID is empty.
	ErrInvalidAssignmentID = errors.New("invalid assignment id")

	// ErrInvalidInspectionID is returned when an inspection ID is empty.
	ErrInvalidInspectionID = errors.New("invalid inspection id")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level validation failures so callers
// can render per-field feedback.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError builds a ValidationError from field errors.
func newValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// storageErr maps a persistence failure to the service taxonomy. A
// deadline hit becomes ErrStorageTimeout; everything else passes
// through unchanged.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStorageTimeout
	}
	return err
}
