package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateActive is returned when inserting a second active
	// assignment for the same vehicle (unique partial index violation).
	ErrDuplicateActive = errors.New("vehicle already has an active assignment")
)
