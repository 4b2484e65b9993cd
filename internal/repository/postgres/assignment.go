package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// AssignmentRepository is a PostgreSQL implementation of repository.AssignmentRepository.
type AssignmentRepository struct {
	q Querier
}

// NewAssignmentRepository creates a new PostgreSQL assignment repository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{q: db}
}

// NewAssignmentRepositoryWithTx creates an assignment repository using a transaction.
func NewAssignmentRepositoryWithTx(tx *sql.Tx) *AssignmentRepository {
	return &AssignmentRepository{q: tx}
}

const assignmentColumns = `
	id, vehicle_id, driver_id, status,
	starting_odometer, ending_odometer, starting_fuel, ending_fuel,
	total_distance, destination, purpose, trip_notes,
	checkout_signature, checkin_signature, checked_out_at, checked_in_at
`

// Create persists a new assignment. A unique partial index on
// assignments(vehicle_id) WHERE status = 'ACTIVE' backs the
// one-active-assignment invariant at the schema level; a violation is
// surfaced as repository.ErrDuplicateActive.
func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	query := `
		INSERT INTO assignments (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.q.ExecContext(ctx, query,
		a.ID,
		a.VehicleID,
		a.DriverID,
		a.Status,
		a.StartingOdometer,
		nullInt64(a.EndingOdometer, a.Status == domain.AssignmentStatusCompleted),
		a.StartingFuel,
		nullFloat64(a.EndingFuel, a.Status == domain.AssignmentStatusCompleted),
		a.TotalDistance,
		a.Destination,
		a.Purpose,
		a.TripNotes,
		a.CheckoutSignature,
		nullString(a.CheckinSignature),
		a.CheckedOutAt,
		nullTime(a.CheckedInAt),
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrDuplicateActive
	}

	return err
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	a, err := scanAssignment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return a, nil
}

// GetActiveByVehicleID retrieves the active assignment for a vehicle.
// Returns nil if no active assignment exists.
func (r *AssignmentRepository) GetActiveByVehicleID(ctx context.Context, vehicleID string) (*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE vehicle_id = $1 AND status = $2
		LIMIT 1
	`

	a, err := scanAssignment(r.q.QueryRowContext(ctx, query, vehicleID, domain.AssignmentStatusActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return a, nil
}

// GetByVehicleID retrieves assignment history for a vehicle, newest first.
func (r *AssignmentRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE vehicle_id = $1
		ORDER BY checked_out_at DESC
		LIMIT 200
	`

	return r.queryAssignments(ctx, query, vehicleID)
}

// GetByDriverID retrieves assignment history for a driver, newest first.
func (r *AssignmentRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE driver_id = $1
		ORDER BY checked_out_at DESC
		LIMIT 200
	`

	return r.queryAssignments(ctx, query, driverID)
}

// GetRecent retrieves the most recent assignments across the fleet.
func (r *AssignmentRepository) GetRecent(ctx context.Context, limit int) ([]*domain.Assignment, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		ORDER BY checked_out_at DESC
		LIMIT $1
	`

	return r.queryAssignments(ctx, query, limit)
}

// Update updates an existing assignment.
func (r *AssignmentRepository) Update(ctx context.Context, a *domain.Assignment) error {
	query := `
		UPDATE assignments
		SET status = $1, ending_odometer = $2, ending_fuel = $3,
		    total_distance = $4, trip_notes = $5, checkin_signature = $6,
		    checked_in_at = $7
		WHERE id = $8
	`

	completed := a.Status == domain.AssignmentStatusCompleted

	result, err := r.q.ExecContext(ctx, query,
		a.Status,
		nullInt64(a.EndingOdometer, completed),
		nullFloat64(a.EndingFuel, completed),
		a.TotalDistance,
		a.TripNotes,
		nullString(a.CheckinSignature),
		nullTime(a.CheckedInAt),
		a.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AssignmentRepository) queryAssignments(ctx context.Context, query string, args ...any) ([]*domain.Assignment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	var a domain.Assignment
	var endingOdometer sql.NullInt64
	var endingFuel sql.NullFloat64
	var checkinSignature sql.NullString
	var checkedInAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.VehicleID,
		&a.DriverID,
		&a.Status,
		&a.StartingOdometer,
		&endingOdometer,
		&a.StartingFuel,
		&endingFuel,
		&a.TotalDistance,
		&a.Destination,
		&a.Purpose,
		&a.TripNotes,
		&a.CheckoutSignature,
		&checkinSignature,
		&a.CheckedOutAt,
		&checkedInAt,
	)
	if err != nil {
		return nil, err
	}

	if endingOdometer.Valid {
		a.EndingOdometer = endingOdometer.Int64
	}
	if endingFuel.Valid {
		a.EndingFuel = endingFuel.Float64
	}
	if checkinSignature.Valid {
		a.CheckinSignature = checkinSignature.String
	}
	if checkedInAt.Valid {
		a.CheckedInAt = checkedInAt.Time
	}

	return &a, nil
}

func nullInt64(v int64, valid bool) sql.NullInt64 {
	if !valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullFloat64(v float64, valid bool) sql.NullFloat64 {
	if !valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Ensure AssignmentRepository implements repository.AssignmentRepository.
var _ repository.AssignmentRepository = (*AssignmentRepository)(nil)
