package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// NewVehicleRepositoryWithTx creates a vehicle repository using a transaction.
func NewVehicleRepositoryWithTx(tx *sql.Tx) *VehicleRepository {
	return &VehicleRepository{q: tx}
}

const vehicleColumns = `
	id, make, model, year, license_plate, status,
	current_odometer, fuel_level, current_driver_id,
	last_service_odometer, next_service_odometer, service_interval,
	last_service_at, created_at, updated_at
`

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query,
		v.ID,
		v.Make,
		v.Model,
		v.Year,
		v.LicensePlate,
		v.Status,
		v.CurrentOdometer,
		v.FuelLevel,
		nullString(v.CurrentDriverID),
		v.LastServiceOdometer,
		v.NextServiceOdometer,
		v.ServiceInterval,
		nullTime(v.LastServiceAt),
		v.CreatedAt,
		v.UpdatedAt,
	)

	return err
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	v, err := scanVehicle(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return v, nil
}

// GetAll retrieves vehicles, optionally filtered by status.
func (r *VehicleRepository) GetAll(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []any{}

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT 500`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// Update updates an existing vehicle.
func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET make = $1, model = $2, year = $3, license_plate = $4, status = $5,
		    current_odometer = $6, fuel_level = $7, current_driver_id = $8,
		    last_service_odometer = $9, next_service_odometer = $10,
		    service_interval = $11, last_service_at = $12, updated_at = $13
		WHERE id = $14
	`

	result, err := r.q.ExecContext(ctx, query,
		v.Make,
		v.Model,
		v.Year,
		v.LicensePlate,
		v.Status,
		v.CurrentOdometer,
		v.FuelLevel,
		nullString(v.CurrentDriverID),
		v.LastServiceOdometer,
		v.NextServiceOdometer,
		v.ServiceInterval,
		nullTime(v.LastServiceAt),
		v.UpdatedAt,
		v.ID,
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var driverID sql.NullString
	var lastServiceAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.LicensePlate,
		&v.Status,
		&v.CurrentOdometer,
		&v.FuelLevel,
		&driverID,
		&v.LastServiceOdometer,
		&v.NextServiceOdometer,
		&v.ServiceInterval,
		&lastServiceAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		v.CurrentDriverID = driverID.String
	}
	if lastServiceAt.Valid {
		v.LastServiceAt = lastServiceAt.Time
	}

	return &v, nil
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
