package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// InspectionRepository is a PostgreSQL implementation of repository.InspectionRepository.
// Checklist items, damage reports and voice notes are stored as JSONB.
type InspectionRepository struct {
	q Querier
}

// NewInspectionRepository creates a new PostgreSQL inspection repository.
func NewInspectionRepository(db *sql.DB) *InspectionRepository {
	return &InspectionRepository{q: db}
}

// NewInspectionRepositoryWithTx creates an inspection repository using a transaction.
func NewInspectionRepositoryWithTx(tx *sql.Tx) *InspectionRepository {
	return &InspectionRepository{q: tx}
}

const inspectionColumns = `
	id, vehicle_id, inspector_id, type, odometer, fuel_level,
	checklist_items, damage_reports, voice_notes, overall_condition,
	review_status, reviewed_by, review_notes, created_at
`

// Create persists a new inspection.
func (r *InspectionRepository) Create(ctx context.Context, insp *domain.Inspection) error {
	query := `
		INSERT INTO inspections (` + inspectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	checklist, err := json.Marshal(insp.ChecklistItems)
	if err != nil {
		return fmt.Errorf("marshal checklist items: %w", err)
	}
	damages, err := json.Marshal(insp.DamageReports)
	if err != nil {
		return fmt.Errorf("marshal damage reports: %w", err)
	}
	voiceNotes, err := json.Marshal(insp.VoiceNotes)
	if err != nil {
		return fmt.Errorf("marshal voice notes: %w", err)
	}

	_, err = r.q.ExecContext(ctx, query,
		insp.ID,
		insp.VehicleID,
		insp.InspectorID,
		insp.Type,
		insp.Odometer,
		insp.FuelLevel,
		checklist,
		damages,
		voiceNotes,
		insp.OverallCondition,
		insp.ReviewStatus,
		nullString(insp.ReviewedBy),
		insp.ReviewNotes,
		insp.CreatedAt,
	)

	return err
}

// GetByID retrieves an inspection by ID.
func (r *InspectionRepository) GetByID(ctx context.Context, id string) (*domain.Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1`

	insp, err := scanInspection(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return insp, nil
}

// GetByVehicleID retrieves inspections for a vehicle, newest first.
func (r *InspectionRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Inspection, error) {
	query := `
		SELECT ` + inspectionColumns + `
		FROM inspections
		WHERE vehicle_id = $1
		ORDER BY created_at DESC
		LIMIT 200
	`

	rows, err := r.q.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []*domain.Inspection
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, insp)
	}

	return inspections, rows.Err()
}

// UpdateReview sets the reviewer status and notes on an inspection.
// The rest of the record stays immutable after creation.
func (r *InspectionRepository) UpdateReview(ctx context.Context, id string, status domain.ReviewStatus, reviewedBy, notes string) error {
	query := `
		UPDATE inspections
		SET review_status = $1, reviewed_by = $2, review_notes = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query, status, nullString(reviewedBy), notes, id)
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

func scanInspection(row rowScanner) (*domain.Inspection, error) {
	var insp domain.Inspection
	var checklist, damages, voiceNotes []byte
	var reviewedBy sql.NullString

	err := row.Scan(
		&insp.ID,
		&insp.VehicleID,
		&insp.InspectorID,
		&insp.Type,
		&insp.Odometer,
		&insp.FuelLevel,
		&checklist,
		&damages,
		&voiceNotes,
		&insp.OverallCondition,
		&insp.ReviewStatus,
		&reviewedBy,
		&insp.ReviewNotes,
		&insp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(checklist, &insp.ChecklistItems); err != nil {
		return nil, fmt.Errorf("unmarshal checklist items: %w", err)
	}
	if err := json.Unmarshal(damages, &insp.DamageReports); err != nil {
		return nil, fmt.Errorf("unmarshal damage reports: %w", err)
	}
	if err := json.Unmarshal(voiceNotes, &insp.VoiceNotes); err != nil {
		return nil, fmt.Errorf("unmarshal voice notes: %w", err)
	}
	if reviewedBy.Valid {
		insp.ReviewedBy = reviewedBy.String
	}

	return &insp, nil
}

// Ensure InspectionRepository implements repository.InspectionRepository.
var _ repository.InspectionRepository = (*InspectionRepository)(nil)
