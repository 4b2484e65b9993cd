package fleet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heinNell/Asset-Management/internal/config"
	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/redis"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// DamageReportInput is a raw damage finding before ids are assigned.
type DamageReportInput struct {
	Component   string
	HasDamage   bool
	Severity    domain.DamageSeverity
	Description string
}

// VoiceNoteInput is a raw voice-note reference before ids are assigned.
type VoiceNoteInput struct {
	Label    string
	MediaURI string
}

// InspectionRequest contains the raw inputs for building an inspection.
type InspectionRequest struct {
	VehicleID      string
	InspectorID    string
	Type           domain.InspectionType
	Odometer       int64
	FuelLevel      float64
	ChecklistItems []domain.ChecklistItem
	DamageReports  []DamageReportInput
	VoiceNotes     []VoiceNoteInput
}

// InspectionService builds and persists inspection records.
type InspectionService struct {
	inspections repository.InspectionRepository
	uow         repository.UnitOfWork
	locks       redis.LockStoreInterface
	notifier    *NotificationService
	cfg         config.FleetConfig

	// Now and NewID are injectable for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

// NewInspectionService creates a new InspectionService.
func NewInspectionService(
	inspections repository.InspectionRepository,
	uow repository.UnitOfWork,
	locks redis.LockStoreInterface,
	notifier *NotificationService,
	cfg config.FleetConfig,
) *InspectionService {
	return &InspectionService{
		inspections: inspections,
		uow:         uow,
		locks:       locks,
		notifier:    notifier,
		cfg:         cfg,
		Now:         time.Now,
		NewID:       uuid.NewString,
	}
}

// Build assembles an inspection record from raw inputs: it assigns
// stable ids to the record, every damage report and every voice note,
// derives the repair-required flag from severity, and grades the
// overall condition. It performs no I/O.
func (s *InspectionService) Build(req InspectionRequest) *domain.Inspection {
	damages := make([]domain.DamageReport, 0, len(req.DamageReports))
	for _, d := range req.DamageReports {
		damages = append(damages, domain.DamageReport{
			ID:             s.NewID(),
			Component:      d.Component,
			HasDamage:      d.HasDamage,
			Severity:       d.Severity,
			Description:    d.Description,
			RepairRequired: repairRequired(d),
		})
	}

	voiceNotes := make([]domain.VoiceNote, 0, len(req.VoiceNotes))
	for _, n := range req.VoiceNotes {
		voiceNotes = append(voiceNotes, domain.VoiceNote{
			ID:       s.NewID(),
			Label:    n.Label,
			MediaURI: n.MediaURI,
		})
	}

	return &domain.Inspection{
		ID:               s.NewID(),
		VehicleID:        req.VehicleID,
		InspectorID:      req.InspectorID,
		Type:             req.Type,
		Odometer:         req.Odometer,
		FuelLevel:        req.FuelLevel,
		ChecklistItems:   req.ChecklistItems,
		DamageReports:    damages,
		VoiceNotes:       voiceNotes,
		OverallCondition: AssessCondition(damages, req.ChecklistItems),
		ReviewStatus:     domain.ReviewStatusPending,
		CreatedAt:        s.Now(),
	}
}

// Submit builds and persists a standalone (periodic or damage-report)
// inspection. Critical damage on a vehicle that is not out on a trip
// takes the vehicle out of service in the same transaction.
func (s *InspectionService) Submit(ctx context.Context, req InspectionRequest) (*domain.Inspection, error) {
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if req.Type == "" {
		req.Type = domain.InspectionTypePeriodic
	}
	if !ValidateFuelLevel(req.FuelLevel) {
		return nil, newValidationError([]FieldError{
			{Field: "fuel_level", Message: "fuel level must be between 0 and 100"},
		})
	}

	insp := s.Build(req)

	// Submit can flip the vehicle out of service, so it serializes on
	// the same per-vehicle lock as checkout/checkin.
	if err := s.lockVehicle(ctx, req.VehicleID); err != nil {
		return nil, err
	}
	defer s.unlockVehicle(ctx, req.VehicleID)

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	err := s.uow.Do(opCtx, func(r repository.Repos) error {
		vehicle, err := r.Vehicles.GetByID(opCtx, req.VehicleID)
		if err != nil {
			return err
		}

		odo := ValidateOdometer(req.Odometer, vehicle.CurrentOdometer, s.cfg.MileageWarnThreshold)
		if !odo.Valid {
			return newValidationError(odo.Errors)
		}

		if err := r.Inspections.Create(opCtx, insp); err != nil {
			return err
		}

		if insp.HasCriticalDamage() && vehicle.Status != domain.VehicleStatusInUse {
			vehicle.Status = domain.VehicleStatusOutOfService
			vehicle.UpdatedAt = s.Now()
			if err := r.Vehicles.Update(opCtx, vehicle); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	if s.notifier != nil && insp.HasCriticalDamage() {
		_ = s.notifier.NotifyDamageReported(ctx, insp)
	}

	return insp, nil
}

// Get retrieves an inspection by ID.
func (s *InspectionService) Get(ctx context.Context, id string) (*domain.Inspection, error) {
	if id == "" {
		return nil, ErrInvalidInspectionID
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	insp, err := s.inspections.GetByID(opCtx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return insp, nil
}

// ListByVehicle retrieves inspection history for a vehicle, newest
// first.
func (s *InspectionService) ListByVehicle(ctx context.Context, vehicleID string) ([]*domain.Inspection, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	inspections, err := s.inspections.GetByVehicleID(opCtx, vehicleID)
	if err != nil {
		return nil, storageErr(err)
	}
	return inspections, nil
}

// Review records the reviewer outcome on an inspection. This is the
// only mutation allowed after creation.
func (s *InspectionService) Review(ctx context.Context, id, reviewerID, notes string) error {
	if id == "" {
		return ErrInvalidInspectionID
	}
	if reviewerID == "" {
		return newValidationError([]FieldError{
			{Field: "reviewer_id", Message: "reviewer is required"},
		})
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	return storageErr(s.inspections.UpdateReview(opCtx, id, domain.ReviewStatusReviewed, reviewerID, notes))
}

func (s *InspectionService) lockVehicle(ctx context.Context, vehicleID string) error {
	if s.locks == nil {
		return nil
	}

	ttl := s.cfg.LockTTL
	if ttl <= 0 {
		ttl = config.DefaultLockTTL
	}

	locked, err := s.locks.AcquireVehicleLock(ctx, vehicleID, ttl)
	if err != nil {
		return err
	}
	if !locked {
		return ErrAssignmentConflict
	}
	return nil
}

func (s *InspectionService) unlockVehicle(ctx context.Context, vehicleID string) {
	if s.locks == nil {
		return
	}
	_ = s.locks.ReleaseVehicleLock(ctx, vehicleID)
}

func (s *InspectionService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StorageTimeout
	if timeout <= 0 {
		timeout = config.DefaultStorageTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// repairRequired derives the repair flag: anything above a minor
// scratch needs a workshop visit.
func repairRequired(d DamageReportInput) bool {
	if !d.HasDamage {
		return false
	}
	switch d.Severity {
	case domain.SeverityModerate, domain.SeverityMajor, domain.SeverityCritical:
		return true
	default:
		return false
	}
}
