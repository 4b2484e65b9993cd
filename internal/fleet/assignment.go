package fleet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/heinNell/Asset-Management/internal/config"
	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/redis"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// AssignmentService manages the vehicle checkout/checkin lifecycle. A
// vehicle is the serialization point: the per-vehicle lock plus the
// active-assignment re-check inside the transaction guarantee that two
// concurrent checkouts cannot both succeed.
type AssignmentService struct {
	uow         repository.UnitOfWork
	vehicles    repository.VehicleRepository
	assignments repository.AssignmentRepository
	locks       redis.LockStoreInterface
	cache       redis.CacheStoreInterface
	inspections *InspectionService
	notifier    *NotificationService
	cfg         config.FleetConfig

	// Now and NewID are injectable for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	uow repository.UnitOfWork,
	vehicles repository.VehicleRepository,
	assignments repository.AssignmentRepository,
	locks redis.LockStoreInterface,
	cache redis.CacheStoreInterface,
	inspections *InspectionService,
	notifier *NotificationService,
	cfg config.FleetConfig,
) *AssignmentService {
	return &AssignmentService{
		uow:         uow,
		vehicles:    vehicles,
		assignments: assignments,
		locks:       locks,
		cache:       cache,
		inspections: inspections,
		notifier:    notifier,
		cfg:         cfg,
		Now:         time.Now,
		NewID:       uuid.NewString,
	}
}

// CheckoutRequest contains the parameters for checking a vehicle out.
type CheckoutRequest struct {
	VehicleID        string
	DriverID         string
	StartingOdometer int64 // negative means not supplied
	FuelLevel        float64
	Destination      string
	Purpose          string
	Signature        string
}

// CheckoutResult contains the outcome of a successful checkout.
// Warnings are advisory (e.g. an unusually high odometer jump) and
// never block the transition.
type CheckoutResult struct {
	Assignment *domain.Assignment
	Vehicle    *domain.Vehicle
	Warnings   []string
}

// Checkout assigns an available vehicle to a driver. On success the
// vehicle flips to IN_USE with the driver recorded, and one ACTIVE
// assignment exists; both writes commit in the same transaction.
func (s *AssignmentService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.VehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	// Availability is checked before field validation: an unavailable
	// vehicle fails with the precondition error regardless of field
	// validity. The authoritative state is re-read in the transaction.
	vehicle, err := s.vehicles.GetByID(opCtx, req.VehicleID)
	if err != nil {
		return nil, storageErr(err)
	}
	if vehicle.Status != domain.VehicleStatusAvailable {
		return nil, ErrVehicleNotAvailable
	}

	if fieldErrs := ValidateCheckout(req); len(fieldErrs) > 0 {
		return nil, newValidationError(fieldErrs)
	}

	// Serialize lifecycle operations per vehicle.
	if err := s.lockVehicle(ctx, req.VehicleID); err != nil {
		return nil, err
	}
	defer s.unlockVehicle(ctx, req.VehicleID)

	result := &CheckoutResult{}

	err = s.uow.Do(opCtx, func(r repository.Repos) error {
		vehicle, err := r.Vehicles.GetByID(opCtx, req.VehicleID)
		if err != nil {
			return err
		}

		if vehicle.Status != domain.VehicleStatusAvailable {
			return ErrVehicleNotAvailable
		}

		// A row that says AVAILABLE but still has an open assignment
		// means a concurrent operation got there first.
		active, err := r.Assignments.GetActiveByVehicleID(opCtx, req.VehicleID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrAssignmentConflict
		}

		odo := ValidateOdometer(req.StartingOdometer, vehicle.CurrentOdometer, s.cfg.MileageWarnThreshold)
		if !odo.Valid {
			return newValidationError(odo.Errors)
		}
		result.Warnings = odo.Warnings

		if NextServiceStatus(vehicle, s.cfg.AvgDailyDistance).IsOverdue {
			return ErrServiceOverdue
		}

		now := s.Now()
		assignment := &domain.Assignment{
			ID:                s.NewID(),
			VehicleID:         vehicle.ID,
			DriverID:          req.DriverID,
			Status:            domain.AssignmentStatusActive,
			StartingOdometer:  req.StartingOdometer,
			StartingFuel:      req.FuelLevel,
			Destination:       req.Destination,
			Purpose:           req.Purpose,
			CheckoutSignature: req.Signature,
			CheckedOutAt:      now,
		}

		if err := r.Assignments.Create(opCtx, assignment); err != nil {
			if errors.Is(err, repository.ErrDuplicateActive) {
				return ErrAssignmentConflict
			}
			return err
		}

		vehicle.Status = domain.VehicleStatusInUse
		vehicle.CurrentDriverID = req.DriverID
		vehicle.CurrentOdometer = req.StartingOdometer
		vehicle.FuelLevel = req.FuelLevel
		vehicle.UpdatedAt = now

		if err := r.Vehicles.Update(opCtx, vehicle); err != nil {
			return err
		}

		result.Assignment = assignment
		result.Vehicle = vehicle
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	s.invalidateVehicleCache(ctx, req.VehicleID)

	if s.notifier != nil {
		_ = s.notifier.NotifyVehicleCheckedOut(ctx, result.Assignment)
	}

	return result, nil
}

// CheckinRequest contains the parameters for checking a vehicle back in.
type CheckinRequest struct {
	AssignmentID   string
	EndingOdometer int64 // negative means not supplied
	FuelLevel      float64

	DamageReported    bool
	DamageDescription string
	DamageSeverity    domain.DamageSeverity // defaults to MODERATE when damage is reported bare

	ChecklistItems []domain.ChecklistItem
	DamageReports  []DamageReportInput
	VoiceNotes     []VoiceNoteInput

	TripNotes string
	Signature string
}

// CheckinResult contains the outcome of a successful checkin.
type CheckinResult struct {
	Assignment *domain.Assignment
	Vehicle    *domain.Vehicle
	Inspection *domain.Inspection
	Warnings   []string
}

// Checkin closes an active assignment. The vehicle returns to
// AVAILABLE, unless critical damage was found (OUT_OF_SERVICE) or the
// service interval is now overdue (MAINTENANCE). When damage or
// checklist results are reported, a post-trip inspection record is
// created in the same transaction.
func (s *AssignmentService) Checkin(ctx context.Context, req CheckinRequest) (*CheckinResult, error) {
	if req.AssignmentID == "" {
		return nil, ErrInvalidAssignmentID
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	// Resolve the vehicle before locking, and check the precondition
	// before field validation: an inactive assignment fails regardless
	// of field validity. The authoritative state is re-read inside the
	// transaction.
	assignment, err := s.assignments.GetByID(opCtx, req.AssignmentID)
	if err != nil {
		return nil, storageErr(err)
	}
	if assignment.Status != domain.AssignmentStatusActive {
		return nil, ErrAssignmentNotActive
	}

	if fieldErrs := ValidateCheckin(req); len(fieldErrs) > 0 {
		return nil, newValidationError(fieldErrs)
	}

	if err := s.lockVehicle(ctx, assignment.VehicleID); err != nil {
		return nil, err
	}
	defer s.unlockVehicle(ctx, assignment.VehicleID)

	result := &CheckinResult{}

	err = s.uow.Do(opCtx, func(r repository.Repos) error {
		a, err := r.Assignments.GetByID(opCtx, req.AssignmentID)
		if err != nil {
			return err
		}
		if a.Status != domain.AssignmentStatusActive {
			return ErrAssignmentNotActive
		}

		vehicle, err := r.Vehicles.GetByID(opCtx, a.VehicleID)
		if err != nil {
			return err
		}

		// Per-trip bound: the trip cannot shrink the odometer.
		if req.EndingOdometer < a.StartingOdometer {
			return newValidationError([]FieldError{{
				Field:   "ending_odometer",
				Message: "reading cannot be lower than the starting reading",
			}})
		}

		// All-time bound against the vehicle's current reading.
		odo := ValidateOdometer(req.EndingOdometer, vehicle.CurrentOdometer, s.cfg.MileageWarnThreshold)
		if !odo.Valid {
			return newValidationError(odo.Errors)
		}
		result.Warnings = odo.Warnings

		now := s.Now()

		var inspection *domain.Inspection
		if req.DamageReported || len(req.ChecklistItems) > 0 || len(req.DamageReports) > 0 {
			inspection = s.inspections.Build(InspectionRequest{
				VehicleID:      a.VehicleID,
				InspectorID:    a.DriverID,
				Type:           domain.InspectionTypePostTrip,
				Odometer:       req.EndingOdometer,
				FuelLevel:      req.FuelLevel,
				ChecklistItems: req.ChecklistItems,
				DamageReports:  checkinDamageInputs(req),
				VoiceNotes:     req.VoiceNotes,
			})
			if err := r.Inspections.Create(opCtx, inspection); err != nil {
				return err
			}
		}

		a.Status = domain.AssignmentStatusCompleted
		a.EndingOdometer = req.EndingOdometer
		a.EndingFuel = req.FuelLevel
		a.TotalDistance = req.EndingOdometer - a.StartingOdometer
		a.TripNotes = req.TripNotes
		a.CheckinSignature = req.Signature
		a.CheckedInAt = now

		if err := r.Assignments.Update(opCtx, a); err != nil {
			return err
		}

		vehicle.CurrentOdometer = req.EndingOdometer
		vehicle.FuelLevel = req.FuelLevel
		vehicle.CurrentDriverID = ""
		vehicle.Status = s.checkinStatus(vehicle, inspection)
		vehicle.UpdatedAt = now

		if err := r.Vehicles.Update(opCtx, vehicle); err != nil {
			return err
		}

		result.Assignment = a
		result.Vehicle = vehicle
		result.Inspection = inspection
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	s.invalidateVehicleCache(ctx, result.Vehicle.ID)

	if s.notifier != nil {
		_ = s.notifier.NotifyVehicleCheckedIn(ctx, result.Assignment, result.Vehicle)
		if result.Inspection != nil && len(result.Inspection.DamageReports) > 0 {
			_ = s.notifier.NotifyDamageReported(ctx, result.Inspection)
		}
		if result.Vehicle.Status == domain.VehicleStatusMaintenance {
			_ = s.notifier.NotifyServiceOverdue(ctx, result.Vehicle)
		}
	}

	return result, nil
}

// Get retrieves an assignment by ID.
func (s *AssignmentService) Get(ctx context.Context, id string) (*domain.Assignment, error) {
	if id == "" {
		return nil, ErrInvalidAssignmentID
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	a, err := s.assignments.GetByID(opCtx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return a, nil
}

// ListByVehicle retrieves assignment history for a vehicle, newest first.
func (s *AssignmentService) ListByVehicle(ctx context.Context, vehicleID string) ([]*domain.Assignment, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	assignments, err := s.assignments.GetByVehicleID(opCtx, vehicleID)
	if err != nil {
		return nil, storageErr(err)
	}
	return assignments, nil
}

// ListRecent retrieves the most recent assignments across the fleet.
func (s *AssignmentService) ListRecent(ctx context.Context, limit int) ([]*domain.Assignment, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	assignments, err := s.assignments.GetRecent(opCtx, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return assignments, nil
}

// checkinStatus picks the vehicle status after a completed trip.
// Critical damage blocks the vehicle entirely; an overdue service
// interval routes it to maintenance.
func (s *AssignmentService) checkinStatus(vehicle *domain.Vehicle, inspection *domain.Inspection) domain.VehicleStatus {
	if inspection != nil && inspection.HasCriticalDamage() {
		return domain.VehicleStatusOutOfService
	}
	if NextServiceStatus(vehicle, s.cfg.AvgDailyDistance).IsOverdue {
		return domain.VehicleStatusMaintenance
	}
	return domain.VehicleStatusAvailable
}

// checkinDamageInputs merges the structured damage list with the bare
// damage flag: a reported damage without structured details becomes a
// single report from the description and severity.
func checkinDamageInputs(req CheckinRequest) []DamageReportInput {
	if len(req.DamageReports) > 0 {
		return req.DamageReports
	}
	if !req.DamageReported {
		return nil
	}

	severity := req.DamageSeverity
	if severity == "" {
		severity = domain.SeverityModerate
	}

	return []DamageReportInput{{
		Component:   "general",
		HasDamage:   true,
		Severity:    severity,
		Description: req.DamageDescription,
	}}
}

func (s *AssignmentService) lockVehicle(ctx context.Context, vehicleID string) error {
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

func (s *AssignmentService) unlockVehicle(ctx context.Context, vehicleID string) {
	if s.locks == nil {
		return
	}
	_ = s.locks.ReleaseVehicleLock(ctx, vehicleID)
}

func (s *AssignmentService) invalidateVehicleCache(ctx context.Context, vehicleID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateVehicle(ctx, vehicleID)
}

func (s *AssignmentService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StorageTimeout
	if timeout <= 0 {
		timeout = config.DefaultStorageTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
