package tests

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/heinNell/Asset-Management/internal/config"
	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/fleet"
)

// ──────────────────────────────────────────────
// 3. STANDALONE INSPECTIONS
// ──────────────────────────────────────────────

type inspectionFixture struct {
	vehicles    *MockVehicleRepository
	inspections *MockInspectionRepository
	locks       *MockLockStore
	service     *fleet.InspectionService
}

func newInspectionFixture() *inspectionFixture {
	f := &inspectionFixture{
		vehicles:    NewMockVehicleRepository(),
		inspections: NewMockInspectionRepository(),
		locks:       NewMockLockStore(),
	}
	uow := NewMockUnitOfWork(f.vehicles, NewMockAssignmentRepository(), f.inspections)

	cfg := config.FleetConfig{
		MileageWarnThreshold: 1000,
		AvgDailyDistance:     50,
		LockTTL:              10 * time.Second,
		StorageTimeout:       3 * time.Second,
	}
	f.service = fleet.NewInspectionService(f.inspections, uow, f.locks, nil, cfg)

	var seq int32
	f.service.NewID = func() string {
		return fmt.Sprintf("id-%d", atomic.AddInt32(&seq, 1))
	}

	return f
}

func TestInspectionBuild_AssignsIDsAndGrades(t *testing.T) {
	t.Parallel()

	f := newInspectionFixture()

	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	f.service.Now = func() time.Time { return fixed }

	insp := f.service.Build(fleet.InspectionRequest{
		VehicleID:   "veh-1",
		InspectorID: "ins-1",
		Type:        domain.InspectionTypePeriodic,
		Odometer:    45000,
		FuelLevel:   70,
		ChecklistItems: []domain.ChecklistItem{
			{Name: "brakes", Status: domain.ChecklistStatusPass},
		},
		DamageReports: []fleet.DamageReportInput{
			{Component: "door", HasDamage: true, Severity: domain.SeverityMinor, Description: "scratch"},
		},
		VoiceNotes: []fleet.VoiceNoteInput{
			{Label: "walkaround", MediaURI: "s3://notes/1.ogg"},
		},
	})

	if insp.ID == "" {
		t.Error("expected inspection id to be assigned")
	}
	if insp.DamageReports[0].ID == "" {
		t.Error("expected damage report id to be assigned")
	}
	if insp.VoiceNotes[0].ID == "" {
		t.Error("expected voice note id to be assigned")
	}
	if insp.DamageReports[0].RepairRequired {
		t.Error("minor damage must not require repair")
	}
	if insp.OverallCondition != domain.ConditionGood {
		t.Errorf("expected condition %s, got %s", domain.ConditionGood, insp.OverallCondition)
	}
	if insp.ReviewStatus != domain.ReviewStatusPending {
		t.Errorf("expected review status %s, got %s", domain.ReviewStatusPending, insp.ReviewStatus)
	}
	if !insp.CreatedAt.Equal(fixed) {
		t.Errorf("expected created at %v, got %v", fixed, insp.CreatedAt)
	}
}

func TestInspectionSubmit_CriticalDamage_TakesVehicleOutOfService(t *testing.T) {
	t.Parallel()

	f := newInspectionFixture()
	f.vehicles.AddVehicle(availableVehicle())

	insp, err := f.service.Submit(context.Background(), fleet.InspectionRequest{
		VehicleID:   "veh-1",
		InspectorID: "ins-1",
		Type:        domain.InspectionTypeDamageReport,
		Odometer:    45000,
		FuelLevel:   70,
		DamageReports: []fleet.DamageReportInput{
			{Component: "frame", HasDamage: true, Severity: domain.SeverityCritical, Description: "cracked frame"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insp.OverallCondition != domain.ConditionDamaged {
		t.Errorf("expected condition %s, got %s", domain.ConditionDamaged, insp.OverallCondition)
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusOutOfService {
		t.Errorf("expected vehicle status %s, got %s", domain.VehicleStatusOutOfService, vehicle.Status)
	}
}

func TestInspectionSubmit_CriticalDamageOnTrip_VehicleStaysInUse(t *testing.T) {
	t.Parallel()

	// A damage report filed while the vehicle is out must not flip the
	// status mid-trip; checkin resolves it.
	f := newInspectionFixture()
	v := availableVehicle()
	v.Status = domain.VehicleStatusInUse
	f.vehicles.AddVehicle(v)

	_, err := f.service.Submit(context.Background(), fleet.InspectionRequest{
		VehicleID: "veh-1",
		Type:      domain.InspectionTypeDamageReport,
		Odometer:  45000,
		FuelLevel: 70,
		DamageReports: []fleet.DamageReportInput{
			{Component: "frame", HasDamage: true, Severity: domain.SeverityCritical},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusInUse {
		t.Errorf("expected vehicle to stay %s, got %s", domain.VehicleStatusInUse, vehicle.Status)
	}
}

func TestInspectionSubmit_TakesVehicleLock(t *testing.T) {
	t.Parallel()

	// Submit can flip the vehicle out of service, so it serializes on
	// the same per-vehicle lock as checkout/checkin.
	f := newInspectionFixture()
	f.vehicles.AddVehicle(availableVehicle())

	_, err := f.service.Submit(context.Background(), fleet.InspectionRequest{
		VehicleID: "veh-1",
		Odometer:  45000,
		FuelLevel: 70,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atomic.LoadInt32(&f.locks.AcquireCallCount) != 1 {
		t.Error("expected the vehicle lock to be acquired")
	}
	if atomic.LoadInt32(&f.locks.ReleaseCallCount) != 1 {
		t.Error("expected the vehicle lock to be released")
	}
}

func TestInspectionSubmit_LockHeld_Conflict(t *testing.T) {
	t.Parallel()

	f := newInspectionFixture()
	f.vehicles.AddVehicle(availableVehicle())

	locked, err := f.locks.AcquireVehicleLock(context.Background(), "veh-1", 10*time.Second)
	if err != nil || !locked {
		t.Fatalf("failed to pre-acquire lock: locked=%v err=%v", locked, err)
	}

	_, err = f.service.Submit(context.Background(), fleet.InspectionRequest{
		VehicleID: "veh-1",
		Odometer:  45000,
		FuelLevel: 70,
	})
	if !errors.Is(err, fleet.ErrAssignmentConflict) {
		t.Errorf("expected ErrAssignmentConflict, got %v", err)
	}
	if atomic.LoadInt32(&f.inspections.CreateCallCount) != 0 {
		t.Error("no inspection should be persisted when the vehicle is locked")
	}
}

func TestInspectionSubmit_LowerOdometer_Fails(t *testing.T) {
	t.Parallel()

	f := newInspectionFixture()
	f.vehicles.AddVehicle(availableVehicle())

	_, err := f.service.Submit(context.Background(), fleet.InspectionRequest{
		VehicleID: "veh-1",
		Type:      domain.InspectionTypePeriodic,
		Odometer:  44000,
		FuelLevel: 70,
	})

	var vErr *fleet.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if atomic.LoadInt32(&f.inspections.CreateCallCount) != 0 {
		t.Error("no inspection should be persisted on a rejected reading")
	}
}

func TestInspectionSubmit_DefaultsToPeriodic(t *testing.T) {
	t.Parallel()

	f := newInspectionFixture()
	f.vehicles.AddVehicle(availableVehicle())

	insp, err := f.service.Submit(context.Background(), fleet.InspectionRequest{
		VehicleID: "veh-1",
		Odometer:  45000,
		FuelLevel: 70,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insp.Type != domain.InspectionTypePeriodic {
		t.Errorf("expected type %s, got %s", domain.InspectionTypePeriodic, insp.Type)
	}
	if insp.OverallCondition != domain.ConditionExcellent {
		t.Errorf("expected condition %s, got %s", domain.ConditionExcellent, insp.OverallCondition)
	}
}

func TestInspectionReview(t *testing.T) {
	t.Parallel()

	f := newInspectionFixture()
	f.vehicles.AddVehicle(availableVehicle())

	insp, err := f.service.Submit(context.Background(), fleet.InspectionRequest{
		VehicleID: "veh-1",
		Odometer:  45000,
		FuelLevel: 70,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.service.Review(context.Background(), insp.ID, "mgr-1", "looks fine"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.inspections.GetInspection(insp.ID)
	if stored.ReviewStatus != domain.ReviewStatusReviewed {
		t.Errorf("expected review status %s, got %s", domain.ReviewStatusReviewed, stored.ReviewStatus)
	}
	if stored.ReviewedBy != "mgr-1" {
		t.Errorf("expected reviewer mgr-1, got %q", stored.ReviewedBy)
	}
}

func TestInspectionReview_MissingReviewer_Fails(t *testing.T) {
	t.Parallel()

	f := newInspectionFixture()

	err := f.service.Review(context.Background(), "insp-1", "", "")

	var vErr *fleet.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
