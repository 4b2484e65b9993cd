package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/fleet"
)

// ──────────────────────────────────────────────
// 2. CHECKIN
// ──────────────────────────────────────────────

// checkedOutFixture runs a successful checkout and returns the fixture
// plus the active assignment.
func checkedOutFixture(t *testing.T) (*lifecycleFixture, *domain.Assignment) {
	t.Helper()

	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())

	result, err := f.service.Checkout(context.Background(), validCheckout())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return f, result.Assignment
}

func validCheckin(assignmentID string) fleet.CheckinRequest {
	return fleet.CheckinRequest{
		AssignmentID:   assignmentID,
		EndingOdometer: 45120,
		FuelLevel:      55,
		Signature:      "sig-checkin",
	}
}

func TestCheckin_EndToEnd(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	result, err := f.service.Checkin(context.Background(), validCheckin(assignment.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Assignment.Status != domain.AssignmentStatusCompleted {
		t.Errorf("expected assignment status %s, got %s", domain.AssignmentStatusCompleted, result.Assignment.Status)
	}
	if result.Assignment.TotalDistance != 120 {
		t.Errorf("expected total distance 120, got %d", result.Assignment.TotalDistance)
	}
	if result.Assignment.CheckedInAt.IsZero() {
		t.Error("expected checkin timestamp to be set")
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusAvailable {
		t.Errorf("expected vehicle status %s, got %s", domain.VehicleStatusAvailable, vehicle.Status)
	}
	if vehicle.CurrentOdometer != 45120 {
		t.Errorf("expected odometer 45120, got %d", vehicle.CurrentOdometer)
	}
	if vehicle.FuelLevel != 55 {
		t.Errorf("expected fuel 55, got %v", vehicle.FuelLevel)
	}
	if vehicle.CurrentDriverID != "" {
		t.Errorf("expected driver cleared, got %q", vehicle.CurrentDriverID)
	}

	if result.Inspection != nil {
		t.Error("no inspection expected for a clean checkin")
	}
}

func TestCheckin_ZeroDistance_IsValid(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	req := validCheckin(assignment.ID)
	req.EndingOdometer = 45000

	result, err := f.service.Checkin(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Assignment.TotalDistance != 0 {
		t.Errorf("expected total distance 0, got %d", result.Assignment.TotalDistance)
	}
}

func TestCheckin_EndingBelowStarting_Fails(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	req := validCheckin(assignment.ID)
	req.EndingOdometer = 44900

	_, err := f.service.Checkin(context.Background(), req)

	var vErr *fleet.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "ending_odometer" {
		t.Errorf("expected ending_odometer error, got %v", vErr.Fields)
	}

	// The assignment stays open and the vehicle untouched.
	stored := f.assignments.GetAssignment(assignment.ID)
	if stored.Status != domain.AssignmentStatusActive {
		t.Errorf("expected assignment to stay %s, got %s", domain.AssignmentStatusActive, stored.Status)
	}
	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusInUse {
		t.Errorf("expected vehicle to stay %s, got %s", domain.VehicleStatusInUse, vehicle.Status)
	}
}

func TestCheckin_CompletedAssignment_Fails(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	if _, err := f.service.Checkin(context.Background(), validCheckin(assignment.ID)); err != nil {
		t.Fatalf("first checkin failed: %v", err)
	}

	_, err := f.service.Checkin(context.Background(), validCheckin(assignment.ID))
	if !errors.Is(err, fleet.ErrAssignmentNotActive) {
		t.Errorf("expected ErrAssignmentNotActive, got %v", err)
	}
}

func TestCheckin_CompletedAssignment_PreemptsFieldValidation(t *testing.T) {
	t.Parallel()

	// The active-assignment precondition is checked before field
	// validation, so a closed assignment wins over a missing signature.
	f, assignment := checkedOutFixture(t)

	if _, err := f.service.Checkin(context.Background(), validCheckin(assignment.ID)); err != nil {
		t.Fatalf("first checkin failed: %v", err)
	}

	req := validCheckin(assignment.ID)
	req.Signature = ""

	_, err := f.service.Checkin(context.Background(), req)
	if !errors.Is(err, fleet.ErrAssignmentNotActive) {
		t.Errorf("expected ErrAssignmentNotActive, got %v", err)
	}
}

func TestCheckin_MissingSignature_Fails(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	req := validCheckin(assignment.ID)
	req.Signature = ""

	_, err := f.service.Checkin(context.Background(), req)

	var vErr *fleet.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCheckin_WithChecklist_CreatesPostTripInspection(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	req := validCheckin(assignment.ID)
	req.ChecklistItems = []domain.ChecklistItem{
		{Name: "tires", Status: domain.ChecklistStatusPass},
		{Name: "lights", Status: domain.ChecklistStatusFail},
	}

	result, err := f.service.Checkin(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Inspection == nil {
		t.Fatal("expected a post-trip inspection")
	}
	if result.Inspection.Type != domain.InspectionTypePostTrip {
		t.Errorf("expected inspection type %s, got %s", domain.InspectionTypePostTrip, result.Inspection.Type)
	}
	if result.Inspection.InspectorID != assignment.DriverID {
		t.Errorf("expected inspector %q, got %q", assignment.DriverID, result.Inspection.InspectorID)
	}
	if result.Inspection.OverallCondition != domain.ConditionGood {
		t.Errorf("expected condition %s, got %s", domain.ConditionGood, result.Inspection.OverallCondition)
	}

	if atomic.LoadInt32(&f.inspections.CreateCallCount) != 1 {
		t.Error("expected the inspection to be persisted")
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusAvailable {
		t.Errorf("a single failed item must not block the vehicle, got %s", vehicle.Status)
	}
}

func TestCheckin_BareDamageFlag_SynthesizesReport(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	req := validCheckin(assignment.ID)
	req.DamageReported = true
	req.DamageDescription = "dent in rear door"

	result, err := f.service.Checkin(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Inspection == nil {
		t.Fatal("expected a post-trip inspection")
	}
	if len(result.Inspection.DamageReports) != 1 {
		t.Fatalf("expected 1 damage report, got %d", len(result.Inspection.DamageReports))
	}

	report := result.Inspection.DamageReports[0]
	if report.Severity != domain.SeverityModerate {
		t.Errorf("expected default severity %s, got %s", domain.SeverityModerate, report.Severity)
	}
	if report.Description != "dent in rear door" {
		t.Errorf("unexpected description %q", report.Description)
	}
	if !report.RepairRequired {
		t.Error("moderate damage must require repair")
	}
}

func TestCheckin_CriticalDamage_VehicleOutOfService(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	req := validCheckin(assignment.ID)
	req.DamageReported = true
	req.DamageReports = []fleet.DamageReportInput{{
		Component:   "axle",
		HasDamage:   true,
		Severity:    domain.SeverityCritical,
		Description: "bent front axle",
	}}

	result, err := f.service.Checkin(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Inspection.OverallCondition != domain.ConditionDamaged {
		t.Errorf("expected condition %s, got %s", domain.ConditionDamaged, result.Inspection.OverallCondition)
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusOutOfService {
		t.Errorf("expected vehicle status %s, got %s", domain.VehicleStatusOutOfService, vehicle.Status)
	}

	// The assignment still completes; the damage blocks the vehicle,
	// not the checkin.
	if result.Assignment.Status != domain.AssignmentStatusCompleted {
		t.Errorf("expected assignment status %s, got %s", domain.AssignmentStatusCompleted, result.Assignment.Status)
	}
}

func TestCheckin_ServiceBecomesOverdue_VehicleToMaintenance(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	// The trip pushes the odometer past the service threshold.
	req := validCheckin(assignment.ID)
	req.EndingOdometer = 45900

	vehicle := f.vehicles.GetVehicle("veh-1")
	vehicle.NextServiceOdometer = 45800
	f.vehicles.AddVehicle(vehicle)

	result, err := f.service.Checkin(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Vehicle.Status != domain.VehicleStatusMaintenance {
		t.Errorf("expected vehicle status %s, got %s", domain.VehicleStatusMaintenance, result.Vehicle.Status)
	}
}

func TestCheckin_UnknownAssignment_Fails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	_, err := f.service.Checkin(context.Background(), validCheckin("asn-missing"))
	if err == nil {
		t.Fatal("expected error for unknown assignment")
	}
}

func TestCheckin_DamageFlagWithoutDescription_Fails(t *testing.T) {
	t.Parallel()

	f, assignment := checkedOutFixture(t)

	req := validCheckin(assignment.ID)
	req.DamageReported = true

	_, err := f.service.Checkin(context.Background(), req)

	var vErr *fleet.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "damage_description" {
		t.Errorf("expected damage_description error, got %v", vErr.Fields)
	}
}
