package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/heinNell/Asset-Management/internal/config"
	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/fleet"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// ──────────────────────────────────────────────
// 1. CHECKOUT
// ──────────────────────────────────────────────

// lifecycleFixture wires an AssignmentService over the in-memory mocks.
type lifecycleFixture struct {
	vehicles    *MockVehicleRepository
	assignments *MockAssignmentRepository
	inspections *MockInspectionRepository
	uow         *MockUnitOfWork
	locks       *MockLockStore
	cache       *MockCacheStore
	service     *fleet.AssignmentService
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		vehicles:    NewMockVehicleRepository(),
		assignments: NewMockAssignmentRepository(),
		inspections: NewMockInspectionRepository(),
		locks:       NewMockLockStore(),
		cache:       NewMockCacheStore(),
	}
	f.uow = NewMockUnitOfWork(f.vehicles, f.assignments, f.inspections)

	cfg := config.FleetConfig{
		MileageWarnThreshold: 1000,
		AvgDailyDistance:     50,
		LockTTL:              10 * time.Second,
		StorageTimeout:       3 * time.Second,
	}

	inspectionService := fleet.NewInspectionService(f.inspections, f.uow, nil, nil, cfg)
	f.service = fleet.NewAssignmentService(f.uow, f.vehicles, f.assignments, f.locks, f.cache, inspectionService, nil, cfg)

	// Deterministic ids for assertions.
	var seq int32
	newID := func() string {
		return fmt.Sprintf("id-%d", atomic.AddInt32(&seq, 1))
	}
	f.service.NewID = newID
	inspectionService.NewID = newID

	return f
}

// availableVehicle returns a vehicle ready for checkout.
func availableVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:                  "veh-1",
		Make:                "Toyota",
		Model:               "Hilux",
		Year:                2022,
		LicensePlate:        "FL-204",
		Status:              domain.VehicleStatusAvailable,
		CurrentOdometer:     45000,
		FuelLevel:           80,
		LastServiceOdometer: 40000,
		NextServiceOdometer: 50000,
		ServiceInterval:     10000,
	}
}

func validCheckout() fleet.CheckoutRequest {
	return fleet.CheckoutRequest{
		VehicleID:        "veh-1",
		DriverID:         "drv-1",
		StartingOdometer: 45000,
		FuelLevel:        80,
		Destination:      "Depot 12",
		Purpose:          "Delivery run",
		Signature:        "sig-checkout",
	}
}

func TestCheckout_Success(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())

	result, err := f.service.Checkout(context.Background(), validCheckout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Assignment.Status != domain.AssignmentStatusActive {
		t.Errorf("expected assignment status %s, got %s", domain.AssignmentStatusActive, result.Assignment.Status)
	}
	if result.Assignment.StartingOdometer != 45000 {
		t.Errorf("expected starting odometer 45000, got %d", result.Assignment.StartingOdometer)
	}
	if result.Assignment.CheckedOutAt.IsZero() {
		t.Error("expected checkout timestamp to be set")
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusInUse {
		t.Errorf("expected vehicle status %s, got %s", domain.VehicleStatusInUse, vehicle.Status)
	}
	if vehicle.CurrentDriverID != "drv-1" {
		t.Errorf("expected driver drv-1 recorded on vehicle, got %q", vehicle.CurrentDriverID)
	}

	if atomic.LoadInt32(&f.cache.InvalidateCallCount) != 1 {
		t.Error("expected vehicle cache to be invalidated")
	}
	if atomic.LoadInt32(&f.locks.ReleaseCallCount) != 1 {
		t.Error("expected vehicle lock to be released")
	}
}

func TestCheckout_VehicleInUse_Fails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	v := availableVehicle()
	v.Status = domain.VehicleStatusInUse
	v.CurrentDriverID = "drv-9"
	f.vehicles.AddVehicle(v)

	_, err := f.service.Checkout(context.Background(), validCheckout())
	if !errors.Is(err, fleet.ErrVehicleNotAvailable) {
		t.Errorf("expected ErrVehicleNotAvailable, got %v", err)
	}
	if atomic.LoadInt32(&f.assignments.CreateCallCount) != 0 {
		t.Error("no assignment should be created for an unavailable vehicle")
	}
}

func TestCheckout_VehicleInUse_PreemptsFieldValidation(t *testing.T) {
	t.Parallel()

	// Availability is checked first: an in-use vehicle fails with the
	// precondition error even when the request is also missing fields.
	f := newLifecycleFixture()
	v := availableVehicle()
	v.Status = domain.VehicleStatusInUse
	v.CurrentDriverID = "drv-9"
	f.vehicles.AddVehicle(v)

	req := validCheckout()
	req.Signature = ""

	_, err := f.service.Checkout(context.Background(), req)
	if !errors.Is(err, fleet.ErrVehicleNotAvailable) {
		t.Errorf("expected ErrVehicleNotAvailable, got %v", err)
	}
}

func TestCheckout_MaintenanceVehicle_Fails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	v := availableVehicle()
	v.Status = domain.VehicleStatusMaintenance
	f.vehicles.AddVehicle(v)

	_, err := f.service.Checkout(context.Background(), validCheckout())
	if !errors.Is(err, fleet.ErrVehicleNotAvailable) {
		t.Errorf("expected ErrVehicleNotAvailable, got %v", err)
	}
}

func TestCheckout_MissingFields_ValidationError(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())

	_, err := f.service.Checkout(context.Background(), fleet.CheckoutRequest{
		VehicleID:        "veh-1",
		StartingOdometer: -1,
	})

	var vErr *fleet.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) < 4 {
		t.Errorf("expected errors for every missing field, got %v", vErr.Fields)
	}
	if atomic.LoadInt32(&f.locks.AcquireCallCount) != 0 {
		t.Error("validation must fail before any lock is taken")
	}
}

func TestCheckout_LowerOdometer_Fails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())

	req := validCheckout()
	req.StartingOdometer = 44000

	_, err := f.service.Checkout(context.Background(), req)

	var vErr *fleet.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if atomic.LoadInt32(&f.assignments.CreateCallCount) != 0 {
		t.Error("no assignment should be created on a rejected reading")
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusAvailable {
		t.Errorf("vehicle must stay %s, got %s", domain.VehicleStatusAvailable, vehicle.Status)
	}
}

func TestCheckout_LargeOdometerJump_WarnsButSucceeds(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())

	req := validCheckout()
	req.StartingOdometer = 46500

	result, err := f.service.Checkout(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", result.Warnings)
	}
	if result.Assignment.Status != domain.AssignmentStatusActive {
		t.Error("warning must not block the checkout")
	}
}

func TestCheckout_ServiceOverdue_Blocked(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	v := availableVehicle()
	v.CurrentOdometer = 50000
	v.NextServiceOdometer = 50000
	f.vehicles.AddVehicle(v)

	req := validCheckout()
	req.StartingOdometer = 50000

	_, err := f.service.Checkout(context.Background(), req)
	if !errors.Is(err, fleet.ErrServiceOverdue) {
		t.Errorf("expected ErrServiceOverdue, got %v", err)
	}
}

func TestCheckout_VehicleNotFound(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	_, err := f.service.Checkout(context.Background(), validCheckout())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckout_LockHeld_Conflict(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())

	// Another operation holds the vehicle lock.
	locked, err := f.locks.AcquireVehicleLock(context.Background(), "veh-1", 10*time.Second)
	if err != nil || !locked {
		t.Fatalf("failed to pre-acquire lock: locked=%v err=%v", locked, err)
	}

	_, err = f.service.Checkout(context.Background(), validCheckout())
	if !errors.Is(err, fleet.ErrAssignmentConflict) {
		t.Errorf("expected ErrAssignmentConflict, got %v", err)
	}
}

func TestCheckout_ActiveAssignmentExists_Conflict(t *testing.T) {
	t.Parallel()

	// Inconsistent state: the vehicle row says AVAILABLE but an active
	// assignment exists. The re-check inside the transaction catches it.
	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())
	f.assignments.AddAssignment(&domain.Assignment{
		ID:        "asn-0",
		VehicleID: "veh-1",
		DriverID:  "drv-0",
		Status:    domain.AssignmentStatusActive,
	})

	_, err := f.service.Checkout(context.Background(), validCheckout())
	if !errors.Is(err, fleet.ErrAssignmentConflict) {
		t.Errorf("expected ErrAssignmentConflict, got %v", err)
	}
}

func TestCheckout_ConcurrentSameVehicle_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.vehicles.AddVehicle(availableVehicle())

	const attempts = 8

	var wg sync.WaitGroup
	var successes int32
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validCheckout()
			req.DriverID = fmt.Sprintf("drv-%d", i)
			_, err := f.service.Checkout(context.Background(), req)
			if err == nil {
				atomic.AddInt32(&successes, 1)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful checkout, got %d", successes)
	}

	// Losers fail at the lock, the availability check or the unique
	// active-assignment constraint; all of those surface as conflict
	// or not-available, never as a partial write.
	for i, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, fleet.ErrAssignmentConflict) && !errors.Is(err, fleet.ErrVehicleNotAvailable) {
			t.Errorf("attempt %d: unexpected error %v", i, err)
		}
	}

	if atomic.LoadInt32(&f.assignments.CreateCallCount) > int32(attempts) {
		t.Error("unexpected number of create attempts")
	}

	vehicle := f.vehicles.GetVehicle("veh-1")
	if vehicle.Status != domain.VehicleStatusInUse {
		t.Errorf("expected vehicle status %s, got %s", domain.VehicleStatusInUse, vehicle.Status)
	}
}
