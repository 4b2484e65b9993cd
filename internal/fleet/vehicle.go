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

// VehicleService handles vehicle registration and read-side lookups.
type VehicleService struct {
	vehicles repository.VehicleRepository
	cache    redis.CacheStoreInterface
	cfg      config.FleetConfig

	Now   func() time.Time
	NewID func() string
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicles repository.VehicleRepository, cache redis.CacheStoreInterface, cfg config.FleetConfig) *VehicleService {
	return &VehicleService{
		vehicles: vehicles,
		cache:    cache,
		cfg:      cfg,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// RegisterVehicleRequest contains the parameters for registering a
// vehicle into the fleet.
type RegisterVehicleRequest struct {
	Make            string
	Model           string
	Year            int
	LicensePlate    string
	CurrentOdometer int64
	FuelLevel       float64
	ServiceInterval int64
}

// Register adds a new vehicle to the fleet in the AVAILABLE state.
func (s *VehicleService) Register(ctx context.Context, req RegisterVehicleRequest) (*domain.Vehicle, error) {
	var fieldErrs []FieldError
	if req.Make == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "make", Message: "make is required"})
	}
	if req.Model == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "model", Message: "model is required"})
	}
	if req.LicensePlate == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "license_plate", Message: "license plate is required"})
	}
	if req.CurrentOdometer < 0 {
		fieldErrs = append(fieldErrs, FieldError{Field: "current_odometer", Message: "odometer cannot be negative"})
	}
	if !ValidateFuelLevel(req.FuelLevel) {
		fieldErrs = append(fieldErrs, FieldError{Field: "fuel_level", Message: "fuel level must be between 0 and 100"})
	}
	if req.ServiceInterval <= 0 {
		fieldErrs = append(fieldErrs, FieldError{Field: "service_interval", Message: "service interval must be positive"})
	}
	if len(fieldErrs) > 0 {
		return nil, newValidationError(fieldErrs)
	}

	now := s.Now()
	vehicle := &domain.Vehicle{
		ID:                  s.NewID(),
		Make:                req.Make,
		Model:               req.Model,
		Year:                req.Year,
		LicensePlate:        req.LicensePlate,
		Status:              domain.VehicleStatusAvailable,
		CurrentOdometer:     req.CurrentOdometer,
		FuelLevel:           req.FuelLevel,
		LastServiceOdometer: req.CurrentOdometer,
		NextServiceOdometer: req.CurrentOdometer + req.ServiceInterval,
		ServiceInterval:     req.ServiceInterval,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.vehicles.Create(opCtx, vehicle); err != nil {
		return nil, storageErr(err)
	}

	return vehicle, nil
}

// Get retrieves a vehicle by ID.
func (s *VehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	if id == "" {
		return nil, ErrInvalidVehicleID
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	vehicle, err := s.vehicles.GetByID(opCtx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return vehicle, nil
}

// List retrieves vehicles, optionally filtered by status.
func (s *VehicleService) List(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	vehicles, err := s.vehicles.GetAll(opCtx, status)
	if err != nil {
		return nil, storageErr(err)
	}
	return vehicles, nil
}

// ServiceStatus computes the service-interval view of a vehicle. Cached
// snapshots serve the fast path; a miss reads the database and
// repopulates the cache.
func (s *VehicleService) ServiceStatus(ctx context.Context, id string) (domain.ServiceStatus, error) {
	if id == "" {
		return domain.ServiceStatus{}, ErrInvalidVehicleID
	}

	if s.cache != nil {
		cached, err := s.cache.GetVehicle(ctx, id)
		if err == nil && cached != nil {
			snapshot := &domain.Vehicle{
				CurrentOdometer:     cached.CurrentOdometer,
				NextServiceOdometer: cached.NextServiceOdometer,
			}
			return NextServiceStatus(snapshot, s.cfg.AvgDailyDistance), nil
		}
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	vehicle, err := s.vehicles.GetByID(opCtx, id)
	if err != nil {
		return domain.ServiceStatus{}, storageErr(err)
	}

	if s.cache != nil {
		_ = s.cache.SetVehicle(ctx, &redis.CachedVehicle{
			ID:                  vehicle.ID,
			Make:                vehicle.Make,
			Model:               vehicle.Model,
			Year:                vehicle.Year,
			LicensePlate:        vehicle.LicensePlate,
			Status:              string(vehicle.Status),
			CurrentOdometer:     vehicle.CurrentOdometer,
			FuelLevel:           vehicle.FuelLevel,
			CurrentDriverID:     vehicle.CurrentDriverID,
			NextServiceOdometer: vehicle.NextServiceOdometer,
		})
	}

	return NextServiceStatus(vehicle, s.cfg.AvgDailyDistance), nil
}

func (s *VehicleService) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StorageTimeout
	if timeout <= 0 {
		timeout = config.DefaultStorageTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
