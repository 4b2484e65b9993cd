package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/redis"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]*domain.Vehicle),
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[vehicle.ID] = vehicle
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *vehicle
	return &copy, nil
}

func (m *MockVehicleRepository) GetAll(ctx context.Context, status domain.VehicleStatus) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		if status != "" && v.Status != status {
			continue
		}
		copy := *v
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[vehicle.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *vehicle
	m.vehicles[vehicle.ID] = &copy
	return nil
}

// GetVehicle returns a vehicle for test assertions.
func (m *MockVehicleRepository) GetVehicle(id string) *domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles[id]
}

// ──────────────────────────────────────────────
// MOCK ASSIGNMENT REPOSITORY
// ──────────────────────────────────────────────

// MockAssignmentRepository is a mock implementation of
// AssignmentRepository. Create enforces the one-active-per-vehicle
// constraint the way the database unique index does.
type MockAssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[string]*domain.Assignment

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockAssignmentRepository creates a new mock assignment repository.
func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{
		assignments: make(map[string]*domain.Assignment),
	}
}

// AddAssignment adds an assignment to the mock repository.
func (m *MockAssignmentRepository) AddAssignment(a *domain.Assignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.assignments {
		if existing.VehicleID == a.VehicleID && existing.Status == domain.AssignmentStatusActive {
			return repository.ErrDuplicateActive
		}
	}
	copy := *a
	m.assignments[a.ID] = &copy
	return nil
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *a
	return &copy, nil
}

func (m *MockAssignmentRepository) GetActiveByVehicleID(ctx context.Context, vehicleID string) (*domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.assignments {
		if a.VehicleID == vehicleID && a.Status == domain.AssignmentStatusActive {
			copy := *a
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockAssignmentRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Assignment
	for _, a := range m.assignments {
		if a.VehicleID == vehicleID {
			copy := *a
			result = append(result, &copy)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *MockAssignmentRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Assignment
	for _, a := range m.assignments {
		if a.DriverID == driverID {
			copy := *a
			result = append(result, &copy)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (m *MockAssignmentRepository) GetRecent(ctx context.Context, limit int) ([]*domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		copy := *a
		result = append(result, &copy)
	}
	sortNewestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *domain.Assignment) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[a.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *a
	m.assignments[a.ID] = &copy
	return nil
}

// GetAssignment returns an assignment for test assertions.
func (m *MockAssignmentRepository) GetAssignment(id string) *domain.Assignment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assignments[id]
}

func sortNewestFirst(assignments []*domain.Assignment) {
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].CheckedOutAt.After(assignments[j].CheckedOutAt)
	})
}

// ──────────────────────────────────────────────
// MOCK INSPECTION REPOSITORY
// ──────────────────────────────────────────────

// MockInspectionRepository is a mock implementation of
// InspectionRepository.
type MockInspectionRepository struct {
	mu          sync.RWMutex
	inspections map[string]*domain.Inspection

	// Counters for verification
	CreateCallCount       int32
	UpdateReviewCallCount int32

	// Error injection
	CreateError       error
	UpdateReviewError error
}

// NewMockInspectionRepository creates a new mock inspection repository.
func NewMockInspectionRepository() *MockInspectionRepository {
	return &MockInspectionRepository{
		inspections: make(map[string]*domain.Inspection),
	}
}

func (m *MockInspectionRepository) Create(ctx context.Context, inspection *domain.Inspection) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *inspection
	m.inspections[inspection.ID] = &copy
	return nil
}

func (m *MockInspectionRepository) GetByID(ctx context.Context, id string) (*domain.Inspection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	insp, ok := m.inspections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *insp
	return &copy, nil
}

func (m *MockInspectionRepository) GetByVehicleID(ctx context.Context, vehicleID string) ([]*domain.Inspection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Inspection
	for _, insp := range m.inspections {
		if insp.VehicleID == vehicleID {
			copy := *insp
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockInspectionRepository) UpdateReview(ctx context.Context, id string, status domain.ReviewStatus, reviewedBy, notes string) error {
	atomic.AddInt32(&m.UpdateReviewCallCount, 1)
	if m.UpdateReviewError != nil {
		return m.UpdateReviewError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	insp, ok := m.inspections[id]
	if !ok {
		return repository.ErrNotFound
	}
	insp.ReviewStatus = status
	insp.ReviewedBy = reviewedBy
	insp.ReviewNotes = notes
	return nil
}

// GetInspection returns an inspection for test assertions.
func (m *MockInspectionRepository) GetInspection(id string) *domain.Inspection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inspections[id]
}

// ──────────────────────────────────────────────
// MOCK UNIT OF WORK
// ──────────────────────────────────────────────

// MockUnitOfWork runs callbacks against the in-memory repositories. A
// mutex serializes callbacks the way database transactions on the same
// rows would.
type MockUnitOfWork struct {
	mu    sync.Mutex
	repos repository.Repos

	DoCallCount int32

	// Error injection
	DoError error
}

// NewMockUnitOfWork creates a unit of work over the given mocks.
func NewMockUnitOfWork(
	vehicles *MockVehicleRepository,
	assignments *MockAssignmentRepository,
	inspections *MockInspectionRepository,
) *MockUnitOfWork {
	return &MockUnitOfWork{
		repos: repository.Repos{
			Vehicles:    vehicles,
			Assignments: assignments,
			Inspections: inspections,
		},
	}
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(r repository.Repos) error) error {
	atomic.AddInt32(&m.DoCallCount, 1)
	if m.DoError != nil {
		return m.DoError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.repos)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory lock store with SetNX semantics.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[vehicleID] {
		return false, nil
	}
	m.locks[vehicleID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseVehicleLock(ctx context.Context, vehicleID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, vehicleID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is an in-memory vehicle snapshot cache.
type MockCacheStore struct {
	mu       sync.RWMutex
	vehicles map[string]*redis.CachedVehicle

	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{vehicles: make(map[string]*redis.CachedVehicle)}
}

func (m *MockCacheStore) GetVehicle(ctx context.Context, vehicleID string) (*redis.CachedVehicle, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[vehicleID]
	if !ok {
		return nil, nil
	}
	copy := *v
	return &copy, nil
}

func (m *MockCacheStore) SetVehicle(ctx context.Context, v *redis.CachedVehicle) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *v
	m.vehicles[v.ID] = &copy
	return nil
}

func (m *MockCacheStore) InvalidateVehicle(ctx context.Context, vehicleID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vehicles, vehicleID)
	return nil
}
