package mocks

import (
	"context"
	"time"

	"github.com/you/marketsvc/domain"
)

// MockApplicationRepository implements domain.ApplicationRepository interface for testing
type MockApplicationRepository struct {
	CreateFunc   func(ctx context.Context, app *domain.Application) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Application, error)
	ListFunc     func(ctx context.Context) ([]*domain.Application, error)
	RejectFunc   func(ctx context.Context, id, reason string, at time.Time) (*domain.Application, error)
	CountFunc    func(ctx context.Context, status domain.ApplicationStatus) (int64, error)
}

// NewMockApplicationRepository creates a new MockApplicationRepository with default behaviors
func NewMockApplicationRepository() *MockApplicationRepository {
	return &MockApplicationRepository{}
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, app)
	}
	return nil
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrApplicationNotFound
}

func (m *MockApplicationRepository) List(ctx context.Context) ([]*domain.Application, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.Application{}, nil
}

func (m *MockApplicationRepository) Reject(ctx context.Context, id, reason string, at time.Time) (*domain.Application, error) {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, id, reason, at)
	}
	return nil, domain.ErrApplicationNotFound
}

func (m *MockApplicationRepository) Count(ctx context.Context, status domain.ApplicationStatus) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, status)
	}
	return 0, nil
}

// MockRestaurantRepository implements domain.RestaurantRepository interface for testing
type MockRestaurantRepository struct {
	FindUserByUsernameFunc  func(ctx context.Context, username string) (*domain.RestaurantUser, error)
	FindUserByIDFunc        func(ctx context.Context, id string) (*domain.RestaurantUser, error)
	FindProfileByUserIDFunc func(ctx context.Context, userID string) (*domain.RestaurantProfile, error)
	FindProfileByIDFunc     func(ctx context.Context, id string) (*domain.RestaurantProfile, error)
	ListProfilesFunc        func(ctx context.Context) ([]*domain.RestaurantProfile, error)
	CountUsersFunc          func(ctx context.Context) (int64, error)
	CountProfilesFunc       func(ctx context.Context, status string) (int64, error)
}

// NewMockRestaurantRepository creates a new MockRestaurantRepository with default behaviors
func NewMockRestaurantRepository() *MockRestaurantRepository {
	return &MockRestaurantRepository{}
}

func (m *MockRestaurantRepository) FindUserByUsername(ctx context.Context, username string) (*domain.RestaurantUser, error) {
	if m.FindUserByUsernameFunc != nil {
		return m.FindUserByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockRestaurantRepository) FindUserByID(ctx context.Context, id string) (*domain.RestaurantUser, error) {
	if m.FindUserByIDFunc != nil {
		return m.FindUserByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockRestaurantRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.RestaurantProfile, error) {
	if m.FindProfileByUserIDFunc != nil {
		return m.FindProfileByUserIDFunc(ctx, userID)
	}
	return nil, domain.ErrRestaurantNotFound
}

func (m *MockRestaurantRepository) FindProfileByID(ctx context.Context, id string) (*domain.RestaurantProfile, error) {
	if m.FindProfileByIDFunc != nil {
		return m.FindProfileByIDFunc(ctx, id)
	}
	return nil, domain.ErrRestaurantNotFound
}

func (m *MockRestaurantRepository) ListProfiles(ctx context.Context) ([]*domain.RestaurantProfile, error) {
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc(ctx)
	}
	return []*domain.RestaurantProfile{}, nil
}

func (m *MockRestaurantRepository) CountUsers(ctx context.Context) (int64, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx)
	}
	return 0, nil
}

func (m *MockRestaurantRepository) CountProfiles(ctx context.Context, status string) (int64, error) {
	if m.CountProfilesFunc != nil {
		return m.CountProfilesFunc(ctx, status)
	}
	return 0, nil
}

// MockCustomerRepository implements domain.CustomerRepository interface for testing
type MockCustomerRepository struct {
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.CustomerUser, error)
	CountFunc          func(ctx context.Context) (int64, error)
}

// NewMockCustomerRepository creates a new MockCustomerRepository with default behaviors
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{}
}

func (m *MockCustomerRepository) FindByUsername(ctx context.Context, username string) (*domain.CustomerUser, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockPackageRepository implements domain.PackageRepository interface for testing
type MockPackageRepository struct {
	CreateFunc   func(ctx context.Context, pkg *domain.Package) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Package, error)
	ListFunc     func(ctx context.Context, filter domain.PackageFilter) ([]*domain.Package, error)
	UpdateFunc   func(ctx context.Context, pkg *domain.Package, readRemaining int) error
	DeleteFunc   func(ctx context.Context, id string, at time.Time) error
	CountFunc    func(ctx context.Context, status domain.PackageStatus) (int64, error)
}

// NewMockPackageRepository creates a new MockPackageRepository with default behaviors
func NewMockPackageRepository() *MockPackageRepository {
	return &MockPackageRepository{}
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, pkg)
	}
	return nil
}

func (m *MockPackageRepository) FindByID(ctx context.Context, id string) (*domain.Package, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrPackageNotFound
}

func (m *MockPackageRepository) List(ctx context.Context, filter domain.PackageFilter) ([]*domain.Package, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*domain.Package{}, nil
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *domain.Package, readRemaining int) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, pkg, readRemaining)
	}
	return nil
}

func (m *MockPackageRepository) Delete(ctx context.Context, id string, at time.Time) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, at)
	}
	return nil
}

func (m *MockPackageRepository) Count(ctx context.Context, status domain.PackageStatus) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, status)
	}
	return 0, nil
}

// MockOrderRepository implements domain.OrderRepository interface for testing
type MockOrderRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Order, error)
	ListFunc     func(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	CountFunc    func(ctx context.Context) (int64, error)
}

// NewMockOrderRepository creates a new MockOrderRepository with default behaviors
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*domain.Order{}, nil
}

func (m *MockOrderRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var (
	_ domain.ApplicationRepository = (*MockApplicationRepository)(nil)
	_ domain.RestaurantRepository  = (*MockRestaurantRepository)(nil)
	_ domain.CustomerRepository    = (*MockCustomerRepository)(nil)
	_ domain.PackageRepository     = (*MockPackageRepository)(nil)
	_ domain.OrderRepository       = (*MockOrderRepository)(nil)
)
