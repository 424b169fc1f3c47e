package mocks

import (
	"context"
	"time"

	"github.com/you/marketsvc/domain"
)

// MockSessionManager implements domain.SessionManager interface for testing
type MockSessionManager struct {
	AuthenticateFunc func(ctx context.Context, username, password, role string) (*domain.AuthResult, error)
	CurrentUserFunc  func(ctx context.Context, token string) (*domain.Session, error)
	LogoutFunc       func(ctx context.Context, token string) error
}

// NewMockSessionManager creates a new MockSessionManager with default behaviors
func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{}
}

func (m *MockSessionManager) Authenticate(ctx context.Context, username, password, role string) (*domain.AuthResult, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, username, password, role)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockSessionManager) CurrentUser(ctx context.Context, token string) (*domain.Session, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, token)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionManager) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

// MockLoginThrottle implements domain.LoginThrottle interface for testing
type MockLoginThrottle struct {
	AllowFunc         func(ctx context.Context, username string) (bool, time.Duration, error)
	RecordFailureFunc func(ctx context.Context, username string) error
	ResetFunc         func(ctx context.Context, username string) error
	Failures          map[string]int
}

// NewMockLoginThrottle creates a new MockLoginThrottle that always allows
func NewMockLoginThrottle() *MockLoginThrottle {
	return &MockLoginThrottle{Failures: make(map[string]int)}
}

func (m *MockLoginThrottle) Allow(ctx context.Context, username string) (bool, time.Duration, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, username)
	}
	return true, 0, nil
}

func (m *MockLoginThrottle) RecordFailure(ctx context.Context, username string) error {
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, username)
	}
	m.Failures[username]++
	return nil
}

func (m *MockLoginThrottle) Reset(ctx context.Context, username string) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, username)
	}
	delete(m.Failures, username)
	return nil
}

// MockIdentitySpace implements domain.IdentitySpace interface for testing
type MockIdentitySpace struct {
	RoleName    string
	ResolveFunc func(ctx context.Context, username, password string) (*domain.Identity, error)
	Calls       int
}

func (m *MockIdentitySpace) Role() string { return m.RoleName }

func (m *MockIdentitySpace) Resolve(ctx context.Context, username, password string) (*domain.Identity, error) {
	m.Calls++
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, username, password)
	}
	return nil, domain.ErrUserNotFound
}

// MockCredentialGenerator implements domain.CredentialGenerator interface for testing
type MockCredentialGenerator struct {
	GenerateFunc func(businessName string) (domain.Credentials, error)
}

func (m *MockCredentialGenerator) Generate(businessName string) (domain.Credentials, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(businessName)
	}
	return domain.Credentials{Username: "generated1234", Password: "Pass1234"}, nil
}

// MockIdentityIssuer implements domain.IdentityIssuer interface for testing
type MockIdentityIssuer struct {
	ApproveFunc func(ctx context.Context, applicationID string, creds *domain.Credentials) (*domain.ApprovalResult, error)
}

// NewMockIdentityIssuer creates a new MockIdentityIssuer with default behaviors
func NewMockIdentityIssuer() *MockIdentityIssuer {
	return &MockIdentityIssuer{}
}

func (m *MockIdentityIssuer) Approve(ctx context.Context, applicationID string, creds *domain.Credentials) (*domain.ApprovalResult, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, applicationID, creds)
	}
	return nil, domain.ErrApplicationNotFound
}

// MockOrderLifecycle implements domain.OrderLifecycle interface for testing
type MockOrderLifecycle struct {
	PlaceFunc        func(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error)
	UpdateStatusFunc func(ctx context.Context, orderID string, status domain.OrderStatus, note string) (*domain.Order, error)
}

// NewMockOrderLifecycle creates a new MockOrderLifecycle with default behaviors
func NewMockOrderLifecycle() *MockOrderLifecycle {
	return &MockOrderLifecycle{}
}

func (m *MockOrderLifecycle) Place(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	if m.PlaceFunc != nil {
		return m.PlaceFunc(ctx, req)
	}
	return nil, domain.ErrOrderInvalid
}

func (m *MockOrderLifecycle) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) (*domain.Order, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, orderID, status, note)
	}
	return nil, domain.ErrOrderNotFound
}

// MockOrderPublisher implements domain.OrderPublisher and records every event
type MockOrderPublisher struct {
	PublishFunc func(ctx context.Context, event *domain.OrderEvent) (int, error)
	Events      []*domain.OrderEvent
}

// NewMockOrderPublisher creates a new MockOrderPublisher with no subscribers
func NewMockOrderPublisher() *MockOrderPublisher {
	return &MockOrderPublisher{}
}

func (m *MockOrderPublisher) PublishOrderCreated(ctx context.Context, event *domain.OrderEvent) (int, error) {
	m.Events = append(m.Events, event)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var (
	_ domain.SessionManager      = (*MockSessionManager)(nil)
	_ domain.LoginThrottle       = (*MockLoginThrottle)(nil)
	_ domain.IdentitySpace       = (*MockIdentitySpace)(nil)
	_ domain.CredentialGenerator = (*MockCredentialGenerator)(nil)
	_ domain.IdentityIssuer      = (*MockIdentityIssuer)(nil)
	_ domain.OrderLifecycle      = (*MockOrderLifecycle)(nil)
	_ domain.OrderPublisher      = (*MockOrderPublisher)(nil)
)
