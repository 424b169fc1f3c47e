package mocks

import (
	"sync"

	"github.com/you/marketsvc/domain"
)

// MockPasswordService implements domain.PasswordService interface for testing.
// Hashes are "hashed_" + password, and every hashed plaintext is recorded so
// tests can check that issued credentials went through hashing.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	mu     sync.Mutex
	hashed []string
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash implements domain.PasswordService
func (m *MockPasswordService) Hash(password string) (string, error) {
	m.mu.Lock()
	m.hashed = append(m.hashed, password)
	m.mu.Unlock()
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify implements domain.PasswordService; an empty stored hash never matches,
// which is how a disabled admin space behaves
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword != "" && hashedPassword == "hashed_"+password
}

// Hashed returns every plaintext passed to Hash
func (m *MockPasswordService) Hashed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.hashed...)
}

var _ domain.PasswordService = (*MockPasswordService)(nil)
