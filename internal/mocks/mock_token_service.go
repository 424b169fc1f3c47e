package mocks

import (
	"strings"
	"time"

	"github.com/you/marketsvc/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueSessionTokenFunc    func(identity domain.Identity, sessionID string, expiresAt time.Time) (string, error)
	ValidateSessionTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueSessionToken signs a session token
func (m *MockTokenService) IssueSessionToken(identity domain.Identity, sessionID string, expiresAt time.Time) (string, error) {
	if m.IssueSessionTokenFunc != nil {
		return m.IssueSessionTokenFunc(identity, sessionID, expiresAt)
	}
	// Default behavior: readable token that ValidateSessionToken understands
	return "token:" + identity.UserID + ":" + identity.Role + ":" + sessionID, nil
}

// ValidateSessionToken parses a session token
func (m *MockTokenService) ValidateSessionToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateSessionTokenFunc != nil {
		return m.ValidateSessionTokenFunc(token)
	}
	parts := strings.Split(token, ":")
	if len(parts) != 4 || parts[0] != "token" {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{UserID: parts[1], Role: parts[2], SessionID: parts[3]}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
