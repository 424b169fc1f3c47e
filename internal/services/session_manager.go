package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/you/marketsvc/domain"
)

// SessionManagerImpl implements domain.SessionManager. Sessions live only in
// this process's memory: a restart logs everyone out.
type SessionManagerImpl struct {
	spaces      []domain.IdentitySpace
	restaurants domain.RestaurantRepository
	tokenSvc    domain.TokenService
	throttle    domain.LoginThrottle
	ttl         time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*domain.Session // keyed by token
}

// NewSessionManager creates a session manager probing spaces in the given order
func NewSessionManager(
	spaces []domain.IdentitySpace,
	restaurants domain.RestaurantRepository,
	tokenSvc domain.TokenService,
	throttle domain.LoginThrottle,
	ttl time.Duration,
) *SessionManagerImpl {
	return &SessionManagerImpl{
		spaces:      spaces,
		restaurants: restaurants,
		tokenSvc:    tokenSvc,
		throttle:    throttle,
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[string]*domain.Session),
	}
}

var _ domain.SessionManager = (*SessionManagerImpl)(nil)

// Authenticate implements domain.SessionManager
func (s *SessionManagerImpl) Authenticate(ctx context.Context, username, password, role string) (*domain.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, wait, err := s.throttle.Allow(ctx, username)
	if err != nil {
		log.Printf("[session] throttle unavailable, allowing %q: %v", username, err)
	} else if !allowed {
		return nil, fmt.Errorf("%w: retry in %s", domain.ErrTooManyAttempts, wait.Round(time.Second))
	}

	identity, err := s.resolve(ctx, username, password, role)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if ferr := s.throttle.RecordFailure(ctx, username); ferr != nil {
				log.Printf("[session] failed to record login failure: %v", ferr)
			}
		}
		return nil, err
	}
	if err := s.throttle.Reset(ctx, username); err != nil {
		log.Printf("[session] failed to reset login failures: %v", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Identity:  *identity,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	token, err := s.tokenSvc.IssueSessionToken(*identity, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	session.Token = token

	result := &domain.AuthResult{
		Identity:  *identity,
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}
	if identity.Role == domain.RoleRestaurant && identity.RestaurantID != "" {
		profile, err := s.restaurants.FindProfileByID(ctx, identity.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load restaurant profile: %w", err)
		}
		result.Restaurant = profile
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	log.Printf("[session] %s signed in as %s", identity.Username, identity.Role)
	return result, nil
}

// resolve tries the identity spaces in priority order and signs in with the
// first one accepting both username and password, so a collision resolves to
// the higher-priority space. An inactive account only wins when no later
// space accepts the credentials.
func (s *SessionManagerImpl) resolve(ctx context.Context, username, password, role string) (*domain.Identity, error) {
	tried := 0
	failure := domain.ErrInvalidCredentials
	for _, space := range s.spaces {
		if role != "" && space.Role() != role {
			continue
		}
		tried++
		identity, err := space.Resolve(ctx, username, password)
		switch {
		case err == nil:
			return identity, nil
		case errors.Is(err, domain.ErrUserInactive):
			failure = domain.ErrUserInactive
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidCredentials):
		default:
			return nil, err
		}
	}
	if tried == 0 {
		log.Printf("[session] no identity space for role %q", role)
	}
	return nil, failure
}

// CurrentUser implements domain.SessionManager. An expired session is removed
// by the lookup that discovers it.
func (s *SessionManagerImpl) CurrentUser(_ context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		delete(s.sessions, token)
		return nil, domain.ErrSessionExpired
	}

	claims, err := s.tokenSvc.ValidateSessionToken(token)
	switch {
	case err == nil:
		if claims.SessionID != session.ID {
			delete(s.sessions, token)
			return nil, domain.ErrSessionNotFound
		}
	case errors.Is(err, domain.ErrTokenExpired):
		// the in-memory deadline is authoritative; the token's exp has whole-second precision
	default:
		delete(s.sessions, token)
		return nil, domain.ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

// Logout implements domain.SessionManager; it always succeeds
func (s *SessionManagerImpl) Logout(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// PurgeExpired drops every session past its deadline and returns how many
func (s *SessionManagerImpl) PurgeExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged
}

// Active counts live sessions
func (s *SessionManagerImpl) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
