// Package client is the restaurant panel runtime: it signs in through the
// dispatcher, keeps the live order board and stays connected to the
// restaurant's realtime room.
package client

import (
	"sync"
	"time"

	"github.com/you/marketsvc/internal/wire"
)

// Session holds the signed-in user for one panel runtime. It lives in memory
// only and is never written to disk; a restarted panel signs in again.
type Session struct {
	mu      sync.Mutex
	current *wire.Session
	now     func() time.Time
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Set stores the result of a successful authenticate call
func (s *Session) Set(sess *wire.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess == nil {
		s.current = nil
		return
	}
	cp := *sess
	s.current = &cp
}

// CurrentUser returns the session or nil once it has expired. Discovering
// expiry clears the state.
func (s *Session) CurrentUser() *wire.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	if s.now().After(s.current.ExpiresAt) {
		s.current = nil
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the live session token or ""
func (s *Session) Token() string {
	if cur := s.CurrentUser(); cur != nil {
		return cur.Token
	}
	return ""
}

// Clear forgets the session unconditionally
func (s *Session) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
