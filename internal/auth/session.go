// Package auth tracks the authentication state that gates all remote
// fetching. The bearer token is verified by the remote ledger; locally we
// only inspect its claims to learn who the principal is and whether the
// token has already expired.
package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type State int

const (
	// StateUndetermined means the session has not been resolved yet; the
	// synchronization cache reports loading and issues no requests.
	StateUndetermined State = iota

	// StateUnauthenticated means there is no principal; caches report
	// loaded-empty and issue no requests.
	StateUnauthenticated

	// StateAuthenticated allows remote fetching.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "undetermined"
	}
}

// Claims is the ledger token payload.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type Session struct {
	mu     sync.RWMutex
	state  State
	userID string
	token  string

	now func() time.Time // test hook
}

func NewSession() *Session {
	return &Session{state: StateUndetermined, now: time.Now}
}

// SetToken resolves the session from a bearer token. An empty token means
// unauthenticated. The token signature is not checked here (the remote
// rejects forged tokens); expiry is, so a stale token never gates fetches
// open.
func (s *Session) SetToken(token string) error {
	if token == "" {
		s.SetUnauthenticated()
		return nil
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		s.SetUnauthenticated()
		return fmt.Errorf("parse session token: %w", err)
	}

	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now()) {
		s.SetUnauthenticated()
		return nil
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.userID = userID
	s.token = token
	return nil
}

func (s *Session) SetUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateUnauthenticated
	s.userID = ""
	s.token = ""
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Token returns the bearer token for outgoing requests; empty when not
// authenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
