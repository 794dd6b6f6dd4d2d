package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSessionStartsUndetermined(t *testing.T) {
	s := NewSession()
	if got := s.State(); got != StateUndetermined {
		t.Errorf("State() = %v, want undetermined", got)
	}
}

func TestSetTokenResolvesStates(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		token     func(t *testing.T) string
		wantState State
		wantUser  string
		wantErr   bool
	}{
		{
			name:      "empty token is unauthenticated",
			token:     func(*testing.T) string { return "" },
			wantState: StateUnauthenticated,
		},
		{
			name:      "valid token authenticates",
			token:     func(t *testing.T) string { return signedToken(t, "u123", now.Add(time.Hour)) },
			wantState: StateAuthenticated,
			wantUser:  "u123",
		},
		{
			name:      "expired token is unauthenticated",
			token:     func(t *testing.T) string { return signedToken(t, "u123", now.Add(-time.Hour)) },
			wantState: StateUnauthenticated,
		},
		{
			name:      "garbage token errors and stays unauthenticated",
			token:     func(*testing.T) string { return "not-a-jwt" },
			wantState: StateUnauthenticated,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			s.now = func() time.Time { return now }

			err := s.SetToken(tt.token(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := s.State(); got != tt.wantState {
				t.Errorf("State() = %v, want %v", got, tt.wantState)
			}
			if got := s.UserID(); got != tt.wantUser {
				t.Errorf("UserID() = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestSetUnauthenticatedClearsToken(t *testing.T) {
	s := NewSession()
	if err := s.SetToken(signedToken(t, "u1", time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	s.SetUnauthenticated()
	if s.Token() != "" || s.UserID() != "" {
		t.Error("token or user survived logout")
	}
}
