// Package storage defines how the CLI keeps its login session between runs.
package storage

import (
	"context"
	"time"
)

// AuthStorage persists the single session of the local CLI user
type AuthStorage interface {
	// SaveAuth replaces the stored session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth returns ErrAuthNotFound if nobody is logged in
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the session (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated reports whether a session exists and has not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData is the stored session. The token is kept as issued; the server
// stays the authority on whether it is still accepted.
type AuthData struct {
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	AccessToken string    `json:"access_token"`
	ServerURL   string    `json:"server_url"`
}

// Expired reports whether the token expiry has been reached at now
func (a *AuthData) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}
