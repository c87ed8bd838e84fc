package auth

import (
	"context"
	"fmt"

	"github.com/iudanet/classtrack/internal/models"
)

// UserFinder looks users up by username.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Resolver maps a token subject to the current user record.
type Resolver struct {
	users UserFinder
}

// NewResolver creates a Resolver over the given user store.
func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the user named by subject. A missing user surfaces as a
// wrapped storage.ErrUserNotFound.
func (r *Resolver) Resolve(ctx context.Context, subject string) (*models.User, error) {
	user, err := r.users.GetUserByUsername(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", subject, err)
	}
	return user, nil
}
