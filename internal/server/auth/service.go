package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/storage"
)

// PasswordHasher is the credential store used by Service.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// UserStore is the subset of storage.UserStorage that Service needs.
type UserStore interface {
	UserFinder
	CreateUser(ctx context.Context, user *models.User) error
}

// Service registers accounts and checks login credentials.
type Service struct {
	logger *slog.Logger
	users  UserStore
	hasher PasswordHasher
	now    func() time.Time
	// dummyDigest is compared against when the username is unknown so that
	// both login failures cost one bcrypt comparison.
	dummyDigest string
}

// NewService creates a Service. It hashes a throwaway password once to
// obtain a digest at the hasher's cost.
func NewService(logger *slog.Logger, users UserStore, hasher PasswordHasher) (*Service, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}

	return &Service{
		logger:      logger,
		users:       users,
		hasher:      hasher,
		now:         time.Now,
		dummyDigest: dummy,
	}, nil
}

// Register creates an account. An empty role means student. Returns
// storage.ErrUserAlreadyExists for a taken username and models.ErrUnknownRole
// for anything outside the closed role set.
func (s *Service) Register(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownRole, role)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()))

	return user, nil
}

// Authenticate checks username and password. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}
		s.hasher.Verify(password, s.dummyDigest)
		s.logger.WarnContext(ctx, "login failed",
			slog.String("reason", "user not found"),
			slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login failed",
			slog.String("reason", "wrong password"),
			slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
