package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/classtrack/internal/crypto"
	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/storage"
	"github.com/iudanet/classtrack/internal/server/token"
)

const testSecret = "test-secret-key"

// mockUserStorage is an in-memory user store keyed by username
type mockUserStorage struct {
	users        map[string]*models.User
	createError  error
	getUserError error
}

func newMockUserStorage(users ...*models.User) *mockUserStorage {
	m := &mockUserStorage{users: make(map[string]*models.User)}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

// countingHasher records how many comparisons were made
type countingHasher struct {
	*crypto.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(plaintext, digest string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(plaintext, digest)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T, opts ...token.Option) *token.Service {
	t.Helper()
	svc, err := token.NewService(testSecret, 30*time.Minute, opts...)
	require.NoError(t, err)
	return svc
}

func testUser(username string, role models.Role) *models.User {
	return &models.User{
		ID:        "id-" + username,
		Username:  username,
		Role:      role,
		CreatedAt: time.Now(),
	}
}
