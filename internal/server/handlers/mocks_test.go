package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/auth"
	"github.com/iudanet/classtrack/internal/server/storage"
	"github.com/iudanet/classtrack/internal/server/token"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withSession(ctx context.Context, user *models.User) context.Context {
	return auth.ContextWithSession(ctx, &auth.Session{
		User:     user,
		Identity: &token.Identity{Subject: user.Username, Role: user.Role},
	})
}

// mockAccounts is a mock implementation of Accounts
type mockAccounts struct {
	users       map[string]*models.User
	passwords   map[string]string
	registerErr error
	authErr     error
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{
		users:     make(map[string]*models.User),
		passwords: make(map[string]string),
	}
}

func (m *mockAccounts) Register(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, models.ErrUnknownRole
	}
	if _, exists := m.users[username]; exists {
		return nil, storage.ErrUserAlreadyExists
	}
	u := &models.User{
		ID:        "id-" + username,
		Username:  username,
		Role:      role,
		CreatedAt: time.Now(),
	}
	m.users[username] = u
	m.passwords[username] = password
	return u, nil
}

func (m *mockAccounts) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	u, ok := m.users[username]
	if !ok || m.passwords[username] != password {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

// mockTokens is a mock implementation of TokenIssuer
type mockTokens struct {
	err    error
	issued []string
	ttl    time.Duration
}

func (m *mockTokens) IssueAccessToken(subject string, role models.Role) (string, time.Time, error) {
	if m.err != nil {
		return "", time.Time{}, m.err
	}
	m.issued = append(m.issued, subject)
	return "token-" + subject + "-" + role.String(), time.Now().Add(m.ttl), nil
}

func (m *mockTokens) TTL() time.Duration {
	return m.ttl
}

// mockAssignmentStorage is an in-memory AssignmentStorage
type mockAssignmentStorage struct {
	items     map[string]*models.Assignment
	createErr error
	listErr   error
}

func newMockAssignmentStorage(items ...*models.Assignment) *mockAssignmentStorage {
	m := &mockAssignmentStorage{items: make(map[string]*models.Assignment)}
	for _, a := range items {
		m.items[a.ID] = a
	}
	return m
}

func (m *mockAssignmentStorage) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockAssignmentStorage) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, storage.ErrAssignmentNotFound
	}
	return a, nil
}

func (m *mockAssignmentStorage) ListAssignments(ctx context.Context) ([]*models.Assignment, error) {
	return m.list(func(*models.Assignment) bool { return true })
}

func (m *mockAssignmentStorage) ListTeacherAssignments(ctx context.Context, teacherID string) ([]*models.Assignment, error) {
	return m.list(func(a *models.Assignment) bool { return a.TeacherID == teacherID })
}

func (m *mockAssignmentStorage) list(keep func(*models.Assignment) bool) ([]*models.Assignment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Assignment, 0)
	for _, a := range m.items {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// mockSubmissionStorage is an in-memory SubmissionStorage
type mockSubmissionStorage struct {
	items     map[string]*models.Submission
	usernames map[string]string
	createErr error
	getErr    error
}

func newMockSubmissionStorage(items ...*models.Submission) *mockSubmissionStorage {
	m := &mockSubmissionStorage{
		items:     make(map[string]*models.Submission),
		usernames: make(map[string]string),
	}
	for _, s := range items {
		m.items[s.ID] = s
	}
	return m
}

func (m *mockSubmissionStorage) CreateSubmission(ctx context.Context, s *models.Submission) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.items {
		if existing.AssignmentID == s.AssignmentID && existing.StudentID == s.StudentID {
			return storage.ErrSubmissionAlreadyExists
		}
	}
	m.items[s.ID] = s
	return nil
}

func (m *mockSubmissionStorage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, storage.ErrSubmissionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSubmissionStorage) GetStudentSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, s := range m.items {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, storage.ErrSubmissionNotFound
}

func (m *mockSubmissionStorage) ListAssignmentSubmissions(ctx context.Context, assignmentID string) ([]*models.SubmissionWithStudent, error) {
	out := make([]*models.SubmissionWithStudent, 0)
	for _, s := range m.items {
		if s.AssignmentID != assignmentID {
			continue
		}
		name, ok := m.usernames[s.StudentID]
		if !ok {
			name = "Unknown"
		}
		out = append(out, &models.SubmissionWithStudent{Submission: *s, StudentUsername: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (m *mockSubmissionStorage) ListStudentSubmissions(ctx context.Context, studentID string) ([]*models.Submission, error) {
	out := make([]*models.Submission, 0)
	for _, s := range m.items {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (m *mockSubmissionStorage) SetGrade(ctx context.Context, id string, grade int) error {
	s, ok := m.items[id]
	if !ok {
		return storage.ErrSubmissionNotFound
	}
	s.Grade = &grade
	return nil
}

// failingFileStore fails every write
type failingFileStore struct{}

func (failingFileStore) Save(string, io.Reader) (string, error) {
	return "", errors.New("disk full")
}

func (failingFileStore) Remove(string) error { return nil }
