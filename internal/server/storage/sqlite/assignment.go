package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/storage"
)

const assignmentColumns = `id, title, description, due_date, created_at, teacher_id`

// CreateAssignment stores a new assignment
func (s *Storage) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, title, description, due_date, created_at, teacher_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Description,
		a.DueDate.UTC(),
		a.CreatedAt.UTC(),
		a.TeacherID,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert assignment: %w", err)
	}

	return nil
}

// GetAssignment retrieves assignment by ID
func (s *Storage) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = ?`

	a := &models.Assignment{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.DueDate,
		&a.CreatedAt,
		&a.TeacherID,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return a, nil
}

// ListAssignments returns all assignments, newest first
func (s *Storage) ListAssignments(ctx context.Context) ([]*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments ORDER BY created_at DESC, id`
	return s.queryAssignments(ctx, query)
}

// ListTeacherAssignments returns assignments created by the teacher, newest first
func (s *Storage) ListTeacherAssignments(ctx context.Context, teacherID string) ([]*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE teacher_id = ? ORDER BY created_at DESC, id`
	return s.queryAssignments(ctx, query, teacherID)
}

func (s *Storage) queryAssignments(ctx context.Context, query string, args ...any) ([]*models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	assignments := make([]*models.Assignment, 0)

	for rows.Next() {
		a := &models.Assignment{}
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.DueDate,
			&a.CreatedAt,
			&a.TeacherID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return assignments, nil
}
