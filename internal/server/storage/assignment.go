package storage

import (
	"context"

	"github.com/iudanet/classtrack/internal/models"
)

// AssignmentStorage defines interface for assignment persistence
type AssignmentStorage interface {
	// CreateAssignment stores a new assignment
	// Returns ErrUserNotFound if the teacher doesn't exist
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error

	// GetAssignment retrieves assignment by ID
	// Returns ErrAssignmentNotFound if assignment doesn't exist
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)

	// ListAssignments returns all assignments, newest first
	ListAssignments(ctx context.Context) ([]*models.Assignment, error)

	// ListTeacherAssignments returns assignments created by the teacher, newest first
	ListTeacherAssignments(ctx context.Context, teacherID string) ([]*models.Assignment, error)
}
