package storage

import (
	"context"

	"github.com/iudanet/classtrack/internal/models"
)

// SubmissionStorage defines interface for submission persistence
type SubmissionStorage interface {
	// CreateSubmission stores a new submission
	// Returns ErrSubmissionAlreadyExists if the student already submitted the assignment
	// Returns ErrAssignmentNotFound if the assignment doesn't exist
	CreateSubmission(ctx context.Context, submission *models.Submission) error

	// GetSubmission retrieves submission by ID
	// Returns ErrSubmissionNotFound if submission doesn't exist
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)

	// GetStudentSubmission retrieves the student's submission for an assignment
	// Returns ErrSubmissionNotFound if there is none
	GetStudentSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)

	// ListAssignmentSubmissions returns the submissions for an assignment joined
	// with their authors' usernames, oldest first
	ListAssignmentSubmissions(ctx context.Context, assignmentID string) ([]*models.SubmissionWithStudent, error)

	// ListStudentSubmissions returns the student's own submissions, newest first
	ListStudentSubmissions(ctx context.Context, studentID string) ([]*models.Submission, error)

	// SetGrade records a grade on a submission
	// Returns ErrSubmissionNotFound if submission doesn't exist
	SetGrade(ctx context.Context, submissionID string, grade int) error
}
