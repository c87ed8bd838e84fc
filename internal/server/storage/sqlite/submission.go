package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/storage"
)

const submissionColumns = `s.id, s.assignment_id, s.student_id, s.submission_text, s.file_path, s.grade, s.submitted_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateSubmission stores a new submission
func (s *Storage) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (id, assignment_id, student_id, submission_text, file_path, grade, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var filePath sql.NullString
	if sub.FilePath != nil {
		filePath = sql.NullString{String: *sub.FilePath, Valid: true}
	}

	var grade sql.NullInt64
	if sub.Grade != nil {
		grade = sql.NullInt64{Int64: int64(*sub.Grade), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		sub.ID,
		sub.AssignmentID,
		sub.StudentID,
		sub.SubmissionText,
		filePath,
		grade,
		sub.SubmittedAt.UTC(),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrSubmissionAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return storage.ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	return nil
}

// GetSubmission retrieves submission by ID
func (s *Storage) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions s WHERE s.id = ?`

	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// GetStudentSubmission retrieves the student's submission for an assignment
func (s *Storage) GetStudentSubmission(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions s WHERE s.assignment_id = ? AND s.student_id = ?`

	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, assignmentID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// ListAssignmentSubmissions returns submissions for an assignment with author usernames
func (s *Storage) ListAssignmentSubmissions(ctx context.Context, assignmentID string) ([]*models.SubmissionWithStudent, error) {
	query := `
		SELECT ` + submissionColumns + `, COALESCE(u.username, 'Unknown')
		FROM submissions s
		LEFT JOIN users u ON u.id = s.student_id
		WHERE s.assignment_id = ?
		ORDER BY s.submitted_at, s.id
	`

	rows, err := s.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.SubmissionWithStudent, 0)

	for rows.Next() {
		var (
			filePath sql.NullString
			grade    sql.NullInt64
			item     models.SubmissionWithStudent
		)

		if err := rows.Scan(
			&item.ID,
			&item.AssignmentID,
			&item.StudentID,
			&item.SubmissionText,
			&filePath,
			&grade,
			&item.SubmittedAt,
			&item.StudentUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}

		applyNullable(&item.Submission, filePath, grade)
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ListStudentSubmissions returns the student's submissions, newest first
func (s *Storage) ListStudentSubmissions(ctx context.Context, studentID string) ([]*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions s WHERE s.student_id = ? ORDER BY s.submitted_at DESC, s.id`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Submission, 0)

	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		result = append(result, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// SetGrade records a grade on a submission
func (s *Storage) SetGrade(ctx context.Context, submissionID string, grade int) error {
	query := `UPDATE submissions SET grade = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, grade, submissionID)
	if err != nil {
		return fmt.Errorf("failed to set grade: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrSubmissionNotFound
	}

	return nil
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		filePath sql.NullString
		grade    sql.NullInt64
	)

	sub := &models.Submission{}
	if err := row.Scan(
		&sub.ID,
		&sub.AssignmentID,
		&sub.StudentID,
		&sub.SubmissionText,
		&filePath,
		&grade,
		&sub.SubmittedAt,
	); err != nil {
		return nil, err
	}

	applyNullable(sub, filePath, grade)
	return sub, nil
}

func applyNullable(sub *models.Submission, filePath sql.NullString, grade sql.NullInt64) {
	if filePath.Valid {
		p := filePath.String
		sub.FilePath = &p
	}
	if grade.Valid {
		g := int(grade.Int64)
		sub.Grade = &g
	}
}
