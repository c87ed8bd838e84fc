package api

import "time"

// CreateAssignmentRequest is the body of POST /api/assignments
type CreateAssignmentRequest struct {
	DueDate     time.Time `json:"due_date" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=10000"`
}

// AssignmentResponse describes an assignment
type AssignmentResponse struct {
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   string    `json:"teacher_id"`
}

// GradeRequest is the body of PUT /api/submissions/{id}/grade.
// Grade is a pointer so that a missing value is told apart from zero.
type GradeRequest struct {
	Grade *int `json:"grade" validate:"required,gte=0,lte=100"`
}

// SubmissionResponse describes a submission
type SubmissionResponse struct {
	SubmittedAt    time.Time `json:"submitted_at"`
	Grade          *int      `json:"grade"`
	FilePath       *string   `json:"file_path"`
	ID             string    `json:"id"`
	AssignmentID   string    `json:"assignment_id"`
	StudentID      string    `json:"student_id"`
	SubmissionText string    `json:"submission_text"`
}

// SubmissionDisplay is a submission as listed to the owning teacher
type SubmissionDisplay struct {
	SubmissionResponse
	StudentUsername string `json:"student_username"`
}

// Multipart field names of POST /api/assignments/{id}/submit
const (
	FormSubmissionText = "submission_text"
	FormFile           = "file"
)
