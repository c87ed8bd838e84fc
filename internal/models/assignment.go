package models

import "time"

// Assignment is a piece of work published by a teacher.
type Assignment struct {
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   string    `json:"teacher_id"`
}

// Submission is a student's answer to an assignment. Grade and FilePath are
// optional; a student submits at most once per assignment.
type Submission struct {
	SubmittedAt    time.Time `json:"submitted_at"`
	Grade          *int      `json:"grade"`
	FilePath       *string   `json:"file_path"`
	ID             string    `json:"id"`
	AssignmentID   string    `json:"assignment_id"`
	StudentID      string    `json:"student_id"`
	SubmissionText string    `json:"submission_text"`
}

// SubmissionWithStudent is a submission joined with its author's username,
// as shown to the owning teacher.
type SubmissionWithStudent struct {
	Submission
	StudentUsername string `json:"student_username"`
}
