package handlers

import (
	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/pkg/api"
)

func toUserResponse(u *models.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toAssignmentResponse(a *models.Assignment) api.AssignmentResponse {
	return api.AssignmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		CreatedAt:   a.CreatedAt,
		TeacherID:   a.TeacherID,
	}
}

func toAssignmentList(items []*models.Assignment) []api.AssignmentResponse {
	out := make([]api.AssignmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAssignmentResponse(a))
	}
	return out
}

func toSubmissionResponse(s *models.Submission) api.SubmissionResponse {
	return api.SubmissionResponse{
		ID:             s.ID,
		AssignmentID:   s.AssignmentID,
		StudentID:      s.StudentID,
		SubmissionText: s.SubmissionText,
		SubmittedAt:    s.SubmittedAt,
		Grade:          s.Grade,
		FilePath:       s.FilePath,
	}
}
