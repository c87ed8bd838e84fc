package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/auth"
	"github.com/iudanet/classtrack/internal/server/httpx"
	"github.com/iudanet/classtrack/internal/server/storage"
	"github.com/iudanet/classtrack/internal/validation"
	"github.com/iudanet/classtrack/pkg/api"
)

// AssignmentHandler serves assignment endpoints for both roles
type AssignmentHandler struct {
	logger      *slog.Logger
	assignments storage.AssignmentStorage
	validate    *validator.Validate
	now         func() time.Time
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(logger *slog.Logger, assignments storage.AssignmentStorage, validate *validator.Validate) *AssignmentHandler {
	return &AssignmentHandler{
		logger:      logger,
		assignments: assignments,
		validate:    validate,
		now:         time.Now,
	}
}

// Create handles POST /api/assignments (teacher)
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := auth.SessionFromContext(ctx)

	var req api.CreateAssignmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode assignment request", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	assignment := &models.Assignment{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.UTC(),
		CreatedAt:   h.now().UTC(),
		TeacherID:   sess.User.ID,
	}

	if err := h.assignments.CreateAssignment(ctx, assignment); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// the teacher was deleted between authentication and insert
			httpx.Unauthorized(w, auth.ErrUnauthenticated.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to create assignment", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "assignment created",
		slog.String("assignment_id", assignment.ID),
		slog.String("teacher_id", assignment.TeacherID))

	httpx.JSON(w, http.StatusCreated, toAssignmentResponse(assignment))
}

// ListOwn handles GET /api/teacher/assignments
func (h *AssignmentHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := auth.SessionFromContext(ctx)

	items, err := h.assignments.ListTeacherAssignments(ctx, sess.User.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list teacher assignments", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.JSON(w, http.StatusOK, toAssignmentList(items))
}

// ListAvailable handles GET /api/student/assignments. Every student sees
// every assignment; there is no enrollment.
func (h *AssignmentHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.assignments.ListAssignments(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list assignments", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.JSON(w, http.StatusOK, toAssignmentList(items))
}
