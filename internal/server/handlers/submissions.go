package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/auth"
	"github.com/iudanet/classtrack/internal/server/httpx"
	"github.com/iudanet/classtrack/internal/server/storage"
	"github.com/iudanet/classtrack/internal/server/uploads"
	"github.com/iudanet/classtrack/internal/validation"
	"github.com/iudanet/classtrack/pkg/api"
)

// multipartOverhead is allowed on top of the file limit for form fields
// and part headers.
const multipartOverhead = 1 << 20

// FileStore keeps uploaded files
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	Remove(path string) error
}

// SubmissionHandler serves submission and grading endpoints
type SubmissionHandler struct {
	logger         *slog.Logger
	assignments    storage.AssignmentStorage
	submissions    storage.SubmissionStorage
	files          FileStore
	validate       *validator.Validate
	now            func() time.Time
	maxUploadBytes int64
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(
	logger *slog.Logger,
	assignments storage.AssignmentStorage,
	submissions storage.SubmissionStorage,
	files FileStore,
	validate *validator.Validate,
	maxUploadBytes int64,
) *SubmissionHandler {
	return &SubmissionHandler{
		logger:         logger,
		assignments:    assignments,
		submissions:    submissions,
		files:          files,
		validate:       validate,
		now:            time.Now,
		maxUploadBytes: maxUploadBytes,
	}
}

// Submit handles POST /api/assignments/{id}/submit (student, multipart)
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	student := auth.SessionFromContext(ctx).User
	assignmentID := r.PathValue("id")

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Error(w, http.StatusRequestEntityTooLarge, uploads.ErrTooLarge.Error())
			return
		}
		h.logger.WarnContext(ctx, "failed to parse submission form", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	texts, ok := r.MultipartForm.Value[api.FormSubmissionText]
	if !ok || len(texts) == 0 {
		httpx.Error(w, http.StatusBadRequest, api.FormSubmissionText+" is required")
		return
	}

	if _, err := h.assignments.GetAssignment(ctx, assignmentID); err != nil {
		h.storageError(w, r, err, "failed to get assignment")
		return
	}

	_, err := h.submissions.GetStudentSubmission(ctx, assignmentID, student.ID)
	switch {
	case err == nil:
		httpx.Error(w, http.StatusBadRequest, "You have already submitted this assignment.")
		return
	case !errors.Is(err, storage.ErrSubmissionNotFound):
		h.storageError(w, r, err, "failed to check existing submission")
		return
	}

	now := h.now()

	filePath, err := h.saveFile(r, student.ID, assignmentID, now)
	if err != nil {
		if errors.Is(err, uploads.ErrTooLarge) {
			httpx.Error(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to store uploaded file", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Could not upload file")
		return
	}

	submission := &models.Submission{
		ID:             uuid.New().String(),
		AssignmentID:   assignmentID,
		StudentID:      student.ID,
		SubmissionText: texts[0],
		SubmittedAt:    now.UTC(),
		FilePath:       filePath,
	}

	if err := h.submissions.CreateSubmission(ctx, submission); err != nil {
		if filePath != nil {
			if rmErr := h.files.Remove(*filePath); rmErr != nil {
				h.logger.ErrorContext(ctx, "failed to remove orphaned upload",
					slog.String("path", *filePath),
					slog.Any("error", rmErr))
			}
		}
		if errors.Is(err, storage.ErrSubmissionAlreadyExists) {
			httpx.Error(w, http.StatusBadRequest, "You have already submitted this assignment.")
			return
		}
		h.storageError(w, r, err, "failed to create submission")
		return
	}

	h.logger.InfoContext(ctx, "submission created",
		slog.String("submission_id", submission.ID),
		slog.String("assignment_id", assignmentID),
		slog.String("student_id", student.ID),
		slog.Bool("with_file", filePath != nil))

	httpx.JSON(w, http.StatusCreated, toSubmissionResponse(submission))
}

// saveFile stores the optional "file" part and returns its recorded path,
// or nil when no file was sent.
func (h *SubmissionHandler) saveFile(r *http.Request, studentID, assignmentID string, at time.Time) (*string, error) {
	file, header, err := r.FormFile(api.FormFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer func(f multipart.File) {
		_ = f.Close()
	}(file)

	name := uploads.FileName(studentID, assignmentID, header.Filename, at)
	p, err := h.files.Save(name, file)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListForAssignment handles GET /api/assignments/{id}/submissions (owning teacher)
func (h *SubmissionHandler) ListForAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teacher := auth.SessionFromContext(ctx).User
	assignmentID := r.PathValue("id")

	assignment, err := h.assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		h.storageError(w, r, err, "failed to get assignment")
		return
	}

	if assignment.TeacherID != teacher.ID {
		h.logger.WarnContext(ctx, "teacher does not own assignment",
			slog.String("assignment_id", assignmentID),
			slog.String("teacher_id", teacher.ID))
		httpx.Error(w, http.StatusForbidden, "Not authorized to view submissions for this assignment")
		return
	}

	items, err := h.submissions.ListAssignmentSubmissions(ctx, assignmentID)
	if err != nil {
		h.storageError(w, r, err, "failed to list submissions")
		return
	}

	out := make([]api.SubmissionDisplay, 0, len(items))
	for _, s := range items {
		out = append(out, api.SubmissionDisplay{
			SubmissionResponse: toSubmissionResponse(&s.Submission),
			StudentUsername:    s.StudentUsername,
		})
	}

	httpx.JSON(w, http.StatusOK, out)
}

// ListOwn handles GET /api/student/submissions
func (h *SubmissionHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	student := auth.SessionFromContext(ctx).User

	items, err := h.submissions.ListStudentSubmissions(ctx, student.ID)
	if err != nil {
		h.storageError(w, r, err, "failed to list submissions")
		return
	}

	out := make([]api.SubmissionResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toSubmissionResponse(s))
	}

	httpx.JSON(w, http.StatusOK, out)
}

// Grade handles PUT /api/submissions/{id}/grade (owning teacher)
func (h *SubmissionHandler) Grade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	teacher := auth.SessionFromContext(ctx).User
	submissionID := r.PathValue("id")

	var req api.GradeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	submission, err := h.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		h.storageError(w, r, err, "failed to get submission")
		return
	}

	assignment, err := h.assignments.GetAssignment(ctx, submission.AssignmentID)
	if err != nil {
		h.storageError(w, r, err, "failed to get assignment")
		return
	}

	if assignment.TeacherID != teacher.ID {
		h.logger.WarnContext(ctx, "teacher does not own assignment",
			slog.String("submission_id", submissionID),
			slog.String("teacher_id", teacher.ID))
		httpx.Error(w, http.StatusForbidden, "Not authorized to grade this submission")
		return
	}

	if err := h.submissions.SetGrade(ctx, submissionID, *req.Grade); err != nil {
		h.storageError(w, r, err, "failed to set grade")
		return
	}

	submission.Grade = req.Grade

	h.logger.InfoContext(ctx, "submission graded",
		slog.String("submission_id", submissionID),
		slog.Int("grade", *req.Grade))

	httpx.JSON(w, http.StatusOK, toSubmissionResponse(submission))
}

func (h *SubmissionHandler) storageError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, storage.ErrAssignmentNotFound):
		httpx.Error(w, http.StatusNotFound, "Assignment not found")
	case errors.Is(err, storage.ErrSubmissionNotFound):
		httpx.Error(w, http.StatusNotFound, "Submission not found")
	default:
		h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
