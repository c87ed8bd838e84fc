package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/uploads"
	"github.com/iudanet/classtrack/internal/validation"
	"github.com/iudanet/classtrack/pkg/api"
)

type submissionFixture struct {
	handler     *SubmissionHandler
	assignments *mockAssignmentStorage
	submissions *mockSubmissionStorage
	fs          afero.Fs
}

func newSubmissionFixture(t *testing.T, maxBytes int64) *submissionFixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	files, err := uploads.New(fs, "uploaded_files", maxBytes)
	require.NoError(t, err)

	assignments := newMockAssignmentStorage(
		&models.Assignment{ID: "a1", Title: "Essay", TeacherID: testTeacher.ID},
		&models.Assignment{ID: "a2", Title: "Quiz", TeacherID: testTeacher2.ID},
	)
	submissions := newMockSubmissionStorage()

	h := NewSubmissionHandler(setupTestLogger(), assignments, submissions, files, validation.New(), maxBytes)
	h.now = func() time.Time { return time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC) }

	return &submissionFixture{handler: h, assignments: assignments, submissions: submissions, fs: fs}
}

type formFile struct {
	name    string
	content []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(api.FormFile, file.name)
		require.NoError(t, err)
		_, err = fw.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (f *submissionFixture) submit(t *testing.T, assignmentID string, fields map[string]string, file *formFile) *httptest.ResponseRecorder {
	t.Helper()
	req := multipartRequest(t, "/api/assignments/"+assignmentID+"/submit", fields, file)
	req.SetPathValue("id", assignmentID)
	req = req.WithContext(withSession(req.Context(), testStudent))
	w := httptest.NewRecorder()
	f.handler.Submit(w, req)
	return w
}

func TestSubmissionHandler_Submit_TextOnly(t *testing.T) {
	f := newSubmissionFixture(t, 1024)

	w := f.submit(t, "a1", map[string]string{"submission_text": "my answer"}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp api.SubmissionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "my answer", resp.SubmissionText)
	assert.Equal(t, testStudent.ID, resp.StudentID)
	assert.Equal(t, "a1", resp.AssignmentID)
	assert.Nil(t, resp.FilePath)
	assert.Nil(t, resp.Grade)
	assert.Len(t, f.submissions.items, 1)
}

func TestSubmissionHandler_Submit_WithFile(t *testing.T) {
	f := newSubmissionFixture(t, 1024)

	w := f.submit(t, "a1",
		map[string]string{"submission_text": "see attachment"},
		&formFile{name: "essay.PDF", content: []byte("%PDF-1.4")})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp api.SubmissionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.FilePath)
	assert.Equal(t, "uploaded_files/student-1_a1_20250302103000.pdf", *resp.FilePath)

	data, err := afero.ReadFile(f.fs, *resp.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestSubmissionHandler_Submit_Rejections(t *testing.T) {
	tests := []struct {
		file         *formFile
		fields       map[string]string
		name         string
		assignmentID string
		wantDetail   string
		wantStatus   int
	}{
		{
			name:         "unknown assignment",
			assignmentID: "missing",
			fields:       map[string]string{"submission_text": "x"},
			wantStatus:   http.StatusNotFound,
			wantDetail:   "Assignment not found",
		},
		{
			name:         "missing text",
			assignmentID: "a1",
			fields:       map[string]string{},
			wantStatus:   http.StatusBadRequest,
			wantDetail:   "submission_text is required",
		},
		{
			name:         "file too large",
			assignmentID: "a1",
			fields:       map[string]string{"submission_text": "x"},
			file:         &formFile{name: "big.bin", content: bytes.Repeat([]byte("a"), 2048)},
			wantStatus:   http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture(t, 1024)

			w := f.submit(t, tt.assignmentID, tt.fields, tt.file)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, decodeError(t, w).Detail)
			}
			assert.Empty(t, f.submissions.items)

			entries, err := afero.ReadDir(f.fs, "uploaded_files")
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestSubmissionHandler_Submit_NotMultipart(t *testing.T) {
	f := newSubmissionFixture(t, 1024)

	req := httptest.NewRequest(http.MethodPost, "/api/assignments/a1/submit", strings.NewReader(`{"submission_text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", "a1")
	req = req.WithContext(withSession(req.Context(), testStudent))
	w := httptest.NewRecorder()
	f.handler.Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmissionHandler_Submit_Duplicate(t *testing.T) {
	f := newSubmissionFixture(t, 1024)

	w := f.submit(t, "a1", map[string]string{"submission_text": "first"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.submit(t, "a1", map[string]string{"submission_text": "second"},
		&formFile{name: "late.txt", content: []byte("late")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already submitted this assignment.", decodeError(t, w).Detail)
	assert.Len(t, f.submissions.items, 1)

	entries, err := afero.ReadDir(f.fs, "uploaded_files")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmissionHandler_Submit_InsertFailureRemovesFile(t *testing.T) {
	f := newSubmissionFixture(t, 1024)
	f.submissions.createErr = errors.New("disk I/O error")

	w := f.submit(t, "a1",
		map[string]string{"submission_text": "x"},
		&formFile{name: "a.txt", content: []byte("data")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries, err := afero.ReadDir(f.fs, "uploaded_files")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmissionHandler_Submit_UploadFailure(t *testing.T) {
	f := newSubmissionFixture(t, 1024)
	f.handler.files = failingFileStore{}

	w := f.submit(t, "a1",
		map[string]string{"submission_text": "x"},
		&formFile{name: "a.txt", content: []byte("data")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Could not upload file", decodeError(t, w).Detail)
	assert.Empty(t, f.submissions.items)
}

func TestSubmissionHandler_ListForAssignment(t *testing.T) {
	f := newSubmissionFixture(t, 1024)
	base := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	f.submissions.items["s1"] = &models.Submission{ID: "s1", AssignmentID: "a1", StudentID: testStudent.ID, SubmittedAt: base}
	f.submissions.items["s2"] = &models.Submission{ID: "s2", AssignmentID: "a1", StudentID: "gone", SubmittedAt: base.Add(time.Minute)}
	f.submissions.usernames[testStudent.ID] = testStudent.Username

	tests := []struct {
		user         *models.User
		name         string
		assignmentID string
		wantStatus   int
	}{
		{name: "owner", user: testTeacher, assignmentID: "a1", wantStatus: http.StatusOK},
		{name: "other teacher", user: testTeacher2, assignmentID: "a1", wantStatus: http.StatusForbidden},
		{name: "unknown assignment", user: testTeacher, assignmentID: "missing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/assignments/"+tt.assignmentID+"/submissions", nil)
			req.SetPathValue("id", tt.assignmentID)
			req = req.WithContext(withSession(req.Context(), tt.user))
			w := httptest.NewRecorder()

			f.handler.ListForAssignment(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp []api.SubmissionDisplay
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Len(t, resp, 2)
			assert.Equal(t, "s1", resp[0].ID)
			assert.Equal(t, "bob", resp[0].StudentUsername)
			assert.Equal(t, "Unknown", resp[1].StudentUsername)
		})
	}
}

func TestSubmissionHandler_ListOwn(t *testing.T) {
	f := newSubmissionFixture(t, 1024)
	f.submissions.items["s1"] = &models.Submission{ID: "s1", AssignmentID: "a1", StudentID: testStudent.ID}
	f.submissions.items["s2"] = &models.Submission{ID: "s2", AssignmentID: "a1", StudentID: "someone-else"}

	req := httptest.NewRequest(http.MethodGet, "/api/student/submissions", nil)
	req = req.WithContext(withSession(req.Context(), testStudent))
	w := httptest.NewRecorder()
	f.handler.ListOwn(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []api.SubmissionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "s1", resp[0].ID)
}

func TestSubmissionHandler_Grade(t *testing.T) {
	tests := []struct {
		user         *models.User
		name         string
		submissionID string
		body         string
		wantDetail   string
		wantStatus   int
	}{
		{name: "owner grades", user: testTeacher, submissionID: "s1", body: `{"grade":87}`, wantStatus: http.StatusOK},
		{name: "zero is a grade", user: testTeacher, submissionID: "s1", body: `{"grade":0}`, wantStatus: http.StatusOK},
		{
			name: "other teacher", user: testTeacher2, submissionID: "s1", body: `{"grade":87}`,
			wantStatus: http.StatusForbidden, wantDetail: "Not authorized to grade this submission",
		},
		{
			name: "unknown submission", user: testTeacher, submissionID: "missing", body: `{"grade":87}`,
			wantStatus: http.StatusNotFound, wantDetail: "Submission not found",
		},
		{
			name: "above range", user: testTeacher, submissionID: "s1", body: `{"grade":101}`,
			wantStatus: http.StatusBadRequest, wantDetail: "grade must be at most 100",
		},
		{
			name: "below range", user: testTeacher, submissionID: "s1", body: `{"grade":-1}`,
			wantStatus: http.StatusBadRequest, wantDetail: "grade must be at least 0",
		},
		{
			name: "missing grade", user: testTeacher, submissionID: "s1", body: `{}`,
			wantStatus: http.StatusBadRequest, wantDetail: "grade is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture(t, 1024)
			f.submissions.items["s1"] = &models.Submission{ID: "s1", AssignmentID: "a1", StudentID: testStudent.ID}

			req := httptest.NewRequest(http.MethodPut, "/api/submissions/"+tt.submissionID+"/grade", strings.NewReader(tt.body))
			req.SetPathValue("id", tt.submissionID)
			req = req.WithContext(withSession(req.Context(), tt.user))
			w := httptest.NewRecorder()

			f.handler.Grade(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantDetail, decodeError(t, w).Detail)
				assert.Nil(t, f.submissions.items["s1"].Grade)
				return
			}

			var resp api.SubmissionResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.NotNil(t, resp.Grade)
			require.NotNil(t, f.submissions.items["s1"].Grade)
			assert.Equal(t, *resp.Grade, *f.submissions.items["s1"].Grade)
		})
	}
}
