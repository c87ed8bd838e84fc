// Package api is the HTTP client the CLI uses to talk to the server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/iudanet/classtrack/pkg/api"
)

// ErrUnauthorized is matched by callers that need to ask for a fresh login
var ErrUnauthorized = errors.New("not authenticated")

// StatusError is returned for every non-2xx response
type StatusError struct {
	Detail     string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401 response
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Upload is an optional file attached to a submission
type Upload struct {
	Content io.Reader
	Name    string
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Authorization is dropped by net/http on cross-host redirects
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Signup registers a new account
func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/signup", "", req, &resp); err != nil {
		return nil, fmt.Errorf("signup request failed: %w", err)
	}
	return &resp, nil
}

// Login exchanges credentials for an access token using the password form
func (c *Client) Login(ctx context.Context, username, password string) (*api.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp api.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/token", "",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me returns the account behind the token
func (c *Client) Me(ctx context.Context, token string) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// Health reports server status
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// CreateAssignment publishes an assignment as the token's teacher
func (c *Client) CreateAssignment(ctx context.Context, token string, req api.CreateAssignmentRequest) (*api.AssignmentResponse, error) {
	var resp api.AssignmentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/assignments", token, req, &resp); err != nil {
		return nil, fmt.Errorf("create assignment request failed: %w", err)
	}
	return &resp, nil
}

// ListTeacherAssignments lists the assignments created by the token's teacher
func (c *Client) ListTeacherAssignments(ctx context.Context, token string) ([]api.AssignmentResponse, error) {
	var resp []api.AssignmentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/teacher/assignments", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list assignments request failed: %w", err)
	}
	return resp, nil
}

// ListStudentAssignments lists every assignment open to students
func (c *Client) ListStudentAssignments(ctx context.Context, token string) ([]api.AssignmentResponse, error) {
	var resp []api.AssignmentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/student/assignments", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list assignments request failed: %w", err)
	}
	return resp, nil
}

// Submit sends a submission as multipart form data. file may be nil.
func (c *Client) Submit(ctx context.Context, token, assignmentID, text string, file *Upload) (*api.SubmissionResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField(api.FormSubmissionText, text); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if file != nil {
		part, err := mw.CreateFormFile(api.FormFile, filepath.Base(file.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var resp api.SubmissionResponse
	path := "/api/assignments/" + url.PathEscape(assignmentID) + "/submit"
	if err := c.do(ctx, http.MethodPost, path, token, mw.FormDataContentType(), &buf, &resp); err != nil {
		return nil, fmt.Errorf("submit request failed: %w", err)
	}
	return &resp, nil
}

// ListAssignmentSubmissions lists submissions to one of the teacher's assignments
func (c *Client) ListAssignmentSubmissions(ctx context.Context, token, assignmentID string) ([]api.SubmissionDisplay, error) {
	var resp []api.SubmissionDisplay
	path := "/api/assignments/" + url.PathEscape(assignmentID) + "/submissions"
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list submissions request failed: %w", err)
	}
	return resp, nil
}

// ListStudentSubmissions lists the token's student submissions
func (c *Client) ListStudentSubmissions(ctx context.Context, token string) ([]api.SubmissionResponse, error) {
	var resp []api.SubmissionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/student/submissions", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list submissions request failed: %w", err)
	}
	return resp, nil
}

// Grade sets the grade of a submission
func (c *Client) Grade(ctx context.Context, token, submissionID string, grade int) (*api.SubmissionResponse, error) {
	var resp api.SubmissionResponse
	path := "/api/submissions/" + url.PathEscape(submissionID) + "/grade"
	if err := c.doJSON(ctx, http.MethodPut, path, token, api.GradeRequest{Grade: &grade}, &resp); err != nil {
		return nil, fmt.Errorf("grade request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any) error {
	if body == nil {
		return c.do(ctx, method, path, token, "", nil, result)
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, method, path, token, "application/json", bytes.NewReader(jsonData), result)
}

// do выполняет HTTP запрос
func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Detail = errResp.Detail
			if statusErr.Detail == "" {
				statusErr.Detail = errResp.Error
			}
		}
		return statusErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
