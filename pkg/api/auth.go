// Package api holds the JSON shapes shared by the server and the CLI client.
package api

import "time"

// TokenTypeBearer is the only token type the server issues.
const TokenTypeBearer = "bearer"

// SignupRequest is the body of POST /api/signup. An empty role means student.
type SignupRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// LoginRequest carries credentials for POST /api/token. The same fields are
// accepted as an urlencoded form.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse describes an account without its password digest
type UserResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
