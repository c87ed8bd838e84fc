package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/auth"
	"github.com/iudanet/classtrack/internal/server/httpx"
	"github.com/iudanet/classtrack/internal/server/storage"
	"github.com/iudanet/classtrack/internal/validation"
	"github.com/iudanet/classtrack/pkg/api"
)

// Accounts registers users and checks their credentials
type Accounts interface {
	Register(ctx context.Context, username, password string, role models.Role) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// TokenIssuer issues access tokens
type TokenIssuer interface {
	IssueAccessToken(subject string, role models.Role) (string, time.Time, error)
	TTL() time.Duration
}

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	logger   *slog.Logger
	accounts Accounts
	tokens   TokenIssuer
	validate *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, accounts Accounts, tokens TokenIssuer, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		accounts: accounts,
		tokens:   tokens,
		validate: validate,
	}
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signup request", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(ctx, "invalid signup request",
			slog.String("username", req.Username),
			slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	user, err := h.accounts.Register(ctx, req.Username, req.Password, models.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserAlreadyExists):
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			httpx.Error(w, http.StatusConflict, "username already registered")
		case errors.Is(err, models.ErrUnknownRole):
			httpx.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/token. It accepts an urlencoded password form
// or a JSON body and answers with a bearer token, also set as a cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeLogin(r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	user, err := h.accounts.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httpx.Unauthorized(w, auth.ErrInvalidCredentials.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to authenticate user", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	accessToken, expiresAt, err := h.tokens.IssueAccessToken(user.Username, user.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("username", user.Username),
		slog.String("role", user.Role.String()))

	httpx.JSON(w, http.StatusOK, api.TokenResponse{
		AccessToken: accessToken,
		TokenType:   api.TokenTypeBearer,
	})
}

// Logout handles POST /api/logout by expiring the token cookie.
// Bearer tokens stay valid until exp; nothing is stored server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Unauthorized(w, auth.ErrUnauthenticated.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(sess.User))
}

func decodeLogin(r *http.Request) (api.LoginRequest, error) {
	var req api.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := httpx.DecodeJSON(r, &req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, errors.New("invalid form body")
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return req, nil
}
