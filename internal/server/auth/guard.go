package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/httpx"
	"github.com/iudanet/classtrack/internal/server/storage"
	"github.com/iudanet/classtrack/internal/server/token"
)

// CookieName is the cookie that carries the access token for browser clients.
const CookieName = "access_token"

// TokenValidator checks a raw token and returns what it asserts.
type TokenValidator interface {
	Validate(raw string) (*token.Identity, error)
}

// Guard turns a raw token into a Session and enforces roles.
type Guard struct {
	logger   *slog.Logger
	tokens   TokenValidator
	resolver *Resolver
}

// NewGuard creates a Guard.
func NewGuard(logger *slog.Logger, tokens TokenValidator, resolver *Resolver) *Guard {
	return &Guard{
		logger:   logger,
		tokens:   tokens,
		resolver: resolver,
	}
}

// Authenticate validates raw and loads its user. Every failure is reported
// as ErrUnauthenticated.
func (g *Guard) Authenticate(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		g.logger.DebugContext(ctx, "authentication failed", slog.String("reason", "missing token"))
		return nil, ErrUnauthenticated
	}

	identity, err := g.tokens.Validate(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "authentication failed",
			slog.String("reason", tokenFailureReason(err)))
		return nil, ErrUnauthenticated
	}

	user, err := g.resolver.Resolve(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			g.logger.WarnContext(ctx, "authentication failed",
				slog.String("reason", "user not found"),
				slog.String("subject", identity.Subject))
		} else {
			g.logger.ErrorContext(ctx, "failed to resolve user", slog.Any("error", err))
		}
		return nil, ErrUnauthenticated
	}

	return &Session{User: user, Identity: identity}, nil
}

// Require returns a check that authenticates raw and then demands role.
// The persisted role decides, not the role claim inside the token.
func (g *Guard) Require(role models.Role) func(ctx context.Context, raw string) (*Session, error) {
	return func(ctx context.Context, raw string) (*Session, error) {
		sess, err := g.Authenticate(ctx, raw)
		if err != nil {
			return nil, err
		}

		if sess.User.Role != role {
			g.logger.WarnContext(ctx, "access denied",
				slog.String("username", sess.User.Username),
				slog.String("role", sess.User.Role.String()),
				slog.String("required", role.String()))
			return nil, forbiddenFor(role)
		}

		return sess, nil
	}
}

// RequireTeacher is Require(models.RoleTeacher).
func (g *Guard) RequireTeacher() func(ctx context.Context, raw string) (*Session, error) {
	return g.Require(models.RoleTeacher)
}

// RequireStudent is Require(models.RoleStudent).
func (g *Guard) RequireStudent() func(ctx context.Context, raw string) (*Session, error) {
	return g.Require(models.RoleStudent)
}

// RequireAuth is middleware admitting any authenticated user.
func (g *Guard) RequireAuth() func(http.Handler) http.Handler {
	return g.middleware(g.Authenticate)
}

// RequireRole is middleware admitting only users with role.
func (g *Guard) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return g.middleware(g.Require(role))
}

func (g *Guard) middleware(check func(context.Context, string) (*Session, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := check(ctx, TokenFromRequest(r))
			if err != nil {
				if errors.Is(err, ErrForbidden) {
					httpx.Error(w, http.StatusForbidden, err.Error())
					return
				}
				httpx.Unauthorized(w, ErrUnauthenticated.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(ctx, sess)))
		})
	}
}

// TokenFromRequest returns the bearer token from the Authorization header,
// or the access_token cookie when no Authorization header is sent.
// A header with another scheme yields "".
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(value)
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrInvalidSignature):
		return "invalid signature"
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrMalformed):
		return "malformed"
	default:
		return err.Error()
	}
}
