package auth

import (
	"context"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/token"
)

// Session is the authenticated caller of one request. It lives in the
// request context only.
type Session struct {
	User     *models.User
	Identity *token.Identity
}

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context, or nil.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
