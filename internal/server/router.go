package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iudanet/classtrack/internal/models"
	"github.com/iudanet/classtrack/internal/server/auth"
	"github.com/iudanet/classtrack/internal/server/handlers"
	"github.com/iudanet/classtrack/internal/server/httpx"
	"github.com/iudanet/classtrack/internal/server/middleware"
)

// RouterParams holds everything NewRouter wires together.
type RouterParams struct {
	Logger         *slog.Logger
	Guard          *auth.Guard
	Auth           *handlers.AuthHandler
	Assignments    *handlers.AssignmentHandler
	Submissions    *handlers.SubmissionHandler
	Health         *handlers.HealthHandler
	RequestTimeout time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
	Production     bool
	// TrustProxy rewrites RemoteAddr from forwarding headers. Off, the auth
	// rate limiter keys on the TCP peer, which a client cannot spoof.
	TrustProxy bool
}

// NewRouter builds the HTTP API.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	if p.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingWithSkip(p.Logger, []string{"/api/health"}))
	r.Use(middleware.RecoveryMiddleware(p.Logger))
	r.Use(middleware.SecureHeaders(p.Production))
	if p.RequestTimeout > 0 {
		r.Use(chimw.Timeout(p.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", p.Health.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitMiddleware(p.AuthRateLimit, p.AuthRateWindow, p.Logger))
			r.Post("/signup", p.Auth.Signup)
			r.Post("/token", p.Auth.Login)
		})
		r.Post("/logout", p.Auth.Logout)

		r.With(p.Guard.RequireAuth()).Get("/me", p.Auth.Me)

		r.Group(func(r chi.Router) {
			r.Use(p.Guard.RequireRole(models.RoleTeacher))
			r.Post("/assignments", p.Assignments.Create)
			r.Get("/teacher/assignments", p.Assignments.ListOwn)
			r.Get("/assignments/{id}/submissions", p.Submissions.ListForAssignment)
			r.Put("/submissions/{id}/grade", p.Submissions.Grade)
		})

		r.Group(func(r chi.Router) {
			r.Use(p.Guard.RequireRole(models.RoleStudent))
			r.Post("/assignments/{id}/submit", p.Submissions.Submit)
			r.Get("/student/assignments", p.Assignments.ListAvailable)
			r.Get("/student/submissions", p.Submissions.ListOwn)
		})
	})

	return r
}
