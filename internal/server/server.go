// Package server assembles the HTTP API from its components.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/afero"

	"github.com/iudanet/classtrack/internal/config"
	"github.com/iudanet/classtrack/internal/crypto"
	"github.com/iudanet/classtrack/internal/server/auth"
	"github.com/iudanet/classtrack/internal/server/handlers"
	"github.com/iudanet/classtrack/internal/server/storage"
	"github.com/iudanet/classtrack/internal/server/token"
	"github.com/iudanet/classtrack/internal/server/uploads"
	"github.com/iudanet/classtrack/internal/validation"
)

// Store is the persistence the API needs.
type Store interface {
	storage.UserStorage
	storage.AssignmentStorage
	storage.SubmissionStorage
	Ping(ctx context.Context) error
}

// Deps are the collaborators created outside the server: the database,
// the filesystem uploads land on and the logger.
type Deps struct {
	Logger  *slog.Logger
	Store   Store
	Files   afero.Fs
	Version string
}

// NewHandler builds every component from cfg and returns the routed API.
func NewHandler(cfg *config.Config, deps Deps) (http.Handler, error) {
	tokens, err := token.NewService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	accounts, err := auth.NewService(deps.Logger, deps.Store, crypto.NewPasswordHasher(cfg.BcryptCost))
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	files, err := uploads.New(deps.Files, cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		return nil, fmt.Errorf("upload store: %w", err)
	}

	validate := validation.New()
	guard := auth.NewGuard(deps.Logger, tokens, auth.NewResolver(deps.Store))

	return NewRouter(RouterParams{
		Logger:         deps.Logger,
		Guard:          guard,
		Auth:           handlers.NewAuthHandler(deps.Logger, accounts, tokens, validate),
		Assignments:    handlers.NewAssignmentHandler(deps.Logger, deps.Store, validate),
		Submissions:    handlers.NewSubmissionHandler(deps.Logger, deps.Store, deps.Store, files, validate, cfg.UploadMaxBytes),
		Health:         handlers.NewHealthHandler(deps.Logger, deps.Store, deps.Version),
		RequestTimeout: cfg.AppRequestTimeout,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateWindow: cfg.AuthRateWindow,
		Production:     cfg.IsProduction(),
		TrustProxy:     cfg.AppTrustProxy,
	}), nil
}
