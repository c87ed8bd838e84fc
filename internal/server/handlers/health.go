package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/classtrack/internal/server/httpx"
	"github.com/iudanet/classtrack/pkg/api"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health checks
type HealthHandler struct {
	logger  *slog.Logger
	db      Pinger
	version string
}

// NewHealthHandler creates a health handler. db may be nil.
func NewHealthHandler(logger *slog.Logger, db Pinger, version string) *HealthHandler {
	if version == "" {
		version = "dev"
	}
	return &HealthHandler{
		logger:  logger,
		db:      db,
		version: version,
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			h.logger.ErrorContext(ctx, "database ping failed", slog.Any("error", err))
			httpx.JSON(w, http.StatusServiceUnavailable, api.HealthResponse{
				Status:  "unavailable",
				Version: h.version,
			})
			return
		}
	}

	httpx.JSON(w, http.StatusOK, api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
