package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/iudanet/classtrack/internal/server/httpx"
)

// RateLimitMiddleware limits requests per client IP to rate per window.
// Rejected requests get a JSON 429.
func RateLimitMiddleware(rate int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return httprate.Limit(rate, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			httpx.Error(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
		}),
	)
}
