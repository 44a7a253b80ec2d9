package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taskpulse/taskpulse-api/internal/api/shared"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that attaches a trace ID and a
// request-scoped logger to every request context.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())

			requestLogger := base.With(
				slog.String("trace_id", shared.GetTraceID(ctx)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			ctx = logger.WithLogger(ctx, requestLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
