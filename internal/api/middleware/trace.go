package middleware

import (
	"log/slog"
	"net/http"

	"github.com/storely/storely-api/internal/api/shared"
	"github.com/storely/storely-api/internal/platform/logger"
)

// Trace attaches a trace ID and a trace-scoped logger to each request's
// context, so every log line produced while serving the request carries
// the same correlation ID as the response body.
func Trace(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			requestLog := log.With(slog.String("trace_id", shared.GetTraceID(ctx)))
			ctx = logger.WithLogger(ctx, requestLog)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
