package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard response body: a human-readable message plus
// optional payload data.
type Envelope struct {
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and body.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err, "path", r.URL.Path)
	}
}

// RespondWithData writes a success envelope with the given message and data.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, msg string, data any) {
	RespondWithJSON(w, r, status, Envelope{Msg: msg, Data: data})
}

// RespondWithError writes an error envelope with the given status and
// message, attaching the trace ID from the request context when present.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, Envelope{Msg: message, TraceID: traceID})
}
