package util

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport emits a structured log for each outbound HTTP request.
// It includes request_id so client logs line up with server logs.
type LoggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil).
func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingTransport{next: next, logger: logger}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", req.Header.Get(RequestIDHeader),
	}
	logger := LoggerFromContextOr(req.Context(), t.logger)
	if err != nil {
		logger.Warn("http_request", append(attrs, "err", err)...)
		return nil, err
	}
	logger.Info("http_request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
