package util

import (
	"context"
	"strings"
)

type requestIDContextKey string

const (
	// RequestIDHeader is the header carrying the correlation id on outbound calls.
	RequestIDHeader = "X-Request-Id"

	requestIDCtxKey          = requestIDContextKey("request_id")
	defaultRequestIDFallback = ""
)

// WithRequestID returns a context carrying id (generated when empty) and a
// child logger tagged with "request_id".
func WithRequestID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		id = NewID()
	}
	ctx = context.WithValue(ctx, requestIDCtxKey, id)
	logger := LoggerFromContext(ctx).With("request_id", id)
	return ContextWithLogger(ctx, logger)
}

// RequestIDFromContext returns request id from context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return defaultRequestIDFallback
	}
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// EnsureRequestID returns ctx unchanged when it already has a request id.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	ctx = WithRequestID(ctx, "")
	return ctx, RequestIDFromContext(ctx)
}
