package apiclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"adminboard/internal/util"
	"adminboard/pkg/notify"
)

// DebugTimeHeader carries the client send time in development builds.
const DebugTimeHeader = "X-Request-Time"

// RequestInterceptor mutates an outbound request before it is sent.
type RequestInterceptor func(req *http.Request) error

// TokenSource supplies the current session token ("" when anonymous).
type TokenSource interface {
	Token() string
}

// Terminator ends the session after the server rejected its credentials.
type Terminator interface {
	Expire(ctx context.Context)
}

// BearerToken attaches "Authorization: Bearer <token>" when a token is present.
func BearerToken(tokens TokenSource) RequestInterceptor {
	return func(req *http.Request) error {
		if tokens == nil {
			return nil
		}
		if token := strings.TrimSpace(tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// RequestID propagates the context request id, generating one when absent.
func RequestID() RequestInterceptor {
	return func(req *http.Request) error {
		id := util.RequestIDFromContext(req.Context())
		if id == "" {
			id = util.NewID()
		}
		req.Header.Set(util.RequestIDHeader, id)
		return nil
	}
}

// DebugTimestamp stamps the send time on each request.
func DebugTimestamp(now func() time.Time) RequestInterceptor {
	if now == nil {
		now = time.Now
	}
	return func(req *http.Request) error {
		req.Header.Set(DebugTimeHeader, now().UTC().Format(time.RFC3339Nano))
		return nil
	}
}

type statusNotice struct {
	kind    notify.Kind
	title   string
	message string
	// useServer prefers the server message over the fixed text.
	useServer bool
}

var statusNotices = map[int]statusNotice{
	http.StatusBadRequest:          {notify.KindError, "Validation Error", "Invalid request. Please check your input.", true},
	http.StatusUnauthorized:        {notify.KindError, "Session Expired", "Your session has expired. Please log in again.", false},
	http.StatusForbidden:           {notify.KindError, "Access Denied", "You do not have permission to perform this action.", false},
	http.StatusNotFound:            {notify.KindError, "Not Found", "The requested resource was not found.", false},
	http.StatusTooManyRequests:     {notify.KindWarning, "Too Many Requests", "Too many requests. Please slow down and try again later.", false},
	http.StatusInternalServerError: {notify.KindError, "Server Error", "An internal server error occurred. Please try again later.", false},
	http.StatusServiceUnavailable:  {notify.KindError, "Service Unavailable", "The service is temporarily unavailable. Please try again later.", false},
}

var genericNotice = statusNotice{notify.KindError, "Error", "An unexpected error occurred. Please try again.", true}

const networkErrorMessage = "Unable to reach the server. Please check your internet connection."

// intercept converts a failed call into at most one notification, ends the
// session on 401 and hands the original error back to the caller.
func (c *Client) intercept(ctx context.Context, method, path string, err error) error {
	logger := util.LoggerFromContextOr(ctx, c.logger)

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		logger.Warn("api request failed", "method", method, "path", path, "err", netErr.Err)
		c.notice(notify.KindError, networkErrorMessage, "Network Error")
		return err
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	logger.Warn("api request failed", "method", method, "path", path, "status", apiErr.Status, "err", apiErr.Message)

	if apiErr.Status == http.StatusUnprocessableEntity {
		return err
	}
	n, ok := statusNotices[apiErr.Status]
	if !ok {
		n = genericNotice
	}
	msg := n.message
	if n.useServer && apiErr.ServerMessage() != "" {
		msg = apiErr.ServerMessage()
	}
	c.notice(n.kind, msg, n.title)

	if apiErr.Status == http.StatusUnauthorized && c.session != nil {
		c.session.Expire(ctx)
	}
	return err
}

func (c *Client) notice(kind notify.Kind, message, title string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Show(kind, message, title, notify.DefaultDuration)
}
