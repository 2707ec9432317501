package apiclient

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 1 << 20

// Default messages used when the server does not supply one.
const (
	MsgFetchFailed    = "Failed to fetch resource"
	MsgCreateFailed   = "Failed to create resource"
	MsgUpdateFailed   = "Failed to update resource"
	MsgDeleteFailed   = "Failed to delete resource"
	MsgUploadFailed   = "Failed to upload file"
	MsgDownloadFailed = "Failed to download file"
)

func fallbackMessage(method string) string {
	switch method {
	case http.MethodPost:
		return MsgCreateFailed
	case http.MethodPut, http.MethodPatch:
		return MsgUpdateFailed
	case http.MethodDelete:
		return MsgDeleteFailed
	default:
		return MsgFetchFailed
	}
}

// NetworkError means no response was received.
type NetworkError struct {
	Method  string
	URL     string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError represents an error status returned by the server.
type APIError struct {
	Status  int
	Message string
	Code    string

	fromServer bool
}

func (e *APIError) Error() string {
	return e.Message
}

// ServerMessage returns the message supplied by the server, if any.
func (e *APIError) ServerMessage() string {
	if e.fromServer {
		return e.Message
	}
	return ""
}

// ValidationError is a 422 response. It is never turned into a notification;
// callers surface Fields next to the form inputs.
type ValidationError struct {
	APIError
	Fields map[string][]string
}

func (e *ValidationError) Unwrap() error {
	return &e.APIError
}

type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeError(resp *http.Response, fallback string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	_ = json.Unmarshal(data, &body)

	apiErr := APIError{Status: resp.StatusCode, Code: strings.TrimSpace(body.Code)}
	switch {
	case strings.TrimSpace(body.Message) != "":
		apiErr.Message = body.Message
		apiErr.fromServer = true
	case strings.TrimSpace(body.Error) != "":
		apiErr.Message = body.Error
		apiErr.fromServer = true
	default:
		apiErr.Message = fallback
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return &ValidationError{APIError: apiErr, Fields: decodeFieldErrors(body.Errors)}
	}
	return &apiErr
}

// decodeFieldErrors accepts {"field": ["msg", ...]} or {"field": "msg"},
// mixed per field. Values of any other shape are skipped.
func decodeFieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil
	}
	out := make(map[string][]string, len(fields))
	for name, value := range fields {
		var multi []string
		if err := json.Unmarshal(value, &multi); err == nil {
			out[name] = multi
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[name] = []string{single}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
