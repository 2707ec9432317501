package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"adminboard/internal/util"
	"adminboard/pkg/notify"
	"adminboard/pkg/storage"
)

const defaultTimeout = 10 * time.Second

// Config wires the client to the rest of the application.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	Development bool

	Tokens   TokenSource
	Notifier notify.Notifier
	Session  Terminator
	Saver    storage.Saver

	// Interceptors run after the built-in outbound interceptors.
	Interceptors []RequestInterceptor
	HTTPClient   *http.Client
	Now          func() time.Time
	Logger       *slog.Logger
}

// Client is the single point of outbound API traffic.
type Client struct {
	baseURL    string
	httpClient *http.Client
	outbound   []RequestInterceptor
	notifier   notify.Notifier
	session    Terminator
	saver      storage.Saver
	logger     *slog.Logger
}

// New constructs an API client.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout, Transport: util.NewLoggingTransport(nil, logger)}
	}

	outbound := []RequestInterceptor{BearerToken(cfg.Tokens), RequestID()}
	if cfg.Development {
		outbound = append(outbound, DebugTimestamp(cfg.Now))
	}
	outbound = append(outbound, cfg.Interceptors...)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		outbound:   outbound,
		notifier:   cfg.Notifier,
		session:    cfg.Session,
		saver:      cfg.Saver,
		logger:     logger,
	}
}

// Get decodes the response body of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) Put(ctx context.Context, path string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) Patch(ctx context.Context, path string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, payload, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.roundTrip(ctx, req, path, fallbackMessage(method))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp, out)
}

// roundTrip applies the outbound interceptors, sends req and classifies
// failures. On error the inbound interceptor has already run.
func (c *Client) roundTrip(ctx context.Context, req *http.Request, path, fallback string) (*http.Response, error) {
	for _, intercept := range c.outbound {
		if err := intercept(req); err != nil {
			return nil, fmt.Errorf("prepare request: %w", err)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		netErr := &NetworkError{Method: req.Method, URL: req.URL.String(), Message: fallback, Err: err}
		return nil, c.intercept(ctx, req.Method, path, netErr)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, c.intercept(ctx, req.Method, path, decodeError(resp, fallback))
	}
	return resp, nil
}

func decodeBody(resp *http.Response, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
