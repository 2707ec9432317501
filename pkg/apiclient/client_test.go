package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"adminboard/internal/util"
	"adminboard/pkg/notify"
	"adminboard/pkg/storage"
)

type shown struct {
	kind    notify.Kind
	title   string
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []shown
}

func (r *recordingNotifier) Show(kind notify.Kind, message, title string, _ time.Duration) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, shown{kind: kind, title: title, message: message})
	return "id"
}

func (r *recordingNotifier) all() []shown {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shown(nil), r.items...)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

type countingSession struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSession) Expire(context.Context) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) (*Client, *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rec := &recordingNotifier{}
	cfg.BaseURL = srv.URL
	if cfg.Notifier == nil {
		cfg.Notifier = rec
	}
	return New(cfg), rec
}

func TestGetAttachesHeadersAndDecodesEnvelope(t *testing.T) {
	var got http.Header
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		if r.URL.Path != "/users" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []string{"a", "b"}, "success": true})
	}, Config{
		Tokens:      staticToken("tok-1"),
		Development: true,
		Now:         func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})

	ctx := util.WithRequestID(context.Background(), "req-42")
	var resp Response[[]string]
	if err := client.Get(ctx, "/users", &resp); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !resp.Success || len(resp.Data) != 2 || resp.Data[1] != "b" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if got.Get("Authorization") != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", got.Get("Authorization"))
	}
	if got.Get(util.RequestIDHeader) != "req-42" {
		t.Fatalf("expected request id, got %q", got.Get(util.RequestIDHeader))
	}
	if got.Get(DebugTimeHeader) != "2024-01-02T03:04:05Z" {
		t.Fatalf("expected debug timestamp, got %q", got.Get(DebugTimeHeader))
	}
	if len(rec.all()) != 0 {
		t.Fatalf("expected no notifications, got %+v", rec.all())
	}
}

func TestAnonymousRequestHasNoAuthorization(t *testing.T) {
	var got http.Header
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}, Config{Tokens: staticToken("")})

	if err := client.Delete(context.Background(), "/users/1", nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got.Get("Authorization") != "" {
		t.Fatalf("expected no authorization header, got %q", got.Get("Authorization"))
	}
	if got.Get(util.RequestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}
	if got.Get(DebugTimeHeader) != "" {
		t.Fatalf("debug timestamp must be development only")
	}
}

func TestPostSendsJSONPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": in["name"], "success": true})
	}, Config{})

	var resp Response[string]
	if err := client.Post(context.Background(), "users", map[string]string{"name": "Jane"}, &resp); err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.Data != "Jane" {
		t.Fatalf("expected echoed name, got %q", resp.Data)
	}
}

func TestStatusNotifications(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		kind    notify.Kind
		title   string
		message string
	}{
		{http.StatusBadRequest, `{"message":"Email is taken"}`, notify.KindError, "Validation Error", "Email is taken"},
		{http.StatusForbidden, `{"message":"nope"}`, notify.KindError, "Access Denied", "You do not have permission to perform this action."},
		{http.StatusNotFound, ``, notify.KindError, "Not Found", "The requested resource was not found."},
		{http.StatusTooManyRequests, ``, notify.KindWarning, "Too Many Requests", "Too many requests. Please slow down and try again later."},
		{http.StatusInternalServerError, ``, notify.KindError, "Server Error", "An internal server error occurred. Please try again later."},
		{http.StatusServiceUnavailable, ``, notify.KindError, "Service Unavailable", "The service is temporarily unavailable. Please try again later."},
		{http.StatusTeapot, `{"error":"short and stout"}`, notify.KindError, "Error", "short and stout"},
		{http.StatusConflict, ``, notify.KindError, "Error", "An unexpected error occurred. Please try again."},
	}
	for _, tc := range cases {
		client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		}, Config{})

		err := client.Get(context.Background(), "/orders", nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != tc.status {
			t.Fatalf("status %d: expected APIError, got %v", tc.status, err)
		}
		got := rec.all()
		if len(got) != 1 {
			t.Fatalf("status %d: expected one notification, got %+v", tc.status, got)
		}
		if got[0].kind != tc.kind || got[0].title != tc.title || got[0].message != tc.message {
			t.Fatalf("status %d: unexpected notification %+v", tc.status, got[0])
		}
	}
}

func TestErrorMessageFallsBackPerVerb(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Config{})

	ctx := context.Background()
	checks := map[string]error{
		MsgFetchFailed:  client.Get(ctx, "/x", nil),
		MsgCreateFailed: client.Post(ctx, "/x", map[string]int{}, nil),
		MsgUpdateFailed: client.Put(ctx, "/x", map[string]int{}, nil),
		MsgDeleteFailed: client.Delete(ctx, "/x", nil),
	}
	for want, err := range checks {
		if err == nil || err.Error() != want {
			t.Fatalf("expected %q, got %v", want, err)
		}
	}
	if err := client.Patch(ctx, "/x", map[string]int{}, nil); err == nil || err.Error() != MsgUpdateFailed {
		t.Fatalf("expected %q for patch, got %v", MsgUpdateFailed, err)
	}
}

func TestServerMessageIsPreserved(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"database offline","code":"DB_DOWN"}`)
	}, Config{})

	err := client.Get(context.Background(), "/x", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "database offline" || apiErr.Code != "DB_DOWN" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestUnauthorizedExpiresSessionOnce(t *testing.T) {
	sess := &countingSession{}
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Config{Session: sess, Tokens: staticToken("stale")})

	err := client.Get(context.Background(), "/users", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if sess.calls != 1 {
		t.Fatalf("expected one expire call, got %d", sess.calls)
	}
	got := rec.all()
	if len(got) != 1 || got[0].title != "Session Expired" {
		t.Fatalf("expected single session expired notification, got %+v", got)
	}
	if got[0].message != "Your session has expired. Please log in again." {
		t.Fatalf("unexpected message %q", got[0].message)
	}
}

func TestValidationErrorIsNotNotified(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"Invalid","errors":{"email":"must be an email","name":["required","too short"]}}`)
	}, Config{})

	err := client.Post(context.Background(), "/users", map[string]string{}, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Status != http.StatusUnprocessableEntity || verr.Message != "Invalid" {
		t.Fatalf("unexpected validation error %+v", verr)
	}
	if len(verr.Fields["name"]) != 2 || verr.Fields["email"][0] != "must be an email" {
		t.Fatalf("unexpected fields %+v", verr.Fields)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("validation error should unwrap to APIError")
	}
	if len(rec.all()) != 0 {
		t.Fatalf("expected no notification, got %+v", rec.all())
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &recordingNotifier{}
	client := New(Config{BaseURL: url, Notifier: rec, Timeout: time.Second})
	err := client.Get(context.Background(), "/users", nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Error() != MsgFetchFailed {
		t.Fatalf("unexpected message %q", netErr.Error())
	}
	got := rec.all()
	if len(got) != 1 || got[0].title != "Network Error" || got[0].message != networkErrorMessage {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestCanceledContextIsSilent(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.Get(ctx, "/users", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if len(rec.all()) != 0 {
		t.Fatalf("expected no notification, got %+v", rec.all())
	}
}

func TestCustomInterceptorRunsLast(t *testing.T) {
	var got string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}, Config{
		Tokens: staticToken("tok"),
		Interceptors: []RequestInterceptor{func(req *http.Request) error {
			req.Header.Set("Authorization", req.Header.Get("Authorization")+"-x")
			return nil
		}},
	})
	if err := client.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Bearer tok-x" {
		t.Fatalf("expected custom interceptor after bearer, got %q", got)
	}
}

func TestUploadReportsProgress(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":    header.Filename + ":" + string(data) + ":" + r.FormValue("userId"),
			"success": true,
		})
	}, Config{})

	var (
		mu       sync.Mutex
		percents []int
	)
	var resp Response[string]
	err := client.Upload(context.Background(), "/upload", "me.png", strings.NewReader(strings.Repeat("x", 64*1024)), UploadOptions{
		Field:      "avatar",
		Fields:     map[string]string{"userId": "3"},
		OnProgress: func(p int) {
			mu.Lock()
			percents = append(percents, p)
			mu.Unlock()
		},
	}, &resp)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(resp.Data, "me.png:") || !strings.HasSuffix(resp.Data, ":3") {
		t.Fatalf("unexpected upload echo %q", resp.Data)
	}
	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("expected progress ending at 100, got %v", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] <= percents[i-1] {
			t.Fatalf("progress must increase: %v", percents)
		}
	}
}

func TestUploadFailureUsesUploadMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Config{})
	err := client.Upload(context.Background(), "/upload", "a.txt", strings.NewReader("a"), UploadOptions{}, nil)
	if err == nil || err.Error() != MsgUploadFailed {
		t.Fatalf("expected %q, got %v", MsgUploadFailed, err)
	}
}

func TestDownloadSavesFile(t *testing.T) {
	saver, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
		_, _ = io.WriteString(w, "id,name\n1,John\n")
	}, Config{Saver: saver})

	saved, err := client.Download(context.Background(), "/exports/users", "")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !strings.HasSuffix(saved, "report.csv") {
		t.Fatalf("expected disposition name, got %q", saved)
	}
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read saved: %v", err)
	}
	if string(data) != "id,name\n1,John\n" {
		t.Fatalf("unexpected content %q", data)
	}

	named, err := client.Download(context.Background(), "/exports/users", "users.csv")
	if err != nil {
		t.Fatalf("download named: %v", err)
	}
	if !strings.HasSuffix(named, "users.csv") {
		t.Fatalf("expected explicit name, got %q", named)
	}
}

func TestDownloadRequiresSaver(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, Config{})
	if _, err := client.Download(context.Background(), "/file", "a"); err == nil {
		t.Fatalf("expected error without saver")
	}
}
