package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"adminboard/pkg/collection"
	"adminboard/pkg/domain"
	"adminboard/pkg/notify"
)

// Result messages returned by Login.
const (
	MsgLoginSuccess = "Login successful"
	MsgLoginFailed  = "Login failed. Please check your credentials."
	MsgSignedOut    = "You have been signed out"
)

// DefaultLoginPath is where Logout and Guard send anonymous users.
const DefaultLoginPath = "/login"

// Persistence stores the token and user as one pair.
type Persistence interface {
	Load() (token string, user domain.User, ok bool, err error)
	Save(token string, user domain.User) error
	Clear() error
}

// Navigator moves the UI to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Result is what Login reports back to the form.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Options wires a Store.
type Options struct {
	Verifier    Verifier
	Issuer      Issuer
	Persistence Persistence
	Notifier    notify.Notifier
	Navigator   Navigator
	// Latency is awaited before credentials are checked.
	Latency   collection.Latency
	LoginPath string
	Logger    *slog.Logger
}

// Store owns the credential state of the running application.
type Store struct {
	verifier  Verifier
	issuer    Issuer
	persist   Persistence
	notifier  notify.Notifier
	navigator Navigator
	latency   collection.Latency
	loginPath string
	logger    *slog.Logger

	mu      sync.RWMutex
	user    *domain.User
	token   string
	loading bool
}

// New constructs an anonymous session store.
func New(opts Options) *Store {
	s := &Store{
		verifier:  opts.Verifier,
		issuer:    opts.Issuer,
		persist:   opts.Persistence,
		notifier:  opts.Notifier,
		navigator: opts.Navigator,
		latency:   opts.Latency,
		loginPath: strings.TrimSpace(opts.LoginPath),
		logger:    opts.Logger,
	}
	if s.verifier == nil {
		s.verifier = AcceptAny{}
	}
	if s.issuer == nil {
		s.issuer = OpaqueIssuer{}
	}
	if s.latency == nil {
		s.latency = collection.NoDelay
	}
	if s.loginPath == "" {
		s.loginPath = DefaultLoginPath
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Login checks the credentials and, on success, issues and persists a token.
// A failure never changes state or persisted data.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	user, token, err := s.authenticate(ctx, email, password)
	if err != nil {
		s.logger.Info("login failed", "email", email, "err", err)
		return Result{Success: false, Message: MsgLoginFailed}
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	s.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)
	return Result{Success: true, Message: MsgLoginSuccess}
}

func (s *Store) authenticate(ctx context.Context, email, password string) (domain.User, string, error) {
	if err := s.latency(ctx); err != nil {
		return domain.User{}, "", err
	}
	user, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.issuer.Issue(user)
	if err != nil {
		return domain.User{}, "", err
	}
	if token == "" {
		return domain.User{}, "", errors.New("issuer returned empty token")
	}
	if s.persist != nil {
		if err := s.persist.Save(token, user); err != nil {
			return domain.User{}, "", err
		}
	}
	return user, token, nil
}

// Logout ends the session, navigates to the login path and tells the user.
func (s *Store) Logout(ctx context.Context) {
	s.end(ctx)
	if s.notifier != nil {
		s.notifier.Show(notify.KindInfo, MsgSignedOut, "", notify.DefaultDuration)
	}
}

// Expire ends the session after the server rejected the token. The caller
// has already told the user.
func (s *Store) Expire(ctx context.Context) {
	s.end(ctx)
}

func (s *Store) end(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Clear(); err != nil {
			s.logger.Warn("clear session failed", "err", err)
		}
	}
	if s.navigator != nil {
		s.navigator.Navigate(s.loginPath)
	}
}

// CheckAuth hydrates the session from persistence. It reports whether a
// complete pair was found; read or decode failures count as absent.
func (s *Store) CheckAuth(ctx context.Context) bool {
	if s.persist == nil {
		return false
	}
	token, user, ok, err := s.persist.Load()
	if err != nil {
		s.logger.Warn("restore session failed", "err", err)
		return false
	}
	if !ok {
		return false
	}
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	return true
}

// UpdateUser merges patch into the current user and re-persists the pair.
// It does nothing when anonymous.
func (s *Store) UpdateUser(ctx context.Context, patch domain.UserPatch) error {
	s.mu.Lock()
	if s.user == nil || s.token == "" {
		s.mu.Unlock()
		return nil
	}
	updated := patch.Apply(*s.user)
	token := s.token
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Save(token, updated); err != nil {
			return err
		}
	}
	s.mu.Lock()
	if s.token == token {
		s.user = &updated
	}
	s.mu.Unlock()
	return nil
}

// SetUser replaces the current user. A nil user ends the session without
// navigating; a user set while anonymous is kept in memory only.
func (s *Store) SetUser(user *domain.User) error {
	if user == nil {
		s.mu.Lock()
		s.user = nil
		s.token = ""
		s.mu.Unlock()
		if s.persist != nil {
			return s.persist.Clear()
		}
		return nil
	}
	copied := *user
	s.mu.Lock()
	token := s.token
	s.user = &copied
	s.mu.Unlock()
	if token != "" && s.persist != nil {
		return s.persist.Save(token, copied)
	}
	return nil
}

// Snapshot returns a copy of the session state.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.Session{Token: s.token, IsAuthenticated: s.authenticatedLocked()}
	if s.user != nil {
		u := *s.user
		out.User = &u
	}
	return out
}

// Token returns the current token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticatedLocked()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticatedLocked() && s.user.Role == domain.RoleAdmin
}

// Loading reports whether a login is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) LoginPath() string {
	return s.loginPath
}

func (s *Store) authenticatedLocked() bool {
	return s.user != nil && s.token != ""
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
