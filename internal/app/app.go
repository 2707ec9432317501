package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"adminboard/internal/catalog"
	"adminboard/internal/dashboard"
	"adminboard/pkg/apiclient"
	"adminboard/pkg/collection"
	"adminboard/pkg/notify"
	"adminboard/pkg/session"
	"adminboard/pkg/storage"
	"adminboard/pkg/store"
	"adminboard/pkg/theme"
)

// Config holds runtime configuration for the dashboard core.
type Config struct {
	Development    bool
	APIBaseURL     string
	RequestTimeout time.Duration
	DataSource     string
	PageSize       int
	LatencyMin     time.Duration
	LatencyMax     time.Duration

	Storage       string
	StatePath     string
	RedisAddr     string
	RedisPassword string
	RedisPrefix   string
	DownloadDir   string

	LoginPolicy    string
	SharedPassword string
	LoginPath      string
	TokenIssuer    string
	TokenSecret    string
	TokenTTL       time.Duration

	// Optional collaborators; defaults are used when nil.
	KV         store.KV
	HTTPClient *http.Client
	Navigator  session.Navigator
	Root       theme.Root
	Now        func() time.Time
	Logger     *slog.Logger
}

// App wires every dashboard service. One App lives for the whole process.
type App struct {
	Notifications *notify.Emitter
	Loader        *notify.Loader
	Session       *session.Store
	Theme         *theme.Store
	API           *apiclient.Client
	Catalog       *catalog.Catalog
	Dashboard     *dashboard.Service

	kv     store.KV
	logger *slog.Logger
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	kv := cfg.KV
	if kv == nil {
		var err error
		kv, err = newKV(cfg)
		if err != nil {
			return nil, err
		}
	}

	var saver storage.Saver
	if strings.TrimSpace(cfg.DownloadDir) != "" {
		fs, err := storage.NewFileStore(cfg.DownloadDir)
		if err != nil {
			return nil, err
		}
		saver = fs
	}

	emitter := notify.NewEmitter()
	link := &sessionLink{}
	client := apiclient.New(apiclient.Config{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.RequestTimeout,
		Development: cfg.Development,
		Tokens:      link,
		Notifier:    emitter,
		Session:     link,
		Saver:       saver,
		HTTPClient:  cfg.HTTPClient,
		Now:         now,
		Logger:      logger,
	})

	latency := latencyFor(cfg)
	cat, err := catalog.New(catalog.Options{
		Source:   cfg.DataSource,
		API:      client,
		PageSize: cfg.PageSize,
		Latency:  collection.Uniform(latency),
		Now:      now,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	verifier, err := verifierFor(cfg, cat.Users)
	if err != nil {
		return nil, err
	}
	issuer, err := issuerFor(cfg)
	if err != nil {
		return nil, err
	}
	navigator := cfg.Navigator
	if navigator == nil {
		navigator = session.NavigatorFunc(func(path string) {
			logger.Info("navigate", "path", path)
		})
	}
	sess := session.New(session.Options{
		Verifier:    verifier,
		Issuer:      issuer,
		Persistence: store.NewSessionBlob(kv),
		Notifier:    emitter,
		Navigator:   navigator,
		Latency:     latency,
		LoginPath:   cfg.LoginPath,
		Logger:      logger,
	})
	link.store = sess

	root := cfg.Root
	if root == nil {
		root = theme.NewRootAttribute("")
	}

	return &App{
		Notifications: emitter,
		Loader:        notify.NewLoader(),
		Session:       sess,
		Theme:         theme.New(kv, root, logger),
		API:           client,
		Catalog:       cat,
		Dashboard:     dashboard.New(cat.Users, cat.Orders, now),
		kv:            kv,
		logger:        logger,
	}, nil
}

// Boot restores persisted state: theme first, then the session.
func (a *App) Boot(ctx context.Context, systemDark bool) bool {
	a.Theme.Init(systemDark)
	restored := a.Session.CheckAuth(ctx)
	a.logger.Info("session restored", "authenticated", restored)
	return restored
}

// Refresh reloads users, orders and products concurrently behind the loader.
func (a *App) Refresh(ctx context.Context) error {
	a.Loader.Show("Loading dashboard...")
	defer a.Loader.Hide()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := a.Catalog.Users.Fetch(ctx)
		return err
	})
	g.Go(func() error {
		_, err := a.Catalog.Orders.Fetch(ctx)
		return err
	})
	g.Go(func() error {
		_, err := a.Catalog.Products.Fetch(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	return nil
}

// Close stops notification timers and releases the state backend.
func (a *App) Close() error {
	a.Notifications.Clear()
	if c, ok := a.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newKV(cfg Config) (store.KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage)) {
	case "", "memory":
		return store.NewMemoryKV(), nil
	case "file":
		kv, err := store.NewFileKV(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("init file state: %w", err)
		}
		return kv, nil
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return nil, errors.New("redis addr required for redis storage")
		}
		return store.NewRedisKV(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func latencyFor(cfg Config) collection.Latency {
	if strings.EqualFold(cfg.DataSource, catalog.SourceAPI) {
		return collection.NoDelay
	}
	switch {
	case cfg.LatencyMax > 0 && cfg.LatencyMax != cfg.LatencyMin:
		return collection.Random(cfg.LatencyMin, cfg.LatencyMax)
	case cfg.LatencyMin > 0:
		return collection.Fixed(cfg.LatencyMin)
	default:
		return collection.NoDelay
	}
}

func verifierFor(cfg Config, users session.UserLookup) (session.Verifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LoginPolicy)) {
	case "", "any":
		return session.AcceptAny{}, nil
	case "shared":
		dir, err := session.NewDirectory(users, cfg.SharedPassword)
		if err != nil {
			return nil, fmt.Errorf("init directory verifier: %w", err)
		}
		return dir, nil
	default:
		return nil, fmt.Errorf("unknown login policy %q", cfg.LoginPolicy)
	}
}

func issuerFor(cfg Config) (session.Issuer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.TokenIssuer)) {
	case "", "opaque":
		return session.OpaqueIssuer{}, nil
	case "jwt":
		issuer, err := session.NewJWTIssuer(cfg.TokenSecret, cfg.TokenTTL, "")
		if err != nil {
			return nil, fmt.Errorf("init jwt issuer: %w", err)
		}
		return issuer, nil
	default:
		return nil, fmt.Errorf("unknown token issuer %q", cfg.TokenIssuer)
	}
}

// sessionLink lets the API client reach the session store, which is built after it.
type sessionLink struct {
	store *session.Store
}

func (l *sessionLink) Token() string {
	if l.store == nil {
		return ""
	}
	return l.store.Token()
}

func (l *sessionLink) Expire(ctx context.Context) {
	if l.store != nil {
		l.store.Expire(ctx)
	}
}
