package catalog

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"adminboard/pkg/collection"
)

// Options configures the three catalog stores.
type Options struct {
	// Source is SourceMock (default) or SourceAPI.
	Source   string
	API      Getter
	PageSize int
	Latency  collection.Latencies
	Now      func() time.Time
	Logger   *slog.Logger
}

func (o Options) mode() string {
	mode := strings.ToLower(strings.TrimSpace(o.Source))
	if mode == "" {
		return SourceMock
	}
	return mode
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Catalog groups the users, orders and products collections.
type Catalog struct {
	Users    *Users
	Orders   *Orders
	Products *Products
}

// New builds all three stores from one set of options.
func New(opts Options) (*Catalog, error) {
	users, err := NewUsers(opts)
	if err != nil {
		return nil, err
	}
	orders, err := NewOrders(opts)
	if err != nil {
		return nil, err
	}
	products, err := NewProducts(opts)
	if err != nil {
		return nil, err
	}
	return &Catalog{Users: users, Orders: orders, Products: products}, nil
}

// selection tracks the record open in a detail view.
type selection[R any] struct {
	mu   sync.RWMutex
	item *R
}

func (s *selection[R]) set(r *R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		s.item = nil
		return
	}
	copied := *r
	s.item = &copied
}

func (s *selection[R]) get() (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.item == nil {
		var zero R
		return zero, false
	}
	return *s.item, true
}

// refresh replaces the selection when it refers to the same record.
func (s *selection[R]) refresh(r R, same func(R) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.item != nil && same(*s.item) {
		copied := r
		s.item = &copied
	}
}
