package theme

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"adminboard/pkg/store"
)

// Key is the persisted preference entry.
const Key = "theme"

const (
	Dark  = "dark"
	Light = "light"
)

// DarkClass is toggled on the document root.
const DarkClass = "dark"

// Root receives the active mode.
type Root interface {
	SetDark(dark bool)
}

// Store holds the light/dark preference.
type Store struct {
	kv     store.KV
	root   Root
	logger *slog.Logger

	mu   sync.RWMutex
	dark bool
}

// New constructs a light-mode store. kv and root may be nil.
func New(kv store.KV, root Root, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, root: root, logger: logger}
}

// Init applies the saved preference, or systemDark when none is saved.
func (s *Store) Init(systemDark bool) {
	dark := systemDark
	if saved, ok := s.saved(); ok {
		dark = saved == Dark
	}
	s.apply(dark)
}

// Toggle flips the mode and saves it.
func (s *Store) Toggle() {
	s.mu.RLock()
	dark := !s.dark
	s.mu.RUnlock()
	s.Set(dark)
}

// Set applies and saves the mode.
func (s *Store) Set(dark bool) {
	s.apply(dark)
	if s.kv == nil {
		return
	}
	if err := store.Set(s.kv, Key, name(dark)); err != nil {
		s.logger.Warn("save theme failed", "err", err)
	}
}

// SystemPreferenceChanged follows the OS setting while nothing is saved.
// It does not save, so later system changes keep applying.
func (s *Store) SystemPreferenceChanged(dark bool) {
	if _, ok := s.saved(); ok {
		return
	}
	s.apply(dark)
}

// Theme returns "dark" or "light".
func (s *Store) Theme() string {
	return name(s.IsDark())
}

func (s *Store) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

func (s *Store) apply(dark bool) {
	s.mu.Lock()
	s.dark = dark
	s.mu.Unlock()
	if s.root != nil {
		s.root.SetDark(dark)
	}
}

func (s *Store) saved() (string, bool) {
	if s.kv == nil {
		return "", false
	}
	v, ok, err := s.kv.Get(Key)
	if err != nil {
		s.logger.Warn("load theme failed", "err", err)
		return "", false
	}
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func name(dark bool) string {
	if dark {
		return Dark
	}
	return Light
}

// RootAttribute keeps a class attribute value in sync with the mode.
type RootAttribute struct {
	mu      sync.Mutex
	classes map[string]struct{}
}

// NewRootAttribute parses an initial class attribute value.
func NewRootAttribute(class string) *RootAttribute {
	r := &RootAttribute{classes: make(map[string]struct{})}
	for _, c := range strings.Fields(class) {
		r.classes[c] = struct{}{}
	}
	return r
}

func (r *RootAttribute) SetDark(dark bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dark {
		r.classes[DarkClass] = struct{}{}
	} else {
		delete(r.classes, DarkClass)
	}
}

// Class returns the attribute value with classes sorted.
func (r *RootAttribute) Class() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.classes))
	for c := range r.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}
