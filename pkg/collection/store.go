package collection

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	// FilterAll disables the facet filter.
	FilterAll = "all"
	// DefaultPageSize is used when Options.PageSize is not positive.
	DefaultPageSize = 10
)

// Query is the filter state of a collection view.
type Query struct {
	// Search is matched case-insensitively as a substring of the search fields.
	Search string
	// Filter is matched exactly against the facet; "" and FilterAll match everything.
	Filter string
}

func (q Query) search() string {
	return strings.ToLower(strings.TrimSpace(q.Search))
}

func (q Query) filter() string {
	if q.Filter == FilterAll {
		return ""
	}
	return q.Filter
}

// Source loads the full record list, from seed data or a remote API.
type Source[R any] interface {
	Fetch(ctx context.Context) ([]R, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[R any] func(ctx context.Context) ([]R, error)

func (f SourceFunc[R]) Fetch(ctx context.Context) ([]R, error) {
	return f(ctx)
}

// Patch merges a partial update over an existing record.
type Patch[R any] interface {
	Apply(R) R
}

// PatchFunc adapts a function to Patch.
type PatchFunc[R any] func(R) R

func (f PatchFunc[R]) Apply(r R) R {
	return f(r)
}

// Options describes a record type to the generic store.
type Options[R any] struct {
	// Name and Plural are used in messages: "User not found", "Failed to fetch users".
	Name   string
	Plural string

	ID     func(R) int
	WithID func(R, int) R

	SearchFields func(R) []string
	Facet        func(R) string

	Source   Source[R]
	Prepare  func(r R, now time.Time) R
	Touch    func(r R, now time.Time) R
	Validate func(R) error

	PageSize int
	Latency  Latencies
	Now      func() time.Time
	Logger   *slog.Logger
}

// Store holds a record list plus query state and derives filtered and
// paginated views from it. It is safe for concurrent use; simulated latency
// is awaited outside the lock and each mutation is a single locked step.
type Store[R any] struct {
	opts Options[R]

	mu       sync.RWMutex
	items    []R
	query    Query
	page     int
	pageSize int
	inflight int
	errMsg   string
}

// New builds a store. ID and WithID are required.
func New[R any](opts Options[R]) *Store[R] {
	if opts.ID == nil || opts.WithID == nil {
		panic("collection: Options.ID and Options.WithID are required")
	}
	if strings.TrimSpace(opts.Name) == "" {
		opts.Name = "record"
	}
	if strings.TrimSpace(opts.Plural) == "" {
		opts.Plural = opts.Name + "s"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Latency = opts.Latency.withDefaults()
	return &Store[R]{
		opts:     opts,
		page:     1,
		pageSize: opts.PageSize,
	}
}

// Fetch replaces the list with a fresh copy from the source.
func (s *Store[R]) Fetch(ctx context.Context) ([]R, error) {
	s.begin()
	defer s.end()

	fallback := "Failed to fetch " + s.opts.Plural
	if err := s.opts.Latency.Fetch(ctx); err != nil {
		return nil, s.fail(err, fallback)
	}
	if s.opts.Source == nil {
		return nil, s.fail(errors.New(fallback), fallback)
	}
	items, err := s.opts.Source.Fetch(ctx)
	if err != nil {
		return nil, s.fail(err, fallback)
	}

	s.mu.Lock()
	s.items = clone(items)
	s.mu.Unlock()
	s.opts.Logger.Debug("collection fetched", "collection", s.opts.Plural, "count", len(items))
	return clone(items), nil
}

// Add assigns the next id (max id + 1, or 1 when empty), fills defaults and
// appends the record.
func (s *Store[R]) Add(ctx context.Context, r R) (R, error) {
	s.begin()
	defer s.end()

	var zero R
	fallback := "Failed to add " + s.opts.Name
	if err := s.opts.Latency.Add(ctx); err != nil {
		return zero, s.fail(err, fallback)
	}

	s.mu.Lock()
	created, err := s.addLocked(r)
	s.mu.Unlock()
	if err != nil {
		return zero, s.fail(err, fallback)
	}
	s.opts.Logger.Debug("collection add", "collection", s.opts.Plural, "id", s.opts.ID(created))
	return created, nil
}

func (s *Store[R]) addLocked(r R) (R, error) {
	next := 1
	for _, item := range s.items {
		if id := s.opts.ID(item); id >= next {
			next = id + 1
		}
	}
	r = s.opts.WithID(r, next)
	if s.opts.Prepare != nil {
		r = s.opts.Prepare(r, s.opts.Now())
	}
	if s.opts.Validate != nil {
		if err := s.opts.Validate(r); err != nil {
			var zero R
			return zero, err
		}
	}
	s.items = append(s.items, r)
	return r, nil
}

// Update merges patch over the record with the given id. The id never
// changes; Touch refreshes timestamps.
func (s *Store[R]) Update(ctx context.Context, id int, patch Patch[R]) (R, error) {
	s.begin()
	defer s.end()

	var zero R
	fallback := "Failed to update " + s.opts.Name
	if err := s.opts.Latency.Update(ctx); err != nil {
		return zero, s.fail(err, fallback)
	}

	s.mu.Lock()
	updated, err := s.updateLocked(id, patch)
	s.mu.Unlock()
	if err != nil {
		return zero, s.fail(err, fallback)
	}
	return updated, nil
}

func (s *Store[R]) updateLocked(id int, patch Patch[R]) (R, error) {
	var zero R
	idx := s.indexLocked(id)
	if idx < 0 {
		return zero, &NotFoundError{Name: s.opts.Name, ID: id}
	}
	updated := s.items[idx]
	if patch != nil {
		updated = patch.Apply(updated)
	}
	updated = s.opts.WithID(updated, id)
	if s.opts.Touch != nil {
		updated = s.opts.Touch(updated, s.opts.Now())
	}
	if s.opts.Validate != nil {
		if err := s.opts.Validate(updated); err != nil {
			return zero, err
		}
	}
	s.items[idx] = updated
	return updated, nil
}

// Remove deletes the record with the given id. When the current page ends
// up empty and is not the first page, the view steps back one page.
func (s *Store[R]) Remove(ctx context.Context, id int) error {
	s.begin()
	defer s.end()

	fallback := "Failed to delete " + s.opts.Name
	if err := s.opts.Latency.Delete(ctx); err != nil {
		return s.fail(err, fallback)
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return s.fail(&NotFoundError{Name: s.opts.Name, ID: id}, fallback)
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if s.page > 1 && len(Paginate(s.filteredLocked(), s.page, s.pageSize)) == 0 {
		s.page--
	}
	s.mu.Unlock()

	s.opts.Logger.Debug("collection remove", "collection", s.opts.Plural, "id", id)
	return nil
}

// Filtered returns the records matching the current query.
func (s *Store[R]) Filtered() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked()
}

func (s *Store[R]) filteredLocked() []R {
	search := s.query.search()
	filter := s.query.filter()
	if search == "" && (filter == "" || s.opts.Facet == nil) {
		return clone(s.items)
	}
	out := make([]R, 0, len(s.items))
	for _, item := range s.items {
		if filter != "" && s.opts.Facet != nil && s.opts.Facet(item) != filter {
			continue
		}
		if search != "" && !s.matches(item, search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *Store[R]) matches(item R, search string) bool {
	if s.opts.SearchFields == nil {
		return false
	}
	for _, field := range s.opts.SearchFields(item) {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// Page returns the current page of the filtered view.
func (s *Store[R]) Page() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Paginate(s.filteredLocked(), s.page, s.pageSize)
}

// PageAt returns page n of the filtered view using the store's page size.
func (s *Store[R]) PageAt(n int) []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Paginate(s.filteredLocked(), n, s.pageSize)
}

// TotalPages is ceil(len(Filtered())/PageSize()).
func (s *Store[R]) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalPages(len(s.filteredLocked()), s.pageSize)
}

// SetQuery replaces the query and goes back to the first page.
func (s *Store[R]) SetQuery(q Query) {
	s.mu.Lock()
	s.query = q
	s.page = 1
	s.mu.Unlock()
}

// SetSearch changes only the search text.
func (s *Store[R]) SetSearch(search string) {
	s.mu.Lock()
	s.query.Search = search
	s.page = 1
	s.mu.Unlock()
}

// SetFilter changes only the facet filter.
func (s *Store[R]) SetFilter(filter string) {
	s.mu.Lock()
	s.query.Filter = filter
	s.page = 1
	s.mu.Unlock()
}

// SetPage moves to page n; out-of-range values are ignored.
func (s *Store[R]) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= 1 && n <= TotalPages(len(s.filteredLocked()), s.pageSize) {
		s.page = n
	}
}

// SetPageSize changes the page size and goes back to the first page.
func (s *Store[R]) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	s.pageSize = size
	s.page = 1
	s.mu.Unlock()
}

// ResetPagination clears the query and returns to the first page.
func (s *Store[R]) ResetPagination() {
	s.mu.Lock()
	s.query = Query{}
	s.page = 1
	s.mu.Unlock()
}

func (s *Store[R]) Query() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Store[R]) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *Store[R]) PageSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageSize
}

// Items returns a copy of the full, unfiltered list.
func (s *Store[R]) Items() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Get looks a record up by id.
func (s *Store[R]) Get(id int) (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], true
	}
	var zero R
	return zero, false
}

// Find returns the first record satisfying match.
func (s *Store[R]) Find(match func(R) bool) (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if match(item) {
			return item, true
		}
	}
	var zero R
	return zero, false
}

// Count returns how many records satisfy match.
func (s *Store[R]) Count(match func(R) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.items {
		if match(item) {
			n++
		}
	}
	return n
}

func (s *Store[R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[R]) HasItems() bool {
	return s.Len() > 0
}

// Loading reports whether an operation is in flight.
func (s *Store[R]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Err returns the message of the last failed operation, or "" once a new
// operation starts.
func (s *Store[R]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store[R]) begin() {
	s.mu.Lock()
	s.inflight++
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store[R]) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func (s *Store[R]) fail(err error, fallback string) error {
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
	s.opts.Logger.Warn("collection operation failed", "collection", s.opts.Plural, "err", msg)
	return err
}

func (s *Store[R]) indexLocked(id int) int {
	for i, item := range s.items {
		if s.opts.ID(item) == id {
			return i
		}
	}
	return -1
}

func clone[R any](items []R) []R {
	out := make([]R, len(items))
	copy(out, items)
	return out
}
