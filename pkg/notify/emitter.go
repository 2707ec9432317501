package notify

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a notification stays visible unless told otherwise.
const DefaultDuration = 4 * time.Second

// Notification is one ephemeral message in the queue.
type Notification struct {
	ID       string        `json:"id"`
	Kind     Kind          `json:"type"`
	Title    string        `json:"title,omitempty"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// Notifier is the emitting side used by other components.
type Notifier interface {
	Show(kind Kind, message, title string, duration time.Duration) string
}

// Emitter is the process-wide notification queue. Create one per application
// and pass it to the components that emit messages.
type Emitter struct {
	mu        sync.Mutex
	items     []Notification
	seq       atomic.Uint64
	afterFunc func(time.Duration, func()) *time.Timer
	timers    map[string]*time.Timer
}

// Option customizes an Emitter.
type Option func(*Emitter)

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(fn func(time.Duration, func()) *time.Timer) Option {
	return func(e *Emitter) {
		if fn != nil {
			e.afterFunc = fn
		}
	}
}

// NewEmitter constructs an empty queue.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		afterFunc: time.AfterFunc,
		timers:    make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Show enqueues a notification and returns its id. A positive duration
// schedules automatic removal; zero keeps it until removed.
func (e *Emitter) Show(kind Kind, message, title string, duration time.Duration) string {
	if duration < 0 {
		duration = DefaultDuration
	}
	id := fmt.Sprintf("toast-%d-%s", e.seq.Add(1), uuid.NewString())
	n := Notification{ID: id, Kind: kind, Title: title, Message: message, Duration: duration}

	e.mu.Lock()
	e.items = append(e.items, n)
	e.mu.Unlock()

	if duration > 0 {
		timer := e.afterFunc(duration, func() { e.Remove(id) })
		e.mu.Lock()
		if e.indexLocked(id) >= 0 {
			e.timers[id] = timer
		}
		e.mu.Unlock()
	}
	return id
}

func (e *Emitter) Success(message, title string) string {
	return e.Show(KindSuccess, message, title, DefaultDuration)
}

func (e *Emitter) Error(message, title string) string {
	return e.Show(KindError, message, title, DefaultDuration)
}

func (e *Emitter) Warning(message, title string) string {
	return e.Show(KindWarning, message, title, DefaultDuration)
}

func (e *Emitter) Info(message, title string) string {
	return e.Show(KindInfo, message, title, DefaultDuration)
}

// Remove drops a notification by id; unknown ids are ignored.
func (e *Emitter) Remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.timers[id]; ok {
		if t != nil {
			t.Stop()
		}
		delete(e.timers, id)
	}
	if i := e.indexLocked(id); i >= 0 {
		e.items = append(e.items[:i], e.items[i+1:]...)
	}
}

func (e *Emitter) indexLocked(id string) int {
	for i, n := range e.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Clear empties the queue and cancels pending expirations.
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, t := range e.timers {
		if t != nil {
			t.Stop()
		}
		delete(e.timers, id)
	}
	e.items = nil
}

// List returns a snapshot of the queue, oldest first.
func (e *Emitter) List() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Notification, len(e.items))
	copy(out, e.items)
	return out
}
