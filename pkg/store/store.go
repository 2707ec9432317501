package store

import (
	"errors"
	"sync"
)

// ErrEmptyKey is returned when a write names an empty key.
var ErrEmptyKey = errors.New("store: empty key")

// KV is the local key-value storage the client state persists into.
// SetMany and Delete are atomic: either every entry is applied or none is.
type KV interface {
	Get(key string) (string, bool, error)
	SetMany(entries map[string]string) error
	Delete(keys ...string) error
}

// MemoryKV keeps entries in-process.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryKV initializes an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryKV) SetMany(entries map[string]string) error {
	if err := checkKeys(entries); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *MemoryKV) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Set writes a single entry.
func Set(kv KV, key, value string) error {
	return kv.SetMany(map[string]string{key: value})
}

func checkKeys(entries map[string]string) error {
	for k := range entries {
		if k == "" {
			return ErrEmptyKey
		}
	}
	return nil
}
