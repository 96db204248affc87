// ABOUTME: In-memory preference Store for the memory backend
// ABOUTME: Holds entries for the life of the process only

package prefs

import (
	"context"
	"sync"
)

// MemoryStore is a Store that keeps entries in a map. Nothing survives Close.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]string)}
}

// GetStringSet returns a copy of the members stored under key.
func (m *MemoryStore) GetStringSet(ctx context.Context, key string) ([]string, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]string{}, values...), true, nil
}

// PutStringSet replaces the members stored under key.
func (m *MemoryStore) PutStringSet(ctx context.Context, key string, values []string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = normalize(values)
	return nil
}

// Close drops every entry.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]string)
	return nil
}

// set stores values verbatim.
func (m *MemoryStore) set(key string, values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]string{}, values...)
}
