// ABOUTME: Mock preference Store implementation for testing
// ABOUTME: Wraps MemoryStore with write counting, raw seeding and error injection

package prefs

import (
	"context"
	"sync"
)

// MockStore is a Store for tests. It counts writes and can be made to fail.
type MockStore struct {
	mem *MemoryStore

	mu     sync.Mutex
	writes map[string]int // PutStringSet calls per key

	// PutErr, when set, is returned by PutStringSet without storing anything.
	PutErr error
	// GetErr, when set, is returned by GetStringSet.
	GetErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		mem:    NewMemoryStore(),
		writes: make(map[string]int),
	}
}

// Seed stores raw members under key without normalizing or counting a write.
func (m *MockStore) Seed(key string, values ...string) {
	m.mem.set(key, values)
}

// Writes returns how many times PutStringSet stored key.
func (m *MockStore) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

// GetStringSet returns a copy of the members stored under key.
func (m *MockStore) GetStringSet(ctx context.Context, key string) ([]string, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	return m.mem.GetStringSet(ctx, key)
}

// PutStringSet replaces the members stored under key.
func (m *MockStore) PutStringSet(ctx context.Context, key string, values []string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if m.PutErr != nil {
		return m.PutErr
	}
	if err := m.mem.PutStringSet(ctx, key, values); err != nil {
		return err
	}

	m.mu.Lock()
	m.writes[key]++
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the mock store
func (m *MockStore) Close() error {
	return nil
}
