package kvbackend

import (
	"context"
	"strings"
	"sync"

	"github.com/meshstack/meshstack/storage"
)

// Memory is an in-process store, used in tests and with --state=:memory:.
// Its Scan matches whole path segments, like Bolt.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Put creates or updates a value. The value is copied.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Get returns a value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	v, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

// Delete removes a key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.data, key)
	return nil
}

// Scan returns the values directly under the prefix segment.
func (m *Memory) Scan(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string][]byte{}
	for k, v := range m.data {
		name := strings.TrimPrefix(k, prefix+"/")
		if name != k && !strings.Contains(name, "/") {
			out[k] = v
		}
	}
	return out, nil
}
