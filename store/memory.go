package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory ObjectStore. It backs dry runs and tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Exists implements ObjectStore.
func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Put implements ObjectStore.
func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	m.puts++
	return nil
}

// Location implements ObjectStore.
func (m *Memory) Location(key string) string {
	return "memory://" + key
}

// Get returns a copy of the object stored under key.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Keys returns the stored keys in lexical order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Puts returns how many Put calls have succeeded.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
