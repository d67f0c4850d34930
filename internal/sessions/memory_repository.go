package sessions

import (
	"context"
	"sync"
)

// MemoryRepository keeps sessions in process memory. Used for single-instance
// deployments and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]map[string]string)}
}

func (m *MemoryRepository) Get(ctx context.Context, sid, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[sid][key]
	return v, ok, nil
}

func (m *MemoryRepository) Set(ctx context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.store[sid]
	if !ok {
		entries = map[string]string{}
		m.store[sid] = entries
	}
	entries[key] = value
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(keys) == 0 {
		delete(m.store, sid)
		return nil
	}
	for _, k := range keys {
		delete(m.store[sid], k)
	}
	return nil
}
