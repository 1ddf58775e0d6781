package nv

import "sync"

// MemStore keeps parameters in memory. Nothing survives a restart; it backs
// tests and nodes run with --store=memory.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]any)}
}

// Load returns the stored value.
func (m *MemStore) Load(key string) (Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Raw(m.values[key]), nil
}

// Save stores an integer.
func (m *MemStore) Save(key string, v int) error {
	m.mu.Lock()
	m.values[key] = v
	m.mu.Unlock()
	return nil
}

// Put stores an arbitrary value, letting tests simulate a parameter that
// holds something other than an integer.
func (m *MemStore) Put(key string, v any) {
	m.mu.Lock()
	m.values[key] = v
	m.mu.Unlock()
}

// Delete clears the key.
func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MemStore) Close() error {
	return nil
}
