package registry

import (
	"sync"

	"keybin-go/internal/kb"
)

// MemoryStore keeps the registry in memory. Useful for tests.
// Reads and writes go through the JSON encoding so stored values are copies.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

var _ kb.RegistryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Read() (*kb.Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	return Decode(m.data)
}

func (m *MemoryStore) Write(reg *kb.Registry) error {
	data, err := Encode(reg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

// Lock is a no-op; a single process owns the memory store.
func (m *MemoryStore) Lock() (func() error, error) {
	return func() error { return nil }, nil
}

// SetRaw replaces the stored bytes, for simulating corrupted files.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}
