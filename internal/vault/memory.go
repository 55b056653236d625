package vault

import (
	"sync"

	"keybin-go/internal/kb"
)

// MemoryStore is an in-memory implementation of kb.VaultStore.
// Vaults are held in their encoded form so callers never share state with the store.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	vaults map[string][]byte // data path -> encoded vault
}

var _ kb.VaultStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vaults: make(map[string][]byte)}
}

func (m *MemoryStore) Read(path string) (*kb.VaultFile, error) {
	m.mu.RLock()
	data, ok := m.vaults[path]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return Decode(data)
}

func (m *MemoryStore) Write(path string, vault *kb.VaultFile) error {
	data, err := Encode(vault)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.vaults[path] = data
	return nil
}

func (m *MemoryStore) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vaults, path)
	return nil
}

// Lock is a no-op.
func (m *MemoryStore) Lock(path string) (func() error, error) {
	return func() error { return nil }, nil
}

// Exists reports whether a vault is stored at path.
func (m *MemoryStore) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vaults[path]
	return ok
}

// SetRaw stores raw bytes at path, for simulating corrupted files.
func (m *MemoryStore) SetRaw(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vaults[path] = data
}
