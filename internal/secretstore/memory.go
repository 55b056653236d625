package secretstore

import (
	"sync"

	"keybin-go/internal/kb"
)

// MemoryStore is an in-memory kb.SecretStore, safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string // "service/account" -> secret
}

var _ kb.SecretStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]string)}
}

// secretKey returns the map key for a service/account pair.
func secretKey(service, account string) string {
	return service + "/" + account
}

func (m *MemoryStore) Get(service, account string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	secret, ok := m.secrets[secretKey(service, account)]
	if !ok {
		return "", kb.ErrSecretNotFound
	}
	return secret, nil
}

func (m *MemoryStore) Set(service, account, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[secretKey(service, account)] = secret
	return nil
}

func (m *MemoryStore) Delete(service, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := secretKey(service, account)
	if _, ok := m.secrets[key]; !ok {
		return kb.ErrSecretNotFound
	}
	delete(m.secrets, key)
	return nil
}
