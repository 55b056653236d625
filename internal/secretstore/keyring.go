// Package secretstore provides kb.SecretStore backends: the OS keyring,
// an age-encrypted file for headless machines, and memory for tests.
package secretstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"keybin-go/internal/kb"
)

// KeyringStore keeps secrets in the platform keyring
// (Secret Service, macOS Keychain or Windows Credential Manager).
type KeyringStore struct{}

var _ kb.SecretStore = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (s *KeyringStore) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		return "", translate(err)
	}
	return secret, nil
}

func (s *KeyringStore) Set(service, account, secret string) error {
	if err := keyring.Set(service, account, secret); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Delete(service, account string) error {
	if err := keyring.Delete(service, account); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return kb.ErrSecretNotFound
	}
	return fmt.Errorf("keyring: %w", err)
}
