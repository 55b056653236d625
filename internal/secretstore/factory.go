package secretstore

import (
	"fmt"

	"keybin-go/internal/config"
	"keybin-go/internal/kb"
)

// NewSecretStoreFromConfig creates a SecretStore based on the session store type.
func NewSecretStoreFromConfig(cfg config.SessionConfig) (kb.SecretStore, error) {
	switch cfg.Store {
	case "", "keyring":
		return NewKeyringStore(), nil
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		if cfg.FilePath == "" || cfg.KeyPath == "" {
			return nil, fmt.Errorf("file session store requires file_path and key_path to be set")
		}
		return NewAgeFileStore(cfg.FilePath, cfg.KeyPath), nil
	default:
		return nil, fmt.Errorf("unknown session store: %s", cfg.Store)
	}
}
