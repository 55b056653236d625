package kb

import "time"

// RegistryStore persists the profile registry.
type RegistryStore interface {
	// Read returns the persisted registry, or nil and no error if none exists yet.
	// A file that exists but is not well-formed yields an error wrapping ErrStorage.
	Read() (*Registry, error)

	// Write replaces the persisted registry.
	Write(reg *Registry) error

	// Lock takes an exclusive advisory lock on the registry. The returned
	// function releases it. Locks are not reentrant.
	Lock() (unlock func() error, err error)
}

// VaultStore persists vault files addressed by a profile's data path.
type VaultStore interface {
	// Read returns the vault stored at path, or nil and no error if none exists yet.
	// Malformed content yields an error wrapping ErrStorage.
	Read(path string) (*VaultFile, error)

	// Write replaces the vault stored at path.
	Write(path string, vault *VaultFile) error

	// Remove deletes the vault stored at path. Removing a missing vault is not an error.
	Remove(path string) error

	// Lock takes an exclusive advisory lock on the vault at path.
	Lock(path string) (unlock func() error, err error)
}

// SecretStore is a secret-capable key/value store (OS keyring or equivalent).
type SecretStore interface {
	// Get returns the secret for service/account, or ErrSecretNotFound.
	Get(service, account string) (string, error)

	// Set stores the secret for service/account, replacing any previous value.
	Set(service, account, secret string) error

	// Delete removes the secret for service/account, or returns ErrSecretNotFound.
	Delete(service, account string) error
}

// PasswordHasher is a slow, salted password hashing scheme.
type PasswordHasher interface {
	// Hash returns the encoded hash of key.
	Hash(key string) (string, error)

	// Verify reports whether candidate matches the encoded hash in constant time.
	Verify(candidate, hash string) bool
}

// Journal records the CLI operations that mutate state.
type Journal interface {
	// Begin records a started operation and returns its journal id.
	Begin(op *Operation) (int64, error)

	// Finish marks the operation with the given id as finished.
	Finish(id int64, status string, finishedAt time.Time) error

	// List returns the most recent operations, newest first.
	List(limit int) ([]*Operation, error)

	// Close releases the journal.
	Close() error
}

// Scorer computes a partial-match similarity between 0 and 100.
type Scorer interface {
	PartialRatio(query, target string) int
}
