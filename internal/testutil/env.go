package testutil

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"keybin-go/internal/fuzzy"
	"keybin-go/internal/kb"
	"keybin-go/internal/passhash"
	"keybin-go/internal/registry"
	"keybin-go/internal/secretstore"
	"keybin-go/internal/vault"
)

// DataDir is where the test registry places default vaults.
const DataDir = "/data"

// Env wires the kb components to in-memory stores, a stub clock and
// minimum-cost bcrypt. The stores are exposed so tests can inspect or corrupt them.
type Env struct {
	Clock    *StubClock
	Tokens   *StubTokenGenerator
	Registry *registry.MemoryStore
	Vaults   *vault.MemoryStore
	Secrets  *secretstore.MemoryStore
	Hasher   *passhash.BcryptHasher

	Profiles    *kb.ProfileRegistry
	Sessions    *kb.SessionAuthority
	Credentials *kb.CredentialVault
	Service     *kb.Service
}

// NewEnv creates a fresh Env.
func NewEnv(t testing.TB) *Env {
	t.Helper()

	hasher, err := passhash.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher() error = %v", err)
	}

	e := &Env{
		Clock:    FixedClock(),
		Tokens:   NewStubTokenGenerator(),
		Registry: registry.NewMemoryStore(),
		Vaults:   vault.NewMemoryStore(),
		Secrets:  secretstore.NewMemoryStore(),
		Hasher:   hasher,
	}

	logger := kb.NewNopLogger()
	e.Profiles = kb.NewProfileRegistry(e.Registry, e.Vaults, e.Hasher, DataDir, logger)
	e.Sessions = kb.NewSessionAuthority(e.Profiles, e.Secrets, e.Hasher, e.Clock, e.Tokens, logger)
	e.Credentials = kb.NewCredentialVault(e.Profiles, e.Vaults, e.Clock, logger)
	e.Service = kb.NewService(e.Profiles, e.Sessions, e.Credentials, fuzzy.Matcher{}, logger)
	return e
}

// Unlock opens a session on name, failing the test on error.
func (e *Env) Unlock(t testing.TB, name, key string) *kb.Session {
	t.Helper()
	s, err := e.Sessions.CreateToken(name, key)
	if err != nil {
		t.Fatalf("CreateToken(%q) error = %v", name, err)
	}
	return s
}

// AddEntry stores an entry through the service, failing the test on error.
func (e *Env) AddEntry(t testing.TB, in kb.NewEntry) *kb.CredentialEntry {
	t.Helper()
	entry, err := e.Service.AddEntry(in)
	if err != nil {
		t.Fatalf("AddEntry(%+v) error = %v", in, err)
	}
	return entry
}
