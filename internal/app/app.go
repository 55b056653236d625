package app

import (
	"fmt"
	"os"

	"keybin-go/internal/config"
	"keybin-go/internal/fuzzy"
	"keybin-go/internal/journal"
	"keybin-go/internal/kb"
	"keybin-go/internal/passhash"
	"keybin-go/internal/registry"
	"keybin-go/internal/secretstore"
	"keybin-go/internal/vault"
)

// KeybinApp is the application layer between the CLI and kb.Service.
// It constructs all dependencies from config, journals state-mutating
// commands, and releases resources on Close.
type KeybinApp struct {
	cfg     *config.Config
	journal kb.Journal
	service *kb.Service
	clock   kb.Clock
	logger  kb.Logger
	op      *Operation
	logFile *os.File
}

// NewKeybinApp creates a fully wired KeybinApp from the given config.
// operation names the CLI command being run (e.g. "profile new", "log add").
// verbose mirrors the log to stderr. The caller must call Close when done.
func NewKeybinApp(cfg *config.Config, operation string, verbose bool) (*KeybinApp, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	hasher, err := passhash.NewBcryptHasher(cfg.Hashing.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("creating hasher: %w", err)
	}

	secrets, err := secretstore.NewSecretStoreFromConfig(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	j, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	clock := kb.RealClock{}
	opID := kb.UUIDGenerator{}.New()
	slogger, logFile, err := newLogger(cfg.LogDir, opID, level, verbose)
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	vaults := vault.NewFileSystemStore()
	profiles := kb.NewProfileRegistry(registry.NewFileStore(cfg.RegistryPath), vaults, hasher, cfg.DataDir, logger)
	sessions := kb.NewSessionAuthority(profiles, secrets, hasher, clock, kb.RandomTokenGenerator{}, logger)
	credentials := kb.NewCredentialVault(profiles, vaults, clock, logger)
	svc := kb.NewService(profiles, sessions, credentials, fuzzy.Matcher{}, logger)

	logger.Debug("command started", "operation", operation)

	return &KeybinApp{
		cfg:     cfg,
		journal: j,
		service: svc,
		clock:   clock,
		logger:  logger,
		op:      NewOperation(operation, opID, clock.Now()),
		logFile: logFile,
	}, nil
}

// Operation returns the operation being run.
func (a *KeybinApp) Operation() *Operation {
	return a.op
}

// persistOperation journals the operation against profile.
// This should only be called for state-mutating commands.
func (a *KeybinApp) persistOperation(profile string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Profile = profile
	id, err := a.journal.Begin(&kb.Operation{
		OpID:      a.op.OpID,
		Name:      a.op.Name,
		Profile:   profile,
		Status:    "running",
		StartedAt: a.op.StartedAt,
	})
	if err != nil {
		return fmt.Errorf("journalling operation: %w", err)
	}
	a.op.ID = id
	return nil
}

// track marks the operation failed when err is non-nil and returns err.
func (a *KeybinApp) track(err error) error {
	if err != nil {
		a.op.Fail()
		a.logger.Debug("command failed", "operation", a.op.Name, "error", err)
	}
	return err
}

// WhoAmI returns the active session.
func (a *KeybinApp) WhoAmI() (*kb.Session, error) {
	return a.service.WhoAmI()
}

// ListProfiles returns every profile and the active profile name.
func (a *KeybinApp) ListProfiles() ([]*kb.Profile, string, error) {
	return a.service.ListProfiles()
}

// Profile returns the named profile.
func (a *KeybinApp) Profile(name string) (*kb.Profile, error) {
	return a.service.Profile(name)
}

// CreateProfile registers a new profile.
func (a *KeybinApp) CreateProfile(name, key, dataPath string) (*kb.Profile, error) {
	if err := a.persistOperation(name); err != nil {
		return nil, err
	}
	p, err := a.service.CreateProfile(name, key, dataPath)
	return p, a.track(err)
}

// SwitchProfile opens a session on the named profile.
func (a *KeybinApp) SwitchProfile(name, key string) (*kb.Session, error) {
	if err := a.persistOperation(name); err != nil {
		return nil, err
	}
	s, err := a.service.SwitchProfile(name, key)
	return s, a.track(err)
}

// Logout ends the current session. It returns the profile that was active, if any.
func (a *KeybinApp) Logout() (string, error) {
	active, err := a.service.ActiveProfile()
	if err != nil {
		return "", err
	}
	if err := a.persistOperation(active); err != nil {
		return "", err
	}
	return active, a.track(a.service.Logout())
}

// DeleteProfile removes a profile and its vault.
func (a *KeybinApp) DeleteProfile(name, key string) error {
	if err := a.persistOperation(name); err != nil {
		return err
	}
	return a.track(a.service.DeleteProfile(name, key))
}

// AddEntry stores a new credential entry in the active profile's vault.
func (a *KeybinApp) AddEntry(in kb.NewEntry) (*kb.CredentialEntry, error) {
	active, err := a.service.ActiveProfile()
	if err != nil {
		return nil, err
	}
	if err := a.persistOperation(active); err != nil {
		return nil, err
	}
	e, err := a.service.AddEntry(in)
	return e, a.track(err)
}

// DeleteEntry removes an entry from the active profile's vault.
func (a *KeybinApp) DeleteEntry(id int64) error {
	active, err := a.service.ActiveProfile()
	if err != nil {
		return err
	}
	if err := a.persistOperation(active); err != nil {
		return err
	}
	return a.track(a.service.DeleteEntry(id))
}

// Find searches the active profile's vault.
func (a *KeybinApp) Find(q kb.Query) ([]kb.SearchResult, error) {
	return a.service.Find(q)
}

// GetHistory returns the most recent journalled operations.
func (a *KeybinApp) GetHistory(limit int) ([]*kb.Operation, error) {
	return a.journal.List(limit)
}

// Close finalizes the journalled operation and releases the journal and log file.
func (a *KeybinApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.journal.Finish(a.op.ID, a.op.Status, a.clock.Now()); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}
	a.logger.Debug("command finished", "operation", a.op.Name, "status", a.op.Status)

	if err := a.journal.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
