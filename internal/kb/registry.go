package kb

import (
	"fmt"
	"path/filepath"
	"regexp"
)

var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ProfileRegistry owns the set of profiles and the notion of the active profile.
// Every mutation is a locked read-modify-write of the whole registry.
type ProfileRegistry struct {
	store   RegistryStore
	vaults  VaultStore
	hasher  PasswordHasher
	dataDir string
	logger  Logger
}

// NewProfileRegistry creates a ProfileRegistry. dataDir is where default vault
// files are placed for profiles created without an explicit data path.
func NewProfileRegistry(store RegistryStore, vaults VaultStore, hasher PasswordHasher, dataDir string, logger Logger) *ProfileRegistry {
	return &ProfileRegistry{
		store:   store,
		vaults:  vaults,
		hasher:  hasher,
		dataDir: dataDir,
		logger:  logger,
	}
}

// DefaultDataPath returns the vault location used for a profile created without one.
func (r *ProfileRegistry) DefaultDataPath(name string) string {
	return filepath.Join(r.dataDir, name+".json")
}

// Load returns the registry, initializing and persisting one that holds only
// the default profile if nothing has been persisted yet.
func (r *ProfileRegistry) Load() (*Registry, error) {
	unlock, err := r.store.Lock()
	if err != nil {
		return nil, fmt.Errorf("locking registry: %w", err)
	}
	defer unlock()

	return r.loadLocked()
}

// Save replaces the persisted registry.
func (r *ProfileRegistry) Save(reg *Registry) error {
	unlock, err := r.store.Lock()
	if err != nil {
		return fmt.Errorf("locking registry: %w", err)
	}
	defer unlock()

	if err := r.store.Write(reg); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	return nil
}

// Update loads the registry, applies fn and persists the result.
// Nothing is written if fn returns an error.
func (r *ProfileRegistry) Update(fn func(reg *Registry) error) error {
	unlock, err := r.store.Lock()
	if err != nil {
		return fmt.Errorf("locking registry: %w", err)
	}
	defer unlock()

	reg, err := r.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}
	if err := r.store.Write(reg); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	return nil
}

func (r *ProfileRegistry) loadLocked() (*Registry, error) {
	reg, err := r.store.Read()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	if reg != nil {
		return reg, nil
	}

	reg = NewRegistry()
	reg.Profiles[DefaultProfile] = &Profile{
		Name:     DefaultProfile,
		DataPath: r.DefaultDataPath(DefaultProfile),
	}
	if err := r.store.Write(reg); err != nil {
		return nil, fmt.Errorf("initializing registry: %w", err)
	}
	r.logger.Info("registry initialized", "profile", DefaultProfile)
	return reg, nil
}

// Get returns the named profile, or ErrProfileNotFound.
func (r *ProfileRegistry) Get(name string) (*Profile, error) {
	reg, err := r.Load()
	if err != nil {
		return nil, err
	}
	p, ok := reg.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, nil
}

// List returns all profiles sorted by name together with the active profile name.
func (r *ProfileRegistry) List() ([]*Profile, string, error) {
	reg, err := r.Load()
	if err != nil {
		return nil, "", err
	}
	profiles := make([]*Profile, 0, len(reg.Profiles))
	for _, name := range reg.Names() {
		profiles = append(profiles, reg.Profiles[name])
	}
	return profiles, reg.ActiveProfile, nil
}

// Active returns the active profile name, or "" when none is set.
func (r *ProfileRegistry) Active() (string, error) {
	reg, err := r.Load()
	if err != nil {
		return "", err
	}
	return reg.ActiveProfile, nil
}

// CreateProfile registers a new profile. A non-empty key is stored only as a hash.
// An empty dataPath places the vault under the registry's data directory.
func (r *ProfileRegistry) CreateProfile(name, key, dataPath string) (*Profile, error) {
	if !profileNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	}
	if dataPath == "" {
		dataPath = r.DefaultDataPath(name)
	}

	// Hash before taking the lock; bcrypt is deliberately slow.
	var hash string
	if key != "" {
		h, err := r.hasher.Hash(key)
		if err != nil {
			return nil, fmt.Errorf("hashing master key: %w", err)
		}
		hash = h
	}

	profile := &Profile{Name: name, DataPath: dataPath, MasterKeyHash: hash}
	err := r.Update(func(reg *Registry) error {
		if _, exists := reg.Profiles[name]; exists {
			return fmt.Errorf("%w: %s", ErrProfileExists, name)
		}
		reg.Profiles[name] = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("profile created", "profile", name, "locked", profile.Locked())
	return profile, nil
}

// DeleteProfile removes the profile's vault file and then the profile itself.
// If the vault cannot be removed the profile stays registered. If the profile
// was active, the active profile is cleared.
func (r *ProfileRegistry) DeleteProfile(name string) error {
	if name == DefaultProfile {
		return ErrProtectedProfile
	}

	p, err := r.Get(name)
	if err != nil {
		return err
	}
	if err := r.removeVault(p.DataPath); err != nil {
		return fmt.Errorf("removing vault for %s: %w", name, err)
	}

	err = r.Update(func(reg *Registry) error {
		if _, ok := reg.Profiles[name]; !ok {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		delete(reg.Profiles, name)
		if reg.ActiveProfile == name {
			reg.ActiveProfile = ""
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("profile deleted", "profile", name)
	return nil
}

func (r *ProfileRegistry) removeVault(path string) error {
	unlock, err := r.vaults.Lock(path)
	if err != nil {
		return fmt.Errorf("locking vault: %w", err)
	}
	defer unlock()

	return r.vaults.Remove(path)
}

// SetActive marks name as the active profile. It does not check sessions;
// callers go through SessionAuthority first.
func (r *ProfileRegistry) SetActive(name string) error {
	return r.Update(func(reg *Registry) error {
		if _, ok := reg.Profiles[name]; !ok {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		reg.ActiveProfile = name
		return nil
	})
}

// ClearActive unsets the active profile.
func (r *ProfileRegistry) ClearActive() error {
	return r.Update(func(reg *Registry) error {
		reg.ActiveProfile = ""
		return nil
	})
}

