package kb

import (
	"fmt"
	"strings"
)

// NewEntry holds the caller-supplied fields of a credential entry.
// Empty strings mean the field is absent.
type NewEntry struct {
	Service  string
	User     string
	Email    string
	Password string
	Tags     []string
}

// CredentialVault stores credential entries in each profile's vault file.
type CredentialVault struct {
	registry *ProfileRegistry
	store    VaultStore
	clock    Clock
	logger   Logger
}

// NewCredentialVault creates a CredentialVault.
func NewCredentialVault(registry *ProfileRegistry, store VaultStore, clock Clock, logger Logger) *CredentialVault {
	return &CredentialVault{
		registry: registry,
		store:    store,
		clock:    clock,
		logger:   logger,
	}
}

// Load returns the vault of the named profile, creating an empty one on first access.
func (v *CredentialVault) Load(profile string) (*VaultFile, error) {
	var vault *VaultFile
	err := v.withVault(profile, func(path string) error {
		vf, err := v.loadLocked(path)
		vault = vf
		return err
	})
	return vault, err
}

// Save replaces the vault of the named profile.
func (v *CredentialVault) Save(profile string, vault *VaultFile) error {
	return v.withVault(profile, func(path string) error {
		return v.write(path, vault)
	})
}

// AddEntry appends a new entry to the profile's vault and returns it.
// The entry gets the id after the last one ever issued.
func (v *CredentialVault) AddEntry(profile string, in NewEntry) (*CredentialEntry, error) {
	var entry *CredentialEntry
	err := v.withVault(profile, func(path string) error {
		vault, err := v.loadLocked(path)
		if err != nil {
			return err
		}

		id := vault.NextID + 1
		entry = &CredentialEntry{
			ID:        id,
			Service:   in.Service,
			User:      in.User,
			Email:     in.Email,
			Password:  in.Password,
			Tags:      normalizeTags(in.Tags),
			CreatedAt: v.clock.Now().UTC(),
		}
		vault.Entries[id] = entry
		vault.NextID = id
		return v.write(path, vault)
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info("log added", "profile", profile, "id", entry.ID)
	return entry, nil
}

// DeleteEntry removes the entry with the given id. Remaining ids are untouched
// and the counter is not rewound.
func (v *CredentialVault) DeleteEntry(profile string, id int64) error {
	err := v.withVault(profile, func(path string) error {
		vault, err := v.loadLocked(path)
		if err != nil {
			return err
		}
		if _, ok := vault.Entries[id]; !ok {
			return fmt.Errorf("%w: id %d", ErrNoLogFound, id)
		}
		delete(vault.Entries, id)
		return v.write(path, vault)
	})
	if err != nil {
		return err
	}

	v.logger.Info("log deleted", "profile", profile, "id", id)
	return nil
}

// withVault resolves the profile's data path and runs fn under the vault lock.
func (v *CredentialVault) withVault(profile string, fn func(path string) error) error {
	p, err := v.registry.Get(profile)
	if err != nil {
		return err
	}

	unlock, err := v.store.Lock(p.DataPath)
	if err != nil {
		return fmt.Errorf("locking vault: %w", err)
	}
	defer unlock()

	return fn(p.DataPath)
}

func (v *CredentialVault) loadLocked(path string) (*VaultFile, error) {
	vault, err := v.store.Read(path)
	if err != nil {
		return nil, fmt.Errorf("loading vault: %w", err)
	}
	if vault != nil {
		return vault, nil
	}

	vault = NewVaultFile()
	if err := v.write(path, vault); err != nil {
		return nil, err
	}
	v.logger.Debug("vault created", "path", path)
	return vault, nil
}

func (v *CredentialVault) write(path string, vault *VaultFile) error {
	if err := v.store.Write(path, vault); err != nil {
		return fmt.Errorf("saving vault: %w", err)
	}
	return nil
}

// normalizeTags trims tags, drops empty ones and removes duplicates,
// keeping the first occurrence. It returns nil when no tags remain.
func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
