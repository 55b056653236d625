package kb

import (
	"sort"
	"time"
)

// DefaultProfile is the profile every registry starts with. It can never be deleted.
const DefaultProfile = "default"

// Profile is an isolated credential set with its own vault file and optional master key.
type Profile struct {
	Name          string
	DataPath      string
	MasterKeyHash string // empty means the profile has no master key
}

// Locked reports whether a master key is required to open a session on the profile.
func (p *Profile) Locked() bool {
	return p.MasterKeyHash != ""
}

// Registry is the full set of profiles plus the currently active one.
// It is always read and written as a whole.
type Registry struct {
	ActiveProfile string
	Profiles      map[string]*Profile
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Profiles: make(map[string]*Profile)}
}

// Names returns the registered profile names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Session is a validated, unexpired session as reported by SessionAuthority.TokenCheck.
type Session struct {
	Profile   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CredentialEntry is one stored secret record. Empty strings stand for absent fields.
type CredentialEntry struct {
	ID        int64
	Service   string
	User      string
	Email     string
	Password  string
	Tags      []string
	CreatedAt time.Time
}

// HasTag reports whether tag is in the entry's tag set.
func (e *CredentialEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// VaultFile is the per-profile credential store.
// NextID holds the last issued id; ids are never reused.
type VaultFile struct {
	NextID  int64
	Entries map[int64]*CredentialEntry
}

// NewVaultFile returns an empty vault.
func NewVaultFile() *VaultFile {
	return &VaultFile{Entries: make(map[int64]*CredentialEntry)}
}

// Ordered returns the entries in natural (insertion) order.
// Ids are assigned monotonically, so insertion order is ascending id order.
func (v *VaultFile) Ordered() []*CredentialEntry {
	entries := make([]*CredentialEntry, 0, len(v.Entries))
	for _, e := range v.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Operation is one journalled CLI command.
type Operation struct {
	ID         int64
	OpID       string
	Name       string
	Profile    string
	Status     string // "running", "success" or "error"
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
}
