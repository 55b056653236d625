package kb

import "fmt"

// Service is the layer the CLI talks to. Every privileged operation runs the
// session guard first and acts on the profile the session belongs to.
type Service struct {
	registry *ProfileRegistry
	sessions *SessionAuthority
	vault    *CredentialVault
	scorer   Scorer
	logger   Logger
}

// NewService creates a Service with the provided components.
func NewService(registry *ProfileRegistry, sessions *SessionAuthority, vault *CredentialVault, scorer Scorer, logger Logger) *Service {
	return &Service{
		registry: registry,
		sessions: sessions,
		vault:    vault,
		scorer:   scorer,
		logger:   logger,
	}
}

// guard returns the active session or the reason there is none.
func (s *Service) guard() (*Session, error) {
	return s.sessions.TokenCheck()
}

// WhoAmI returns the active session.
func (s *Service) WhoAmI() (*Session, error) {
	return s.guard()
}

// ActiveProfile returns the active profile name without validating the session.
func (s *Service) ActiveProfile() (string, error) {
	return s.registry.Active()
}

// Profile returns the named profile.
func (s *Service) Profile(name string) (*Profile, error) {
	return s.registry.Get(name)
}

// ListProfiles returns every profile sorted by name and the active profile name.
func (s *Service) ListProfiles() ([]*Profile, string, error) {
	return s.registry.List()
}

// CreateProfile registers a new profile.
func (s *Service) CreateProfile(name, key, dataPath string) (*Profile, error) {
	return s.registry.CreateProfile(name, key, dataPath)
}

// SwitchProfile opens a session on the named profile.
func (s *Service) SwitchProfile(name, key string) (*Session, error) {
	return s.sessions.CreateToken(name, key)
}

// Logout ends the current session, if any.
func (s *Service) Logout() error {
	return s.sessions.EraseToken()
}

// DeleteProfile removes a profile and its vault. A locked profile requires its
// master key. Deleting the active profile ends the session.
func (s *Service) DeleteProfile(name, key string) error {
	if name == DefaultProfile {
		return ErrProtectedProfile
	}

	p, err := s.registry.Get(name)
	if err != nil {
		return err
	}
	if p.Locked() {
		if key == "" {
			return ErrPasswordNeeded
		}
		if !CheckPass(s.sessions.hasher, key, p.MasterKeyHash) {
			return ErrInvalidPassword
		}
	}

	active, err := s.registry.Active()
	if err != nil {
		return err
	}
	if err := s.registry.DeleteProfile(name); err != nil {
		return err
	}

	// The registry already dropped the active profile; only the record is left.
	if active == name {
		s.sessions.deleteRecord(name)
		s.logger.Info("session closed", "profile", name)
	}
	return nil
}

// AddEntry stores a new credential entry in the active profile's vault.
func (s *Service) AddEntry(in NewEntry) (*CredentialEntry, error) {
	session, err := s.guard()
	if err != nil {
		return nil, err
	}
	return s.vault.AddEntry(session.Profile, in)
}

// DeleteEntry removes the entry with the given id from the active profile's vault.
func (s *Service) DeleteEntry(id int64) error {
	session, err := s.guard()
	if err != nil {
		return err
	}
	return s.vault.DeleteEntry(session.Profile, id)
}

// Find searches the active profile's vault.
func (s *Service) Find(q Query) ([]SearchResult, error) {
	session, err := s.guard()
	if err != nil {
		return nil, err
	}

	vault, err := s.vault.Load(session.Profile)
	if err != nil {
		return nil, err
	}

	results, err := Search(vault, q, s.scorer)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("search complete", "profile", session.Profile, "query", fmt.Sprintf("%T", q), "results", len(results))
	return results, nil
}
