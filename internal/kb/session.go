package kb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SessionTTL is how long a session stays valid after it was issued.
	SessionTTL = 900 * time.Second

	// SessionService is the secret store service under which session records live,
	// keyed by profile name.
	SessionService = "keybin_session"
)

// CheckPass verifies candidate against a stored master key hash.
// An empty hash accepts anything; an empty candidate never matches a non-empty hash.
func CheckPass(hasher PasswordHasher, candidate, storedHash string) bool {
	if storedHash == "" {
		return true
	}
	if candidate == "" {
		return false
	}
	return hasher.Verify(candidate, storedHash)
}

// SessionAuthority opens, validates and closes the single system-wide session.
//
// A session record is "<token>:<unix_timestamp>" where token is a fresh random
// secret. The master key is only used to authorize CreateToken and is never stored.
type SessionAuthority struct {
	registry *ProfileRegistry
	secrets  SecretStore
	hasher   PasswordHasher
	clock    Clock
	tokens   IDGenerator
	logger   Logger
}

// NewSessionAuthority creates a SessionAuthority.
func NewSessionAuthority(registry *ProfileRegistry, secrets SecretStore, hasher PasswordHasher, clock Clock, tokens IDGenerator, logger Logger) *SessionAuthority {
	return &SessionAuthority{
		registry: registry,
		secrets:  secrets,
		hasher:   hasher,
		clock:    clock,
		tokens:   tokens,
		logger:   logger,
	}
}

// CreateToken unlocks profile with key and makes it the active profile.
// Only one session may exist at a time; a stale one is cleared first.
func (a *SessionAuthority) CreateToken(profile, key string) (*Session, error) {
	if _, err := a.TokenCheck(); err == nil {
		return nil, ErrSessionAlreadyExists
	} else if !IsSessionFailure(err) {
		return nil, err
	}

	p, err := a.registry.Get(profile)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, profile)
		}
		return nil, err
	}

	if p.Locked() {
		if key == "" {
			return nil, ErrPasswordNeeded
		}
		if !CheckPass(a.hasher, key, p.MasterKeyHash) {
			a.logger.Warn("master key rejected", "profile", profile)
			return nil, ErrInvalidPassword
		}
	}

	issuedAt := a.clock.Now().UTC().Truncate(time.Second)
	record := a.tokens.New() + ":" + strconv.FormatInt(issuedAt.Unix(), 10)
	if err := a.secrets.Set(SessionService, profile, record); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	if err := a.registry.SetActive(profile); err != nil {
		a.deleteRecord(profile)
		return nil, fmt.Errorf("activating profile: %w", err)
	}

	a.logger.Info("session opened", "profile", profile)
	return &Session{
		Profile:   profile,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(SessionTTL),
	}, nil
}

// TokenCheck is the guard run before every privileged operation. It returns
// the active session, or clears all session state and fails with
// ErrNoSessionActive, ErrCorruptedSession or ErrSessionExpired. An unreadable
// session store counts as a corrupted session.
func (a *SessionAuthority) TokenCheck() (*Session, error) {
	reg, err := a.registry.Load()
	if err != nil {
		return nil, err
	}

	name := reg.ActiveProfile
	if name == "" {
		a.clearRecords(reg)
		return nil, ErrNoSessionActive
	}
	if _, ok := reg.Profiles[name]; !ok {
		a.clear(name)
		return nil, fmt.Errorf("%w: profile %s is no longer registered", ErrNoSessionActive, name)
	}

	record, err := a.secrets.Get(SessionService, name)
	if err != nil {
		a.clear(name)
		switch {
		case errors.Is(err, ErrSecretNotFound):
			return nil, ErrNoSessionActive
		case errors.Is(err, ErrStorage):
			a.logger.Warn("unreadable session store", "profile", name, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrCorruptedSession, err)
		}
		return nil, fmt.Errorf("%w: reading session: %v", ErrNoSessionActive, err)
	}

	now := a.clock.Now()
	issuedAt, err := parseRecord(record)
	if err != nil || issuedAt.After(now) {
		a.clear(name)
		a.logger.Warn("corrupted session cleared", "profile", name)
		return nil, ErrCorruptedSession
	}

	if now.Sub(issuedAt) > SessionTTL {
		a.clear(name)
		a.logger.Info("session expired", "profile", name)
		return nil, ErrSessionExpired
	}

	return &Session{
		Profile:   name,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(SessionTTL),
	}, nil
}

// EraseToken ends the current session, if any. It is idempotent.
func (a *SessionAuthority) EraseToken() error {
	reg, err := a.registry.Load()
	if err != nil {
		return err
	}
	name := reg.ActiveProfile
	if name == "" {
		return nil
	}

	if err := a.registry.ClearActive(); err != nil {
		return fmt.Errorf("clearing active profile: %w", err)
	}
	a.deleteRecord(name)

	a.logger.Info("session closed", "profile", name)
	return nil
}

// clear drops the active profile and the session record after a failed check.
func (a *SessionAuthority) clear(name string) {
	if err := a.registry.ClearActive(); err != nil {
		a.logger.Warn("clearing active profile failed", "error", err)
	}
	a.deleteRecord(name)
}

// clearRecords drops records left behind by a failed delete while nothing is active.
func (a *SessionAuthority) clearRecords(reg *Registry) {
	for _, name := range reg.Names() {
		a.deleteRecord(name)
	}
}

func (a *SessionAuthority) deleteRecord(name string) {
	if err := a.secrets.Delete(SessionService, name); err != nil && !errors.Is(err, ErrSecretNotFound) {
		a.logger.Debug("deleting session record failed", "profile", name, "error", err)
	}
}

// parseRecord extracts the issue time from "<token>:<unix_timestamp>".
func parseRecord(record string) (time.Time, error) {
	i := strings.LastIndex(record, ":")
	if i <= 0 {
		return time.Time{}, fmt.Errorf("missing token or separator")
	}
	ts, err := strconv.ParseInt(record[i+1:], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return time.Unix(ts, 0).UTC(), nil
}

// IsSessionFailure reports whether err is one of the session guard failures.
func IsSessionFailure(err error) bool {
	return errors.Is(err, ErrNoSessionActive) ||
		errors.Is(err, ErrCorruptedSession) ||
		errors.Is(err, ErrSessionExpired)
}
