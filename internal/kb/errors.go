package kb

import "errors"

var (
	// ErrStorage is returned when a persisted file cannot be read or is not well-formed.
	ErrStorage = errors.New("storage error")

	// ErrProfileNotFound is returned when the named profile is not registered.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProtectedProfile is returned when deleting the default profile.
	ErrProtectedProfile = errors.New("the default profile can not be deleted")
	// ErrProfileExists is returned when creating a profile whose name is taken.
	ErrProfileExists = errors.New("profile already exists")
	// ErrInvalidProfileName is returned for empty names or names unusable as file names.
	ErrInvalidProfileName = errors.New("invalid profile name")

	// ErrSessionAlreadyExists is returned when a profile is already unlocked.
	ErrSessionAlreadyExists = errors.New("a session is already active")
	// ErrUserNotFound is returned when opening a session for an unknown profile.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordNeeded is returned when a locked profile is opened without a key.
	ErrPasswordNeeded = errors.New("master key needed")
	// ErrInvalidPassword is returned when the master key does not verify.
	ErrInvalidPassword = errors.New("incorrect master key")
	// ErrNoSessionActive is returned by the session guard when nothing is unlocked.
	ErrNoSessionActive = errors.New("no active session")
	// ErrCorruptedSession is returned when the stored session record cannot be parsed.
	ErrCorruptedSession = errors.New("session record is corrupted")
	// ErrSessionExpired is returned when the session is older than SessionTTL.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoLogFound is returned when no credential entry matches an id or exact filter.
	ErrNoLogFound = errors.New("no log found")

	// ErrSecretNotFound is returned by SecretStore implementations for missing keys.
	ErrSecretNotFound = errors.New("secret not found")
)
