package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to a file's path to name its advisory lock file.
const LockSuffix = ".lock"

// Lock takes an exclusive advisory lock guarding path and blocks until it is
// acquired. The lock lives in a sibling "<path>.lock" file. Locks are held per
// open file, so the same process must not lock the same path twice.
func Lock(path string) (unlock func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path + LockSuffix)
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return fl.Unlock, nil
}

// RemoveWithLock deletes path and its lock file. Missing files are not an error.
func RemoveWithLock(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	if err := os.Remove(path + LockSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock for %s: %w", path, err)
	}
	return nil
}
