package vault

import (
	"fmt"

	"keybin-go/internal/fs"
	"keybin-go/internal/kb"
)

// FileSystemStore keeps each profile vault in its own JSON file at the profile's data path.
// Writes go to a temp file that is renamed into place, so readers never see partial content.
type FileSystemStore struct{}

var _ kb.VaultStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates a FileSystemStore.
func NewFileSystemStore() *FileSystemStore {
	return &FileSystemStore{}
}

// Read decodes the vault at path. It returns nil and no error if the file does not exist.
func (s *FileSystemStore) Read(path string) (*kb.VaultFile, error) {
	data, err := fs.ReadFileIfExists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kb.ErrStorage, err)
	}
	if data == nil {
		return nil, nil
	}
	return Decode(data)
}

func (s *FileSystemStore) Write(path string, vault *kb.VaultFile) error {
	data, err := Encode(vault)
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("writing vault to %s: %w", path, err)
	}
	return nil
}

// Remove deletes the vault file and its lock file.
func (s *FileSystemStore) Remove(path string) error {
	if err := fs.RemoveWithLock(path); err != nil {
		return fmt.Errorf("removing vault: %w", err)
	}
	return nil
}

func (s *FileSystemStore) Lock(path string) (func() error, error) {
	return fs.Lock(path)
}
