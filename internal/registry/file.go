package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"keybin-go/internal/fs"
	"keybin-go/internal/kb"
)

// registryFile is the on-disk JSON shape of the registry.
type registryFile struct {
	ActiveProfile string                 `json:"active_profile"`
	Profiles      map[string]profileFile `json:"profiles"`
}

type profileFile struct {
	DataPath  string `json:"data_path"`
	MasterKey string `json:"masterkey"`
}

// FileStore keeps the registry in a single JSON file.
type FileStore struct {
	path string
}

var _ kb.RegistryStore = (*FileStore)(nil)

// NewFileStore creates a FileStore for the registry file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the registry file location.
func (s *FileStore) Path() string {
	return s.path
}

// Read decodes the registry file. It returns nil and no error if the file does not exist.
func (s *FileStore) Read() (*kb.Registry, error) {
	data, err := fs.ReadFileIfExists(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kb.ErrStorage, err)
	}
	if data == nil {
		return nil, nil
	}
	return Decode(data)
}

// Write encodes the registry and atomically replaces the registry file.
func (s *FileStore) Write(reg *kb.Registry) error {
	data, err := Encode(reg)
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing registry to %s: %w", s.path, err)
	}
	return nil
}

// Lock takes the advisory lock on the registry file.
func (s *FileStore) Lock() (func() error, error) {
	return fs.Lock(s.path)
}

// Decode parses registry JSON. Profile names are taken from the map keys.
func Decode(data []byte) (*kb.Registry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raw registryFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding registry: %w", kb.ErrStorage, err)
	}

	reg := kb.NewRegistry()
	reg.ActiveProfile = raw.ActiveProfile
	for name, p := range raw.Profiles {
		if name == "" {
			return nil, fmt.Errorf("%w: registry contains a profile with an empty name", kb.ErrStorage)
		}
		if p.DataPath == "" {
			return nil, fmt.Errorf("%w: profile %s has no data_path", kb.ErrStorage, name)
		}
		reg.Profiles[name] = &kb.Profile{
			Name:          name,
			DataPath:      p.DataPath,
			MasterKeyHash: p.MasterKey,
		}
	}
	return reg, nil
}

// Encode renders the registry as indented JSON.
func Encode(reg *kb.Registry) ([]byte, error) {
	raw := registryFile{
		ActiveProfile: reg.ActiveProfile,
		Profiles:      make(map[string]profileFile, len(reg.Profiles)),
	}
	for name, p := range reg.Profiles {
		raw.Profiles[name] = profileFile{DataPath: p.DataPath, MasterKey: p.MasterKeyHash}
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding registry: %w", err)
	}
	return append(data, '\n'), nil
}
