package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for keybin.
type Config struct {
	BaseDir      string        `toml:"base_dir"`
	DataDir      string        `toml:"data_dir"`      // default location of profile vaults
	RegistryPath string        `toml:"registry_path"` // profiles.json
	LogDir       string        `toml:"log_dir"`
	LogLevel     string        `toml:"log_level"` // "debug", "info", "warn" or "error"
	Session      SessionConfig `toml:"session"`
	Hashing      HashingConfig `toml:"hashing"`
	Journal      JournalConfig `toml:"journal"`
}

// SessionConfig selects where session records are kept.
// This uses a tagged union pattern - the Store field determines which other fields are relevant.
type SessionConfig struct {
	Store string `toml:"store"` // "keyring" (default), "file" or "memory"

	// File-specific fields (only used when Store == "file")
	FilePath string `toml:"file_path,omitempty"`
	KeyPath  string `toml:"key_path,omitempty"`
}

// HashingConfig holds master key hashing settings.
type HashingConfig struct {
	BcryptCost int `toml:"bcrypt_cost"`
}

// JournalConfig represents configuration for the operation journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type JournalConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a Config rooted at baseDir with default paths and settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:      baseDir,
		DataDir:      filepath.Join(baseDir, "data"),
		RegistryPath: filepath.Join(baseDir, "profiles.json"),
		LogDir:       filepath.Join(baseDir, "log"),
		LogLevel:     "info",
		Session: SessionConfig{
			Store:    "keyring",
			FilePath: filepath.Join(baseDir, "sessions.age"),
			KeyPath:  filepath.Join(baseDir, "keys", "session.key"),
		},
		Hashing: HashingConfig{BcryptCost: 12},
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
// Settings missing from the file keep the defaults for baseDir.
func ReadFromFile(path, baseDir string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := NewConfig(baseDir)
	if _, err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path, falling back to the defaults for baseDir
// when no config file exists.
func Load(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path, baseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(baseDir), nil
	}
	return cfg, err
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
