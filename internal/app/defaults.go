package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigPathEnv overrides the config file location.
	ConfigPathEnv = "KEYBIN_CONFIG_PATH"
	// HomeEnv overrides the directory holding profiles, vaults, logs and the journal.
	HomeEnv = "KEYBIN_HOME"
)

// GetDefaults returns the config file path, base directory and log directory.
// Each comes from its environment variable when set and otherwise lives under
// the user's home directory (~/.config/keybin.toml, ~/.local/share/keybin).
func GetDefaults() (map[string]string, error) {
	configPath, err := envOrHome(ConfigPathEnv, ".config", "keybin.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := envOrHome(HomeEnv, ".local", "share", "keybin")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// envOrHome returns the value of key, or elems joined under the home directory.
func envOrHome(key string, elems ...string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory (set %s): %w", key, err)
	}
	return filepath.Join(append([]string{home}, elems...)...), nil
}
