package secretstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"keybin-go/internal/config"
	"keybin-go/internal/kb"
)

// exerciseStore runs the common contract against any kb.SecretStore.
func exerciseStore(t *testing.T, s kb.SecretStore) {
	t.Helper()

	if _, err := s.Get("svc", "alice"); !errors.Is(err, kb.ErrSecretNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrSecretNotFound", err)
	}

	if err := s.Set("svc", "alice", "token-1:1700000000"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("svc", "bob", "other"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get("svc", "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "token-1:1700000000" {
		t.Errorf("Get() = %q, want %q", got, "token-1:1700000000")
	}

	if err := s.Set("svc", "alice", "token-2:1700000100"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if got, _ := s.Get("svc", "alice"); got != "token-2:1700000100" {
		t.Errorf("Get() after overwrite = %q, want %q", got, "token-2:1700000100")
	}

	if err := s.Delete("svc", "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get("svc", "alice"); !errors.Is(err, kb.ErrSecretNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrSecretNotFound", err)
	}
	if err := s.Delete("svc", "alice"); !errors.Is(err, kb.ErrSecretNotFound) {
		t.Errorf("second Delete() error = %v, want ErrSecretNotFound", err)
	}

	if got, err := s.Get("svc", "bob"); err != nil || got != "other" {
		t.Errorf("Get(bob) = %q, %v, want %q", got, err, "other")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	exerciseStore(t, NewKeyringStore())
}

func TestAgeFileStore(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "sessions.age")
	keyPath := filepath.Join(dir, "keys", "session.key")

	exerciseStore(t, NewAgeFileStore(filePath, keyPath))

	t.Run("files are private and encrypted", func(t *testing.T) {
		for _, p := range []string{filePath, keyPath} {
			info, err := os.Stat(p)
			if err != nil {
				t.Fatalf("Stat(%s) error = %v", p, err)
			}
			if perm := info.Mode().Perm(); perm != 0600 {
				t.Errorf("%s permissions = %o, want 600", p, perm)
			}
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if strings.Contains(string(data), "other") || strings.Contains(string(data), "svc/bob") {
			t.Error("secrets file contains plaintext")
		}

		key, err := os.ReadFile(keyPath)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !strings.HasPrefix(string(key), "AGE-SECRET-KEY-") {
			t.Errorf("key file = %q, want AGE-SECRET-KEY- prefix", key)
		}
	})

	t.Run("reopened store reads existing secrets", func(t *testing.T) {
		s := NewAgeFileStore(filePath, keyPath)
		got, err := s.Get("svc", "bob")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "other" {
			t.Errorf("Get() = %q, want %q", got, "other")
		}
	})

	t.Run("wrong key fails to decrypt", func(t *testing.T) {
		other := NewAgeFileStore(filePath, filepath.Join(dir, "keys", "other.key"))
		if _, err := other.Get("svc", "bob"); !errors.Is(err, kb.ErrStorage) {
			t.Errorf("Get() with wrong key error = %v, want ErrStorage", err)
		}
	})
}

func TestAgeFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "sessions.age")
	s := NewAgeFileStore(filePath, filepath.Join(dir, "session.key"))

	if err := os.WriteFile(filePath, []byte("not an age file"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get("svc", "alice"); !errors.Is(err, kb.ErrStorage) {
		t.Errorf("Get() error = %v, want ErrStorage", err)
	}
	if err := s.Delete("svc", "alice"); !errors.Is(err, kb.ErrStorage) {
		t.Errorf("Delete() error = %v, want ErrStorage", err)
	}

	if err := s.Set("svc", "alice", "token-1:1700000000"); err != nil {
		t.Fatalf("Set() on corrupt file error = %v", err)
	}
	got, err := s.Get("svc", "alice")
	if err != nil {
		t.Fatalf("Get() after reset error = %v", err)
	}
	if got != "token-1:1700000000" {
		t.Errorf("Get() = %q, want %q", got, "token-1:1700000000")
	}
}

func TestNewSecretStoreFromConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.SessionConfig
		want    string
		wantErr bool
	}{
		{name: "default is keyring", cfg: config.SessionConfig{}, want: "*secretstore.KeyringStore"},
		{name: "keyring", cfg: config.SessionConfig{Store: "keyring"}, want: "*secretstore.KeyringStore"},
		{name: "memory", cfg: config.SessionConfig{Store: "memory"}, want: "*secretstore.MemoryStore"},
		{
			name: "file",
			cfg: config.SessionConfig{
				Store:    "file",
				FilePath: filepath.Join(dir, "s.age"),
				KeyPath:  filepath.Join(dir, "s.key"),
			},
			want: "*secretstore.AgeFileStore",
		},
		{name: "file without paths", cfg: config.SessionConfig{Store: "file"}, wantErr: true},
		{name: "unknown", cfg: config.SessionConfig{Store: "vault"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSecretStoreFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSecretStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if got != nil {
					t.Errorf("NewSecretStoreFromConfig() = %v, want nil", got)
				}
				return
			}
			if typeName := typeOf(got); typeName != tt.want {
				t.Errorf("type = %s, want %s", typeName, tt.want)
			}
		})
	}
}

func typeOf(v any) string {
	switch v.(type) {
	case *KeyringStore:
		return "*secretstore.KeyringStore"
	case *MemoryStore:
		return "*secretstore.MemoryStore"
	case *AgeFileStore:
		return "*secretstore.AgeFileStore"
	default:
		return "unknown"
	}
}
