package vault

import (
	"errors"
	"testing"

	"keybin-go/internal/kb"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if vault, err := s.Read("/v.json"); err != nil || vault != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", vault, err)
	}

	vault := kb.NewVaultFile()
	vault.NextID = 1
	vault.Entries[1] = &kb.CredentialEntry{ID: 1, Service: "github"}
	if err := s.Write("/v.json", vault); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !s.Exists("/v.json") {
		t.Error("Exists() = false after Write")
	}

	vault.Entries[1].Service = "changed"
	got, err := s.Read("/v.json")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Entries[1].Service != "github" {
		t.Errorf("Service = %q, want %q", got.Entries[1].Service, "github")
	}

	if err := s.Remove("/v.json"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if s.Exists("/v.json") {
		t.Error("Exists() = true after Remove")
	}

	s.SetRaw("/bad.json", []byte("{"))
	if _, err := s.Read("/bad.json"); !errors.Is(err, kb.ErrStorage) {
		t.Errorf("Read() error = %v, want ErrStorage", err)
	}
}
