package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"keybin-go/internal/kb"
)

// createdAtLayout matches the timestamps the vault file has always carried.
const createdAtLayout = "2006-01-02T15:04:05.000000-07:00"

// vaultFile is the on-disk JSON shape of a profile vault.
type vaultFile struct {
	CurrentLogID int64                `json:"currentLogId"`
	Logs         map[string]entryFile `json:"logs"`
}

// entryFile stores absent fields as JSON null.
type entryFile struct {
	LogID     int64    `json:"logID"`
	Service   *string  `json:"service"`
	User      *string  `json:"user"`
	Email     *string  `json:"email"`
	Password  *string  `json:"password"`
	Tags      []string `json:"tags"`
	CreatedAt *string  `json:"createdAt"`
}

// Decode parses vault JSON.
func Decode(data []byte) (*kb.VaultFile, error) {
	var raw vaultFile
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding vault: %w", kb.ErrStorage, err)
	}
	if raw.CurrentLogID < 0 {
		return nil, fmt.Errorf("%w: negative currentLogId %d", kb.ErrStorage, raw.CurrentLogID)
	}

	vault := kb.NewVaultFile()
	vault.NextID = raw.CurrentLogID
	for key, e := range raw.Logs {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id != e.LogID || id <= 0 {
			return nil, fmt.Errorf("%w: log key %q does not match logID %d", kb.ErrStorage, key, e.LogID)
		}
		if id > vault.NextID {
			return nil, fmt.Errorf("%w: logID %d is beyond currentLogId %d", kb.ErrStorage, id, vault.NextID)
		}

		entry := &kb.CredentialEntry{
			ID:       id,
			Service:  deref(e.Service),
			User:     deref(e.User),
			Email:    deref(e.Email),
			Password: deref(e.Password),
			Tags:     e.Tags,
		}
		if e.CreatedAt != nil && *e.CreatedAt != "" {
			ts, err := time.Parse(time.RFC3339Nano, *e.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("%w: log %d createdAt: %w", kb.ErrStorage, id, err)
			}
			entry.CreatedAt = ts.UTC()
		}
		vault.Entries[id] = entry
	}
	return vault, nil
}

// Encode renders the vault as indented JSON with entries keyed by id.
func Encode(vault *kb.VaultFile) ([]byte, error) {
	raw := vaultFile{
		CurrentLogID: vault.NextID,
		Logs:         make(map[string]entryFile, len(vault.Entries)),
	}
	for id, e := range vault.Entries {
		ef := entryFile{
			LogID:    id,
			Service:  ref(e.Service),
			User:     ref(e.User),
			Email:    ref(e.Email),
			Password: ref(e.Password),
		}
		if len(e.Tags) > 0 {
			ef.Tags = e.Tags
		}
		if !e.CreatedAt.IsZero() {
			ef.CreatedAt = ref(e.CreatedAt.UTC().Format(createdAtLayout))
		}
		raw.Logs[strconv.FormatInt(id, 10)] = ef
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding vault: %w", err)
	}
	return append(data, '\n'), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
