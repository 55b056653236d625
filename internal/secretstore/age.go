package secretstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"

	"keybin-go/internal/fs"
	"keybin-go/internal/kb"
)

// AgeFileStore keeps secrets in a single age-encrypted JSON file for machines
// without a keyring daemon. The X25519 identity is generated on first use and
// stored unencrypted with 0600 permissions, so the file is only as private as
// the user's account.
type AgeFileStore struct {
	filePath string
	keyPath  string
}

var _ kb.SecretStore = (*AgeFileStore)(nil)

// NewAgeFileStore creates a store encrypting filePath with the identity at keyPath.
func NewAgeFileStore(filePath, keyPath string) *AgeFileStore {
	return &AgeFileStore{filePath: filePath, keyPath: keyPath}
}

func (s *AgeFileStore) Get(service, account string) (string, error) {
	unlock, err := fs.Lock(s.filePath)
	if err != nil {
		return "", err
	}
	defer unlock()

	secrets, err := s.load()
	if err != nil {
		return "", err
	}
	secret, ok := secrets[secretKey(service, account)]
	if !ok {
		return "", kb.ErrSecretNotFound
	}
	return secret, nil
}

// Set stores the secret. A secrets file that can not be decrypted is replaced
// by a fresh one holding only this secret.
func (s *AgeFileStore) Set(service, account, secret string) error {
	return s.update(true, func(secrets map[string]string) error {
		secrets[secretKey(service, account)] = secret
		return nil
	})
}

func (s *AgeFileStore) Delete(service, account string) error {
	return s.update(false, func(secrets map[string]string) error {
		key := secretKey(service, account)
		if _, ok := secrets[key]; !ok {
			return kb.ErrSecretNotFound
		}
		delete(secrets, key)
		return nil
	})
}

func (s *AgeFileStore) update(resetCorrupt bool, fn func(map[string]string) error) error {
	unlock, err := fs.Lock(s.filePath)
	if err != nil {
		return err
	}
	defer unlock()

	secrets, err := s.load()
	if resetCorrupt && errors.Is(err, kb.ErrStorage) {
		secrets, err = make(map[string]string), nil
	}
	if err != nil {
		return err
	}
	if err := fn(secrets); err != nil {
		return err
	}
	return s.save(secrets)
}

// load decrypts the secrets file. A missing file is an empty store; a file
// that does not decrypt or decode yields an error wrapping kb.ErrStorage.
func (s *AgeFileStore) load() (map[string]string, error) {
	secrets := make(map[string]string)

	ciphertext, err := fs.ReadFileIfExists(s.filePath)
	if err != nil {
		return nil, err
	}
	if ciphertext == nil {
		return secrets, nil
	}

	identity, err := s.identity()
	if err != nil {
		return nil, err
	}

	decReader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting secrets file: %w", kb.ErrStorage, err)
	}
	plaintext, err := io.ReadAll(decReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decrypted secrets: %w", kb.ErrStorage, err)
	}

	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, fmt.Errorf("%w: decoding secrets file: %w", kb.ErrStorage, err)
	}
	return secrets, nil
}

func (s *AgeFileStore) save(secrets map[string]string) error {
	identity, err := s.identity()
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("encoding secrets: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, identity.Recipient())
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return fmt.Errorf("encrypting secrets: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return fs.WriteFileAtomic(s.filePath, buf.Bytes(), 0600)
}

// identity loads the X25519 identity, generating and persisting one if none exists.
func (s *AgeFileStore) identity() (*age.X25519Identity, error) {
	data, err := fs.ReadFileIfExists(s.keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading session key: %w", err)
	}
	if data != nil {
		identity, err := age.ParseX25519Identity(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("parsing session key: %w", err)
		}
		return identity, nil
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	if err := fs.WriteFileAtomic(s.keyPath, []byte(identity.String()+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("writing session key: %w", err)
	}
	return identity, nil
}
