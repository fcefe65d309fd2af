package internal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// Store persists the single cached credential.
//
// Load returns an error matching ErrNoCredential when nothing usable is
// stored, whether the record is missing or malformed.
type Store interface {
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, cred *Credential) error
	Clear(ctx context.Context) error
}

// DefaultStorePath returns ~/.sentinelctl/creds.json.
func DefaultStorePath() string {
	return filepath.Join(configDir(), "creds.json")
}

// FileStore keeps the credential in a local JSON file. With a key the file
// holds the record sealed with AES-GCM instead of plain JSON.
type FileStore struct {
	path string
	key  []byte
}

// NewFileStore returns a FileStore at path. A nil key stores plain JSON.
func NewFileStore(path string, key []byte) *FileStore {
	return &FileStore{path: path, key: key}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (*Credential, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNoCredential, s.path, err)
	}

	if s.key != nil {
		sealed, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(b)))
		if err != nil {
			return nil, fmt.Errorf("%w: decode sealed record: %v", ErrNoCredential, err)
		}
		if b, err = Open(sealed, s.key); err != nil {
			return nil, fmt.Errorf("%w: open sealed record: %v", ErrNoCredential, err)
		}
	}

	return decodeCredential(b)
}

// Save replaces the record atomically: a crash leaves either the old or the
// new file, never a partial one.
func (s *FileStore) Save(ctx context.Context, cred *Credential) error {
	b, err := encodeCredential(cred)
	if err != nil {
		return err
	}

	if s.key != nil {
		sealed, err := Seal(b, s.key)
		if err != nil {
			return fmt.Errorf("seal credential: %w", err)
		}
		b = []byte(base64.StdEncoding.EncodeToString(sealed))
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

func encodeCredential(cred *Credential) ([]byte, error) {
	b, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode credential: %w", err)
	}
	return b, nil
}

// decodeCredential parses a stored record. Anything that could not have been
// written by Save is reported as ErrNoCredential.
func decodeCredential(b []byte) (*Credential, error) {
	var cred Credential
	if err := json.Unmarshal(b, &cred); err != nil {
		return nil, fmt.Errorf("%w: malformed record: %v", ErrNoCredential, err)
	}
	if cred.Session == "" || cred.AcctID.IsZero() || cred.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("%w: incomplete record", ErrNoCredential)
	}
	return &cred, nil
}
