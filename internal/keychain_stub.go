//go:build !darwin

package internal

import (
	"context"
	"fmt"
)

const KeychainService = "sentinelctl"

// KeychainStore stub for non-macOS
type KeychainStore struct{}

func NewKeychainStore(account string) (*KeychainStore, error) {
	return nil, fmt.Errorf("keychain integration is only supported on macOS")
}

func (s *KeychainStore) Load(ctx context.Context) (*Credential, error) {
	return nil, fmt.Errorf("%w: keychain integration is only supported on macOS", ErrNoCredential)
}

func (s *KeychainStore) Save(ctx context.Context, cred *Credential) error {
	return fmt.Errorf("keychain integration is only supported on macOS")
}

func (s *KeychainStore) Clear(ctx context.Context) error {
	return fmt.Errorf("keychain integration is only supported on macOS")
}
