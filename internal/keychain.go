//go:build darwin

package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/keybase/go-keychain"
)

const KeychainService = "sentinelctl"

// KeychainStore keeps the credential in the macOS login keychain.
type KeychainStore struct {
	account string
}

func NewKeychainStore(account string) (*KeychainStore, error) {
	if account == "" {
		return nil, errors.New("keychain store needs an account name")
	}
	return &KeychainStore{account: account}, nil
}

func (s *KeychainStore) Load(ctx context.Context) (*Credential, error) {
	query := keychain.NewItem()
	query.SetSecClass(keychain.SecClassGenericPassword)
	query.SetService(KeychainService)
	query.SetAccount(s.account)
	query.SetMatchLimit(keychain.MatchLimitOne)
	query.SetReturnData(true)

	results, err := keychain.QueryItem(query)
	if err != nil {
		return nil, fmt.Errorf("%w: keychain query: %v", ErrNoCredential, err)
	} else if len(results) != 1 {
		return nil, ErrNoCredential
	}

	return decodeCredential(results[0].Data)
}

func (s *KeychainStore) Save(ctx context.Context, cred *Credential) error {
	b, err := encodeCredential(cred)
	if err != nil {
		return err
	}

	item := keychain.NewItem()
	item.SetSecClass(keychain.SecClassGenericPassword)
	item.SetService(KeychainService)
	item.SetAccount(s.account)
	item.SetLabel("Sentinel session")
	item.SetData(b)
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleWhenUnlocked)

	// Replace any previous session.
	keychain.DeleteItem(item)

	if err := keychain.AddItem(item); err != nil {
		return fmt.Errorf("failed to save to keychain: %w", err)
	}
	return nil
}

func (s *KeychainStore) Clear(ctx context.Context) error {
	item := keychain.NewItem()
	item.SetSecClass(keychain.SecClassGenericPassword)
	item.SetService(KeychainService)
	item.SetAccount(s.account)

	err := keychain.DeleteItem(item)
	if err != nil && !errors.Is(err, keychain.ErrorItemNotFound) {
		return fmt.Errorf("failed to delete from keychain: %w", err)
	}
	return nil
}
