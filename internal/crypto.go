package internal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
)

// MinStoreKeyLength is the shortest store key accepted for sealing records.
const MinStoreKeyLength = 32

var errCipherTooShort = errors.New("cipher too short")

// Seal encrypts a stored record with AES-256-GCM. The nonce is prepended
// to the ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := aesgcm.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errCipherTooShort
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

// newGCM derives the AES key from the store key so any key of at least
// MinStoreKeyLength bytes is usable, not only exactly 32.
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) < MinStoreKeyLength {
		return nil, errors.New("store key must be at least 32 bytes")
	}
	sum := sha256.Sum256(key)
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
