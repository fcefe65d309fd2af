package internal

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/natefinch/atomic"
)

// PasswordEnv overrides the KMS-decrypted password, mainly for local runs.
const PasswordEnv = "SENTINELCTL_PASSWORD"

// SecretProvider yields the account password. Implementations must not
// persist it.
type SecretProvider interface {
	Secret(ctx context.Context) (string, error)
}

// KMSAPI is the subset of the KMS client used here.
type KMSAPI interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
}

// DefaultCiphertextPath returns ~/.sentinelctl/encrypted_controls.pem.
func DefaultCiphertextPath() string {
	return filepath.Join(configDir(), "encrypted_controls.pem")
}

// StaticSecret is a password known up front.
type StaticSecret string

func (s StaticSecret) Secret(ctx context.Context) (string, error) {
	if s == "" {
		return "", errors.New("empty password")
	}
	return string(s), nil
}

// KMSSecret decrypts the packaged ciphertext file with KMS.
type KMSSecret struct {
	client KMSAPI
	path   string
}

func NewKMSSecret(client KMSAPI, ciphertextPath string) *KMSSecret {
	return &KMSSecret{client: client, path: ciphertextPath}
}

func (s *KMSSecret) Secret(ctx context.Context) (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read ciphertext: %w", err)
	}
	blob, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(b)))
	if err != nil {
		return "", fmt.Errorf("decode ciphertext %s: %w", s.path, err)
	}

	out, err := s.client.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: blob})
	if err != nil {
		return "", fmt.Errorf("kms decrypt: %w", err)
	}
	if !utf8.Valid(out.Plaintext) {
		return "", errors.New("kms decrypt: plaintext is not valid UTF-8")
	}
	return string(out.Plaintext), nil
}

// EncryptSecret encrypts plaintext under keyID and returns the base64 text
// that KMSSecret expects to find in the ciphertext file.
func EncryptSecret(ctx context.Context, client KMSAPI, keyID, plaintext string) (string, error) {
	if keyID == "" {
		return "", errors.New("kms key id is required")
	}
	out, err := client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(keyID),
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", fmt.Errorf("kms encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out.CiphertextBlob), nil
}

// WriteCiphertext stores the base64 ciphertext produced by EncryptSecret at
// path, replacing any previous file in one step.
func WriteCiphertext(path, encoded string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create ciphertext dir: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(encoded+"\n")); err != nil {
		return fmt.Errorf("write ciphertext %s: %w", path, err)
	}
	return nil
}

// ResolveSecret picks the password source: the environment override when
// set, otherwise KMS.
func ResolveSecret(client KMSAPI, ciphertextPath string) SecretProvider {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return StaticSecret(pw)
	}
	return NewKMSSecret(client, ciphertextPath)
}
