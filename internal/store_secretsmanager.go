package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// DefaultSecretName is the Secrets Manager secret holding the cached session.
const DefaultSecretName = "sentinelctl/credential"

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
}

// SecretsManagerStore caches the credential in AWS Secrets Manager so that
// short-lived Lambda invocations can share one session.
type SecretsManagerStore struct {
	client SecretsManagerAPI
	name   string
}

func NewSecretsManagerStore(client SecretsManagerAPI, name string) *SecretsManagerStore {
	if name == "" {
		name = DefaultSecretName
	}
	return &SecretsManagerStore{client: client, name: name}
}

func (s *SecretsManagerStore) Load(ctx context.Context) (*Credential, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.name),
	})
	if err != nil {
		var notFound *smtypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, ErrNoCredential
		}
		return nil, fmt.Errorf("%w: get secret %s: %v", ErrNoCredential, s.name, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("%w: secret %s has no string value", ErrNoCredential, s.name)
	}
	return decodeCredential([]byte(*out.SecretString))
}

// Save writes a new secret version, creating the secret on first use.
func (s *SecretsManagerStore) Save(ctx context.Context, cred *Credential) error {
	b, err := encodeCredential(cred)
	if err != nil {
		return err
	}

	_, err = s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(s.name),
		SecretString: aws.String(string(b)),
	})
	var notFound *smtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		_, err = s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
			Name:         aws.String(s.name),
			Description:  aws.String("Cached Sensaphone Sentinel session"),
			SecretString: aws.String(string(b)),
		})
	}
	if err != nil {
		return fmt.Errorf("save secret %s: %w", s.name, err)
	}
	return nil
}

func (s *SecretsManagerStore) Clear(ctx context.Context) error {
	_, err := s.client.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(s.name),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	var notFound *smtypes.ResourceNotFoundException
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("delete secret %s: %w", s.name, err)
	}
	return nil
}
