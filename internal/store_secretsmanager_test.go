package internal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSecretsManager keeps secrets in a map and fails like the real service
// when a secret does not exist.
type fakeSecretsManager struct {
	secrets map[string]string
	getErr  error
	creates int
}

func newFakeSecretsManager() *fakeSecretsManager {
	return &fakeSecretsManager{secrets: map[string]string{}}
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.secrets[aws.ToString(in.SecretId)]
	if !ok {
		return nil, &smtypes.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func (f *fakeSecretsManager) PutSecretValue(_ context.Context, in *secretsmanager.PutSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	name := aws.ToString(in.SecretId)
	if _, ok := f.secrets[name]; !ok {
		return nil, &smtypes.ResourceNotFoundException{Message: aws.String("not found")}
	}
	f.secrets[name] = aws.ToString(in.SecretString)
	return &secretsmanager.PutSecretValueOutput{}, nil
}

func (f *fakeSecretsManager) CreateSecret(_ context.Context, in *secretsmanager.CreateSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	f.creates++
	f.secrets[aws.ToString(in.Name)] = aws.ToString(in.SecretString)
	return &secretsmanager.CreateSecretOutput{}, nil
}

func (f *fakeSecretsManager) DeleteSecret(_ context.Context, in *secretsmanager.DeleteSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error) {
	name := aws.ToString(in.SecretId)
	if _, ok := f.secrets[name]; !ok {
		return nil, &smtypes.ResourceNotFoundException{Message: aws.String("not found")}
	}
	delete(f.secrets, name)
	return &secretsmanager.DeleteSecretOutput{}, nil
}

func TestSecretsManagerStore_RoundTrip(t *testing.T) {
	fake := newFakeSecretsManager()
	store := NewSecretsManagerStore(fake, "")
	ctx := context.Background()
	cred := &Credential{
		Session:   "sess",
		AcctID:    "4242",
		IssuedAt:  time.Unix(1767225600, 0).UTC(),
		ExpiresAt: time.Unix(1767225600+28800, 0).UTC(),
	}

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Save(ctx, cred))
	assert.Equal(t, 1, fake.creates, "first save creates the secret")
	assert.Contains(t, fake.secrets, DefaultSecretName)

	cred2 := *cred
	cred2.Session = "sess-2"
	require.NoError(t, store.Save(ctx, &cred2))
	assert.Equal(t, 1, fake.creates, "later saves put a new version")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-2", got.Session)
	assert.True(t, cred.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx), "clearing twice is fine")
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestSecretsManagerStore_LoadErrors(t *testing.T) {
	ctx := context.Background()

	fake := newFakeSecretsManager()
	fake.getErr = errors.New("access denied")
	_, err := NewSecretsManagerStore(fake, "custom").Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.ErrorContains(t, err, "access denied")

	fake = newFakeSecretsManager()
	fake.secrets["custom"] = "garbage"
	_, err = NewSecretsManagerStore(fake, "custom").Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}
