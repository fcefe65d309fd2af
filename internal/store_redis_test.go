package internal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Redis tests need a live server, e.g.
// SENTINELCTL_TEST_REDIS_URL=redis://localhost:6379/15
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	url := os.Getenv("SENTINELCTL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SENTINELCTL_TEST_REDIS_URL not set")
	}

	store, err := NewRedisStore(context.Background(), url, "test-"+t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Clear(context.Background())
		_ = store.Close()
	})
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	cred := &Credential{Session: "sess", AcctID: "4242", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Save(ctx, cred))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess", got.Session)

	ttl, err := store.cli.TTL(ctx, store.key).Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5, "key expires with the session")

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestRedisStore_ExpiredSessionIsNotKept(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)

	require.NoError(t, store.Save(ctx, &Credential{Session: "old", AcctID: "1", ExpiresAt: past}))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url", "x")

	assert.ErrorContains(t, err, "redis parse url")
}
