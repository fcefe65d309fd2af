package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sentinelctl:credential:"

// RedisStore caches the credential in Redis. The key expires together with
// the session.
type RedisStore struct {
	cli *redis.Client
	key string
	now func() time.Time
}

// NewRedisStore connects to url and verifies the connection.
func NewRedisStore(ctx context.Context, url, username string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{cli: cli, key: redisKeyPrefix + username, now: time.Now}, nil
}

func (s *RedisStore) Close() error {
	return s.cli.Close()
}

func (s *RedisStore) Load(ctx context.Context) (*Credential, error) {
	val, err := s.cli.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get: %v", ErrNoCredential, err)
	}
	return decodeCredential(val)
}

func (s *RedisStore) Save(ctx context.Context, cred *Credential) error {
	b, err := encodeCredential(cred)
	if err != nil {
		return err
	}
	ttl := cred.Remaining(s.now())
	if ttl <= 0 {
		return s.Clear(ctx)
	}
	if err := s.cli.Set(ctx, s.key, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.cli.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
