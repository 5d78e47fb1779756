package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a BlobStore backed by Redis strings. It also carries the
// Pub/Sub side of the event mirror. Safe for concurrent use.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis with the given options. The connection is
// lazy; use Ping to verify it.
func NewRedisStore(opts *redis.Options) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(opts)}
}

// NewRedisStoreFromURL parses a redis:// URL and connects.
func NewRedisStoreFromURL(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisStore(opts), nil
}

// Close closes the Redis connection. Implements io.Closer.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// RedisClient exposes the underlying client for direct commands.
func (s *RedisStore) RedisClient() *redis.Client {
	return s.rdb
}

// Get implements BlobStore.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s from Redis: %w", key, err)
	}
	return data, nil
}

// Set implements BlobStore.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to Redis: %w", key, err)
	}
	return nil
}

// Publish sends a raw message on a Pub/Sub channel.
func (s *RedisStore) Publish(ctx context.Context, channel string, message []byte) error {
	if err := s.rdb.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}
