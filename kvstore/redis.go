package kvstore

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const scanBatchSize = 200

// RedisStore keeps every key as a plain Redis string without expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new RedisStore over an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// Get retrieves the value stored at key
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		log.Errorf("❌ RedisStore.Get: Error reading key=%s: %v", key, err)
		return "", false, unavailable("get", err)
	}
	return value, true, nil
}

// Set stores the value at key
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		log.Errorf("❌ RedisStore.Set: Error writing key=%s: %v", key, err)
		return unavailable("set", err)
	}
	return nil
}

// Remove deletes the given keys
func (s *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Errorf("❌ RedisStore.Remove: Error deleting %d keys: %v", len(keys), err)
		return unavailable("remove", err)
	}
	return nil
}

// ListKeys walks the keyspace with SCAN
func (s *RedisStore) ListKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	iter := s.client.Scan(ctx, 0, "*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Errorf("❌ RedisStore.ListKeys: Error scanning keys: %v", err)
		return nil, unavailable("list keys", err)
	}
	return keys, nil
}
