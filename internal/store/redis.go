package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists slots in redis, namespaced so the storefront and
// admin console never collide on keys. Values carry no TTL: client state
// survives until explicitly cleared, same as the file backend.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (r *RedisStore) Get(ctx context.Context, slot string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, slot string, data []byte) error {
	if err := r.client.Set(ctx, r.key(slot), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) key(slot string) string {
	return fmt.Sprintf("shopfront:%s:%s", r.namespace, slot)
}
