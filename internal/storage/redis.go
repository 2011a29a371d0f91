package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each record under "<prefix>:<namespace>:<key>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ticketdesk"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) redisKey(namespace, key string) string {
	return r.prefix + ":" + namespace + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.redisKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := validate(namespace, key); err != nil {
		return err
	}
	return r.client.Set(ctx, r.redisKey(namespace, key), value, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	return r.client.Del(ctx, r.redisKey(namespace, key)).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
