package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores blobs as plain string keys under a prefix
type Redis struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedis wraps an existing client. Keys are stored as prefix+key.
func NewRedis(client *redis.Client, prefix string, timeout time.Duration) *Redis {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Redis{client: client, prefix: prefix, timeout: timeout}
}

// DialRedis connects to addr and verifies the server answers
func DialRedis(addr, prefix string, timeout time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	r := NewRedis(client, prefix, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return r, nil
}

func (r *Redis) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("get", key, err)
	}
	return value, true, nil
}

func (r *Redis) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	// No expiry: the blob is the source of truth, not a cache
	return wrap("set", key, r.client.Set(ctx, r.prefix+key, value, 0).Err())
}

func (r *Redis) Close() error {
	return r.client.Close()
}
