package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/Luismorlan/socialmux/feed"
)

// RedisCacheStore is the production implementation of feed.CacheStore. It is
// constructed explicitly and injected into the indexer, counters and
// assembler instead of being reached through a package-level client.
type RedisCacheStore struct {
	inner *redis.Client
}

// GetRedisCacheStore connects to the Redis instance configured through env
// and verifies the connection with a ping.
func GetRedisCacheStore() (*RedisCacheStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, errors.Wrap(err, "fail to ping redis")
	}
	return NewRedisCacheStore(client), nil
}

// NewRedisCacheStore wraps an existing client, mainly for tests against
// miniredis-style servers.
func NewRedisCacheStore(client *redis.Client) *RedisCacheStore {
	return &RedisCacheStore{inner: client}
}

func (r *RedisCacheStore) Get(ctx context.Context, key string) (string, error) {
	v, err := r.inner.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", feed.ErrCacheMiss
	}
	return v, err
}

func (r *RedisCacheStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.inner.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCacheStore) Del(ctx context.Context, keys ...string) error {
	return r.inner.Del(ctx, keys...).Err()
}

func (r *RedisCacheStore) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return r.inner.IncrBy(ctx, key, delta).Result()
}

func (r *RedisCacheStore) HGet(ctx context.Context, key string, field string) (string, error) {
	v, err := r.inner.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", feed.ErrCacheMiss
	}
	return v, err
}

func (r *RedisCacheStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.inner.HGetAll(ctx, key).Result()
}

func (r *RedisCacheStore) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	return r.inner.HSet(ctx, key, fields).Err()
}

func (r *RedisCacheStore) HSetNX(ctx context.Context, key string, field string, value interface{}) (bool, error) {
	return r.inner.HSetNX(ctx, key, field, value).Result()
}

func (r *RedisCacheStore) HIncrBy(ctx context.Context, key string, field string, delta int64) (int64, error) {
	return r.inner.HIncrBy(ctx, key, field, delta).Result()
}

func (r *RedisCacheStore) HDel(ctx context.Context, key string, fields ...string) error {
	return r.inner.HDel(ctx, key, fields...).Err()
}

func (r *RedisCacheStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return r.inner.ZAdd(ctx, key, &redis.Z{Score: score, Member: member}).Err()
}

func (r *RedisCacheStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.inner.ZRevRange(ctx, key, start, stop).Result()
}

func (r *RedisCacheStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.inner.Expire(ctx, key, ttl).Err()
}
