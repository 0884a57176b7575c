package feed

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrCacheMiss is returned by CacheStore reads when the key or hash field does
// not exist. Callers on the feed read path treat it as "not indexed yet" and
// degrade, never fail.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the capability surface the feed subsystem needs from its
// key/value store. It is an explicit dependency injected into the indexer,
// counters and assembler so that no component reaches for a client singleton.
//
// Increment operations must be atomic at the store level: concurrent counter
// mutations on the same post must never lose an update.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	HGet(ctx context.Context, key string, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]interface{}) error
	HSetNX(ctx context.Context, key string, field string, value interface{}) (bool, error)
	HIncrBy(ctx context.Context, key string, field string, delta int64) (int64, error)
	HDel(ctx context.Context, key string, fields ...string) error

	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
}
