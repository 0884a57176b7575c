package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeStore is an in-memory CacheStore for tests. Operations named in failOn
// return the injected error instead of touching state.
type fakeStore struct {
	mu sync.Mutex

	strings map[string]string
	hashes  map[string]map[string]string
	zsets   map[string]map[string]float64

	failOn map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
		zsets:   make(map[string]map[string]float64),
		failOn:  make(map[string]error),
	}
}

func (f *fakeStore) fail(op string) error {
	return f.failOn[op]
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Get"); err != nil {
		return "", err
	}
	v, ok := f.strings[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Set"); err != nil {
		return err
	}
	f.strings[key] = value
	return nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Del"); err != nil {
		return err
	}
	for _, key := range keys {
		delete(f.strings, key)
		delete(f.hashes, key)
		delete(f.zsets, key)
	}
	return nil
}

func (f *fakeStore) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("IncrBy"); err != nil {
		return 0, err
	}
	next := parseCount(f.strings[key]) + delta
	f.strings[key] = fmt.Sprintf("%d", next)
	return next, nil
}

func (f *fakeStore) HGet(ctx context.Context, key string, field string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HGet"); err != nil {
		return "", err
	}
	v, ok := f.hashes[key][field]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (f *fakeStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HGetAll"); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(f.hashes[key]))
	for field, v := range f.hashes[key] {
		out[field] = v
	}
	return out, nil
}

func (f *fakeStore) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HSet"); err != nil {
		return err
	}
	hash := f.hash(key)
	for field, v := range fields {
		hash[field] = fmt.Sprintf("%v", v)
	}
	return nil
}

func (f *fakeStore) HSetNX(ctx context.Context, key string, field string, value interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HSetNX"); err != nil {
		return false, err
	}
	hash := f.hash(key)
	if _, ok := hash[field]; ok {
		return false, nil
	}
	hash[field] = fmt.Sprintf("%v", value)
	return true, nil
}

func (f *fakeStore) HIncrBy(ctx context.Context, key string, field string, delta int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HIncrBy"); err != nil {
		return 0, err
	}
	hash := f.hash(key)
	next := parseCount(hash[field]) + delta
	hash[field] = fmt.Sprintf("%d", next)
	return next, nil
}

func (f *fakeStore) HDel(ctx context.Context, key string, fields ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("HDel"); err != nil {
		return err
	}
	for _, field := range fields {
		delete(f.hashes[key], field)
	}
	return nil
}

func (f *fakeStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ZAdd"); err != nil {
		return err
	}
	zset, ok := f.zsets[key]
	if !ok {
		zset = make(map[string]float64)
		f.zsets[key] = zset
	}
	zset[member] = score
	return nil
}

func (f *fakeStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ZRevRange"); err != nil {
		return nil, err
	}
	members := make([]string, 0, len(f.zsets[key]))
	for member := range f.zsets[key] {
		members = append(members, member)
	}
	zset := f.zsets[key]
	sort.Slice(members, func(i, j int) bool {
		if zset[members[i]] != zset[members[j]] {
			return zset[members[i]] > zset[members[j]]
		}
		return members[i] > members[j]
	})
	if start >= int64(len(members)) {
		return []string{}, nil
	}
	if stop >= int64(len(members)) {
		stop = int64(len(members)) - 1
	}
	return members[start : stop+1], nil
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail("Expire")
}

func (f *fakeStore) hash(key string) map[string]string {
	hash, ok := f.hashes[key]
	if !ok {
		hash = make(map[string]string)
		f.hashes[key] = hash
	}
	return hash
}

func parseCount(s string) int64 {
	var v int64
	fmt.Sscanf(s, "%d", &v)
	return v
}
