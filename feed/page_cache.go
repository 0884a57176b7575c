package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils/log"
)

// PageCacheTTL is deliberately short: the page cache only absorbs rapid
// repeated scroll requests, it is not a freshness boundary.
const PageCacheTTL = 15 * time.Second

// PageCache stores fully assembled feed pages as JSON for a short TTL. Every
// operation is best effort: a cache failure degrades to a recompute, never to
// a request failure.
type PageCache struct {
	store CacheStore
	ttl   time.Duration
}

func NewPageCache(store CacheStore) *PageCache {
	return &PageCache{store: store, ttl: PageCacheTTL}
}

// Get returns the cached page for the key, or nil on a miss, an unreadable
// payload or any store failure.
func (p *PageCache) Get(ctx context.Context, key string) *model.FeedPage {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		return nil
	}
	var page model.FeedPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		Log.Errorf("fail to decode cached feed page %s: %v", key, err)
		return nil
	}
	return &page
}

// Put caches an assembled page, logging and swallowing any failure.
func (p *PageCache) Put(ctx context.Context, key string, page *model.FeedPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		Log.Errorf("fail to encode feed page %s: %v", key, err)
		return
	}
	if err := p.store.Set(ctx, key, string(raw), p.ttl); err != nil {
		Log.Errorf("fail to cache feed page %s: %v", key, err)
	}
}
