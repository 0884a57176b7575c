package feed

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/Luismorlan/socialmux/model"
)

func TestPageCacheRoundtrip(t *testing.T) {
	store := newFakeStore()
	cache := NewPageCache(store)
	ctx := context.Background()

	page := &model.FeedPage{
		Items: []model.FeedItem{
			{PostId: 100, AuthorId: 2, RankScore: 1.5, MediaUrls: []string{}},
		},
		NextCursor: &model.Cursor{RankScore: 1.49, PostId: 100, LastDateTime: "2024-05-01T12:00:00Z"},
	}

	cache.Put(ctx, "page:1:start:start:20", page)
	got := cache.Get(ctx, "page:1:start:start:20")
	assert.Empty(t, cmp.Diff(page, got))
}

func TestPageCacheMissAndCorruption(t *testing.T) {
	store := newFakeStore()
	cache := NewPageCache(store)
	ctx := context.Background()

	assert.Nil(t, cache.Get(ctx, "page:1:start:start:20"))

	store.strings["page:1:start:start:20"] = "{not json"
	assert.Nil(t, cache.Get(ctx, "page:1:start:start:20"))
}
