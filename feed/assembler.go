package feed

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/araddon/dateparse"
	"github.com/jinzhu/copier"

	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils/log"
)

const (
	// DefaultPageSize is returned for absent or invalid limits.
	DefaultPageSize = 20
	// MaxPageSize is the hard page size cap; larger requests are clamped.
	MaxPageSize = 100
	// CandidatePoolSize is how many most-recent index entries are pulled per
	// request before dynamic re-scoring.
	CandidatePoolSize = 100

	ddogPageHit  = "socialmux.feed.page_hit"
	ddogPageMiss = "socialmux.feed.page_miss"
)

/*

Assembler is the feed read path. Per request it pulls a bounded candidate
pool from the requester's feed index, hydrates post snapshots (falling back
to the relational source on a full miss), scores every candidate with the
injected ranking strategy, sorts by (score desc, postId desc) and applies
cursor pagination, caching the final page briefly.

The feed is best effort by contract: any per-candidate failure drops that
candidate, and any top-level failure collapses to an empty page with a nil
cursor. GetFeed never returns an error.

*/
type Assembler struct {
	store    CacheStore
	counters *Counters
	ranker   Ranker
	posts    PostSource
	pages    *PageCache
	statsd   *statsd.Client

	poolSize int
	now      func() time.Time
}

// NewAssembler wires the read path. A nil ranker falls back to the default
// weights; posts may be nil when no relational fallback is available.
func NewAssembler(store CacheStore, counters *Counters, ranker Ranker, posts PostSource, statsdClient *statsd.Client) *Assembler {
	if ranker == nil {
		ranker = DefaultRanker()
	}
	return &Assembler{
		store:    store,
		counters: counters,
		ranker:   ranker,
		posts:    posts,
		pages:    NewPageCache(store),
		statsd:   statsdClient,
		poolSize: CandidatePoolSize,
		now:      time.Now,
	}
}

// GetFeed assembles one feed page for the user. sessionBoundary is the
// client's last-seen post time; when parsable, posts created strictly after
// it jump the cursor filter.
func (a *Assembler) GetFeed(ctx context.Context, userId int64, cursor *model.Cursor, sessionBoundary string, limit int) *model.FeedPage {
	limit = clampLimit(limit)

	cacheKey := PageKey(userId, cursor, limit)
	if page := a.pages.Get(ctx, cacheKey); page != nil {
		a.statsd.Incr(ddogPageHit, nil, 1)
		return page
	}
	a.statsd.Incr(ddogPageMiss, nil, 1)

	candidateIds, err := a.store.ZRevRange(ctx, FeedKey(userId), 0, int64(a.poolSize-1))
	if err != nil {
		Log.Errorf("fail to fetch feed index of user %d: %v", userId, err)
		return emptyPage()
	}

	scored := a.hydrateAndScore(ctx, userId, candidateIds)
	if len(scored) == 0 {
		return emptyPage()
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].RankScore != scored[j].RankScore {
			return scored[i].RankScore > scored[j].RankScore
		}
		return scored[i].PostId > scored[j].PostId
	})

	var boundary *time.Time
	if sessionBoundary != "" {
		if t, err := dateparse.ParseAny(sessionBoundary); err == nil {
			boundary = &t
		}
	}

	page := &model.FeedPage{Items: applyCursorAndLimit(scored, cursor, boundary, limit)}
	page.NextCursor = buildNextCursor(page.Items)

	a.pages.Put(ctx, cacheKey, page)
	return page
}

// hydrateAndScore loads and scores the candidate pool. Candidates with a
// missing or unreadable snapshot are dropped silently.
func (a *Assembler) hydrateAndScore(ctx context.Context, userId int64, candidateIds []string) []model.FeedItem {
	now := a.now()
	items := make([]model.FeedItem, 0, len(candidateIds))

	for _, idStr := range candidateIds {
		postId, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}

		snapshot := a.loadSnapshot(ctx, postId)
		if snapshot == nil {
			continue
		}

		viewer := ViewerContext{UserId: userId}
		if snapshot.AuthorId != userId {
			viewer.Affinity, viewer.AffinityKnown = a.counters.AffinityOf(ctx, userId, snapshot.AuthorId)
		}

		var item model.FeedItem
		if err := copier.Copy(&item, snapshot); err != nil {
			Log.Errorf("fail to project snapshot %d: %v", postId, err)
			continue
		}
		item.PostId = postId
		item.CreatedAt = snapshot.CreatedAt.UTC().Format(time.RFC3339Nano)
		item.RankScore = a.ranker.Score(snapshot, viewer, now)
		if math.IsInf(item.RankScore, 0) || math.IsNaN(item.RankScore) {
			// A non-finite score cannot be serialized into the page cache or
			// the JSON response; drop the candidate instead of the page.
			Log.Errorf("drop post %d with non-finite rank score", postId)
			continue
		}
		item.MyReactionType = a.counters.ReactionOf(ctx, postId, userId)
		if item.MediaUrls == nil {
			item.MediaUrls = []string{}
		}
		items = append(items, item)
	}
	return items
}

// loadSnapshot reads a post snapshot, rehydrating it from the relational
// source on a full miss. Rehydration rewrites the cached counters with the
// authoritative relational counts; cached drift is discarded. A nil return
// means the candidate should be skipped.
func (a *Assembler) loadSnapshot(ctx context.Context, postId int64) *model.PostSnapshot {
	key := PostKey(postId)
	hash, err := a.store.HGetAll(ctx, key)
	if err != nil {
		Log.Errorf("fail to fetch snapshot of post %d: %v", postId, err)
		return nil
	}

	if len(hash) == 0 {
		return a.rehydrate(ctx, postId)
	}

	snapshot, err := model.SnapshotFromHash(postId, hash)
	if err != nil {
		Log.Errorf("drop unreadable snapshot: %v", err)
		return nil
	}
	return snapshot
}

func (a *Assembler) rehydrate(ctx context.Context, postId int64) *model.PostSnapshot {
	if a.posts == nil {
		return nil
	}
	snapshot, err := a.posts.PostById(ctx, postId)
	if err != nil {
		Log.Errorf("fail to rehydrate post %d: %v", postId, err)
		return nil
	}
	if snapshot == nil {
		return nil
	}

	key := PostKey(postId)
	if err := a.store.HSet(ctx, key, snapshot.HashFields()); err != nil {
		Log.Errorf("fail to write rehydrated snapshot %d: %v", postId, err)
		return snapshot
	}
	if err := a.store.HSet(ctx, key, snapshot.CounterFields()); err != nil {
		Log.Errorf("fail to write rehydrated counters of post %d: %v", postId, err)
	}
	if err := a.store.Expire(ctx, key, SnapshotTTL); err != nil {
		Log.Errorf("fail to set TTL on rehydrated snapshot %d: %v", postId, err)
	}
	return snapshot
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func emptyPage() *model.FeedPage {
	return &model.FeedPage{Items: []model.FeedItem{}, NextCursor: nil}
}
