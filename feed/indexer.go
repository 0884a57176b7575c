package feed

import (
	"context"
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/pkg/errors"

	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils/log"
)

const (
	// SnapshotTTL is the retention window of a post snapshot. An index entry
	// whose snapshot has expired is skipped at read time.
	SnapshotTTL = 7 * 24 * time.Hour

	ddogFanoutTargets  = "socialmux.fanout.targets"
	ddogFanoutFailures = "socialmux.fanout.failures"
)

/*

Indexer is the fan-out-on-write side of the feed subsystem. On every
post-created or share event it upserts the denormalized post snapshot and
appends the post id to each follower's feed index, scored by the event
timestamp in milliseconds.

The whole handler is idempotent: redelivering an event rewrites the same
snapshot fields, leaves live counters untouched and results in the same
single sorted-set membership per follower.

*/
type Indexer struct {
	store     CacheStore
	profiles  ProfileResolver
	followers FollowerLister
	statsd    *statsd.Client
}

func NewIndexer(store CacheStore, profiles ProfileResolver, followers FollowerLister, statsd *statsd.Client) *Indexer {
	return &Indexer{
		store:     store,
		profiles:  profiles,
		followers: followers,
		statsd:    statsd,
	}
}

// OnPostEvent handles one post lifecycle event. It returns an error only for
// failures that abort the whole operation (unknown author, snapshot write
// failure); per-follower index failures are isolated and logged so one bad
// follower never aborts the batch. No relational write happens here.
func (ix *Indexer) OnPostEvent(ctx context.Context, event *model.PostEvent) error {
	if event.PostId == 0 || event.AuthorId == 0 || event.CreatedAt.IsZero() {
		return errors.Errorf("malformed post event: %+v", event)
	}

	profile, err := ix.profiles.Profile(ctx, event.AuthorId)
	if err != nil {
		return errors.Wrapf(err, "fail to resolve author %d for post %d", event.AuthorId, event.PostId)
	}

	snapshot := &model.PostSnapshot{
		PostId:          event.PostId,
		AuthorId:        event.AuthorId,
		AuthorName:      profile.Username,
		AuthorAvatarUrl: profile.ProfilePictureUrl,
		ContentSnippet:  model.Snippet(event.ContentSnippet),
		CreatedAt:       event.CreatedAt,
		MediaUrls:       event.MediaUrls,

		ParentPostId:          event.ParentPostId,
		ParentAuthorId:        event.ParentAuthorId,
		ParentAuthorName:      event.ParentAuthorName,
		ParentAuthorAvatarUrl: event.ParentAuthorAvatar,
		ParentContentSnippet:  model.Snippet(event.ParentContentSnippet),
	}
	if err := ix.upsertSnapshot(ctx, snapshot); err != nil {
		return errors.Wrapf(err, "fail to upsert snapshot for post %d", event.PostId)
	}

	followerIds, err := ix.followers.FollowerIds(ctx, event.AuthorId)
	if err != nil {
		return errors.Wrapf(err, "fail to list followers of author %d", event.AuthorId)
	}
	// The author sees their own posts too.
	targets := append(followerIds, event.AuthorId)

	score := float64(event.CreatedAt.UnixNano() / int64(time.Millisecond))
	member := strconv.FormatInt(event.PostId, 10)

	failures := 0
	for _, followerId := range targets {
		if followerId == 0 {
			continue
		}
		if err := ix.store.ZAdd(ctx, FeedKey(followerId), score, member); err != nil {
			failures++
			Log.Errorf("fail to index post %d into feed of user %d: %v", event.PostId, followerId, err)
		}
	}

	ix.statsd.Count(ddogFanoutTargets, int64(len(targets)), nil, 1)
	if failures > 0 {
		ix.statsd.Count(ddogFanoutFailures, int64(failures), nil, 1)
	}
	return nil
}

// upsertSnapshot writes the snapshot display fields, initializes counters only
// if absent and refreshes the retention TTL.
func (ix *Indexer) upsertSnapshot(ctx context.Context, snapshot *model.PostSnapshot) error {
	key := PostKey(snapshot.PostId)
	if err := ix.store.HSet(ctx, key, snapshot.HashFields()); err != nil {
		return err
	}
	for _, counter := range []string{model.CounterLike, model.CounterComment, model.CounterShare} {
		if _, err := ix.store.HSetNX(ctx, key, counter, "0"); err != nil {
			return err
		}
	}
	return ix.store.Expire(ctx, key, SnapshotTTL)
}
