package feed

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils/log"
)

/*

Counters owns all in-place counter mutations on cached posts: the per-post
like/comment/share counts, the per-viewer reaction record and the pairwise
actor/author affinity signal.

All count mutations go through the store's atomic increment primitives.
Reading a viewer's previous reaction before writing is safe because that
field is private to the (post, viewer) pair; counts shared across viewers are
never read-modify-written.

*/
type Counters struct {
	store CacheStore
}

func NewCounters(store CacheStore) *Counters {
	return &Counters{store: store}
}

// PostAuthor resolves the author id recorded in a post snapshot. Returns
// ErrCacheMiss when the snapshot is absent or carries no author.
func (c *Counters) PostAuthor(ctx context.Context, postId int64) (int64, error) {
	v, err := c.store.HGet(ctx, PostKey(postId), "authorId")
	if err != nil {
		return 0, err
	}
	authorId, err := strconv.ParseInt(v, 10, 64)
	if err != nil || authorId == 0 {
		return 0, ErrCacheMiss
	}
	return authorId, nil
}

// IncrementIfNotSelf bumps the named comment or share counter by one, unless
// the actor is the post's author: self-interactions must not inflate one's
// own ranking signal. Any cross-author interaction also feeds the affinity
// counter.
func (c *Counters) IncrementIfNotSelf(ctx context.Context, counter string, postId, actorId, authorId int64) error {
	if counter != model.CounterComment && counter != model.CounterShare {
		return errors.Errorf("unknown interaction counter %q", counter)
	}
	if actorId == authorId {
		return nil
	}
	if _, err := c.store.HIncrBy(ctx, PostKey(postId), counter, 1); err != nil {
		return errors.Wrapf(err, "fail to increment %s on post %d", counter, postId)
	}
	c.bumpAffinity(ctx, actorId, authorId)
	return nil
}

// SetReaction records the viewer's reaction on a post and keeps the like
// counter consistent with it:
//
//	none    -> nonzero  records the reaction, likeCount +1
//	nonzero -> other    overwrites the record only
//	nonzero -> none     removes the record, likeCount -1
//	same    -> same     no-op
func (c *Counters) SetReaction(ctx context.Context, postId, userId, reaction int64) error {
	if reaction < model.ReactionNone || reaction > model.ReactionAngry {
		return errors.Errorf("invalid reaction type %d", reaction)
	}

	key := ReactionsKey(postId)
	field := strconv.FormatInt(userId, 10)

	previous := int64(0)
	if v, err := c.store.HGet(ctx, key, field); err == nil {
		previous = safeReaction(v)
	} else if errors.Cause(err) != ErrCacheMiss {
		return errors.Wrapf(err, "fail to read reaction of user %d on post %d", userId, postId)
	}

	switch {
	case previous == reaction:
		return nil

	case previous == model.ReactionNone:
		if err := c.store.HSet(ctx, key, map[string]interface{}{field: strconv.FormatInt(reaction, 10)}); err != nil {
			return errors.Wrapf(err, "fail to record reaction on post %d", postId)
		}
		if _, err := c.store.HIncrBy(ctx, PostKey(postId), model.CounterLike, 1); err != nil {
			return errors.Wrapf(err, "fail to increment likeCount on post %d", postId)
		}
		if authorId, err := c.PostAuthor(ctx, postId); err == nil && authorId != userId {
			c.bumpAffinity(ctx, userId, authorId)
		}
		return nil

	case reaction == model.ReactionNone:
		if err := c.store.HDel(ctx, key, field); err != nil {
			return errors.Wrapf(err, "fail to remove reaction on post %d", postId)
		}
		next, err := c.store.HIncrBy(ctx, PostKey(postId), model.CounterLike, -1)
		if err != nil {
			return errors.Wrapf(err, "fail to decrement likeCount on post %d", postId)
		}
		if next < 0 {
			// A reaction record can outlive its snapshot's counters (snapshot
			// expired, then rehydrated from the relational source). Pin the
			// counter at zero instead of letting it go negative.
			if err := c.store.HSet(ctx, PostKey(postId), map[string]interface{}{model.CounterLike: "0"}); err != nil {
				return errors.Wrapf(err, "fail to reset likeCount on post %d", postId)
			}
		}
		return nil

	default:
		// Reaction type change only, no count movement.
		return errors.Wrapf(
			c.store.HSet(ctx, key, map[string]interface{}{field: strconv.FormatInt(reaction, 10)}),
			"fail to overwrite reaction on post %d", postId)
	}
}

// ReactionOf returns the viewer's recorded reaction for display, defaulting
// to none on a miss or any store failure.
func (c *Counters) ReactionOf(ctx context.Context, postId, userId int64) int64 {
	v, err := c.store.HGet(ctx, ReactionsKey(postId), strconv.FormatInt(userId, 10))
	if err != nil {
		return model.ReactionNone
	}
	return safeReaction(v)
}

// AffinityOf reads the pairwise interaction counter between an actor and an
// author. The second return value is false when the counter is absent, which
// is a distinct "unknown affinity" state ranked below a true zero.
func (c *Counters) AffinityOf(ctx context.Context, actorId, authorId int64) (int64, bool) {
	v, err := c.store.Get(ctx, AffinityKey(actorId, authorId))
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SeedAffinity creates the affinity counter when a follow edge is created, so
// a fresh follow starts as a known (low) signal instead of an unknown one.
func (c *Counters) SeedAffinity(ctx context.Context, followerId, followeeId int64) error {
	return c.store.Set(ctx, AffinityKey(followerId, followeeId), "1", 0)
}

// DeleteAffinity removes the affinity counter together with its follow edge;
// affinity is scoped to "people you follow".
func (c *Counters) DeleteAffinity(ctx context.Context, followerId, followeeId int64) error {
	return c.store.Del(ctx, AffinityKey(followerId, followeeId))
}

func (c *Counters) bumpAffinity(ctx context.Context, actorId, authorId int64) {
	if actorId == authorId {
		return
	}
	if _, err := c.store.IncrBy(ctx, AffinityKey(actorId, authorId), 1); err != nil {
		Log.Errorf("fail to bump affinity %d->%d: %v", actorId, authorId, err)
	}
}

func safeReaction(v string) int64 {
	reaction, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return model.ReactionNone
	}
	return reaction
}
