package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Luismorlan/socialmux/feed"
	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils/log"
)

// FollowRepository owns the follow edges of the social graph and keeps the
// cache-side affinity counters in sync with them. It implements
// feed.FollowerLister.
type FollowRepository struct {
	DB       *gorm.DB
	Counters *feed.Counters
}

func NewFollowRepository(db *gorm.DB, counters *feed.Counters) *FollowRepository {
	return &FollowRepository{DB: db, Counters: counters}
}

// FollowerIds returns the ids of all users following the author; these are
// the fan-out targets of the author's posts.
func (r *FollowRepository) FollowerIds(ctx context.Context, authorId int64) ([]int64, error) {
	var ids []int64
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("followee_id = ?", authorId).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, errors.Wrapf(err, "fail to list followers of user %d", authorId)
	}
	return ids, nil
}

// Follow creates the follow edge and seeds the affinity counter so the new
// followee starts as a known ranking signal.
func (r *FollowRepository) Follow(ctx context.Context, followerId, followeeId int64) error {
	if followerId == followeeId {
		return errors.New("cannot follow yourself")
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id IN ?", []int64{followerId, followeeId}).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "fail to check users")
	}
	if count != 2 {
		return errors.New("user not found")
	}

	follow := model.Follow{FollowerID: followerId, FolloweeID: followeeId}
	if err := r.DB.WithContext(ctx).Create(&follow).Error; err != nil {
		return errors.Wrapf(err, "fail to follow user %d", followeeId)
	}

	if err := r.Counters.SeedAffinity(ctx, followerId, followeeId); err != nil {
		// The edge exists; a missing seed only means the signal starts unknown.
		Log.Errorf("fail to seed affinity %d->%d: %v", followerId, followeeId, err)
	}
	return nil
}

// Unfollow removes the follow edge and deletes the affinity counter scoped
// to it.
func (r *FollowRepository) Unfollow(ctx context.Context, followerId, followeeId int64) error {
	res := r.DB.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerId, followeeId).
		Delete(&model.Follow{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to unfollow user %d", followeeId)
	}
	if res.RowsAffected == 0 {
		return errors.New("not following this user")
	}

	if err := r.Counters.DeleteAffinity(ctx, followerId, followeeId); err != nil {
		Log.Errorf("fail to delete affinity %d->%d: %v", followerId, followeeId, err)
	}
	return nil
}
