package feed

import (
	"context"

	"github.com/Luismorlan/socialmux/model"
)

// UserProfile is the display projection of a user resolved during fan-out.
type UserProfile struct {
	Username          string
	ProfilePictureUrl string
}

// ProfileResolver resolves display fields for a user id from the relational
// source of truth.
type ProfileResolver interface {
	Profile(ctx context.Context, userId int64) (*UserProfile, error)
}

// FollowerLister resolves the fan-out targets of an author from the
// relational social graph.
type FollowerLister interface {
	FollowerIds(ctx context.Context, authorId int64) ([]int64, error)
}

// PostSource is the relational fallback read used to repopulate the cache on
// a full snapshot miss. A (nil, nil) return means the post does not exist;
// the caller skips it silently.
type PostSource interface {
	PostById(ctx context.Context, postId int64) (*model.PostSnapshot, error)
}
