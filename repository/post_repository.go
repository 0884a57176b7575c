package repository

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Luismorlan/socialmux/model"
	. "github.com/Luismorlan/socialmux/utils/log"
)

// PostRepository is the relational fallback read used by the feed assembler
// to repopulate the cache on a full snapshot miss. It implements
// feed.PostSource.
type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

// PostById loads the authoritative post row and projects it into snapshot
// shape, including the relational counters which win over drifted cached
// ones. Returns (nil, nil) when the post does not exist.
func (r *PostRepository) PostById(ctx context.Context, postId int64) (*model.PostSnapshot, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).Preload("User").First(&post, postId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fail to load post %d", postId)
	}

	snapshot := &model.PostSnapshot{
		PostId:          post.Id,
		AuthorId:        post.UserID,
		AuthorName:      post.User.Username,
		AuthorAvatarUrl: post.User.ProfilePictureUrl,
		ContentSnippet:  model.Snippet(post.Content),
		CreatedAt:       post.CreatedAt,
		MediaUrls:       decodeMediaUrls(post.Id, post.MediaUrls),
		LikeCount:       post.LikeCount,
		CommentCount:    post.CommentCount,
		ShareCount:      post.ShareCount,
	}

	if post.ParentPostID != 0 {
		var parent model.Post
		err := r.DB.WithContext(ctx).Preload("User").First(&parent, post.ParentPostID).Error
		if err != nil {
			// A dangling parent reference degrades the share to a plain post.
			Log.Errorf("fail to load parent %d of post %d: %v", post.ParentPostID, post.Id, err)
		} else {
			snapshot.ParentPostId = parent.Id
			snapshot.ParentAuthorId = parent.UserID
			snapshot.ParentAuthorName = parent.User.Username
			snapshot.ParentAuthorAvatarUrl = parent.User.ProfilePictureUrl
			snapshot.ParentContentSnippet = model.Snippet(parent.Content)
		}
	}

	return snapshot, nil
}

func decodeMediaUrls(postId int64, raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		Log.Errorf("fail to decode media urls of post %d: %v", postId, err)
		return nil
	}
	return urls
}
