package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Post is the relational source-of-truth row for a post. The feed subsystem
reads it only on a full cache miss to rehydrate the snapshot; the counters
here are the authoritative values that win over drifted cached counters
during rehydration.

Id: primary key, shared with the cache-side snapshot key
UserID / User: posting user, "belongs-to" relation
Content: full post content (snapshots store a bounded snippet)
MediaUrls: denormalized JSON array of media urls
ParentPostID: references the shared post when this row models a share, 0
otherwise

*/
type Post struct {
	Id           int64 `gorm:"primaryKey"`
	CreatedAt    time.Time
	UserID       int64
	User         User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Content      string
	MediaUrls    datatypes.JSON
	LikeCount    int64
	CommentCount int64
	ShareCount   int64
	ParentPostID int64 `gorm:"index"`
}
