package model

import (
	"time"
)

/*

Follow is one edge of the social graph: FollowerID follows FolloweeID. The
relational table is the source of truth for fan-out targets; the cache-side
affinity counter is merely a ranking signal scoped to this edge and is
deleted together with it.

*/
type Follow struct {
	Id         int64 `gorm:"primaryKey"`
	CreatedAt  time.Time
	FollowerID int64 `gorm:"uniqueIndex:idx_follower_followee"`
	FolloweeID int64 `gorm:"uniqueIndex:idx_follower_followee"`
	Follower   User  `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	Followee   User  `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE;"`
}
