package feed

import (
	"fmt"
	"strconv"

	"github.com/Luismorlan/socialmux/model"
)

// Cache key layout. One snapshot hash and one reactions hash per post, one
// sorted set per user's feed index, one plain counter per (actor, author)
// affinity pair, and one short-lived serialized page per distinct read
// request shape.
func PostKey(postId int64) string {
	return fmt.Sprintf("post:%d", postId)
}

func ReactionsKey(postId int64) string {
	return fmt.Sprintf("post:%d:reactions", postId)
}

func FeedKey(userId int64) string {
	return fmt.Sprintf("feed:%d", userId)
}

func AffinityKey(actorId, authorId int64) string {
	return fmt.Sprintf("affinity:%d,%d", actorId, authorId)
}

// PageKey builds the page cache key for one read request. A missing cursor
// half is encoded as "start" so the first page of a user's feed has a stable
// key.
func PageKey(userId int64, cursor *model.Cursor, limit int) string {
	cursorScore, cursorPostId := "start", "start"
	if cursor != nil {
		cursorScore = strconv.FormatFloat(cursor.RankScore, 'f', -1, 64)
		cursorPostId = strconv.FormatInt(cursor.PostId, 10)
	}
	return fmt.Sprintf("page:%d:%s:%s:%d", userId, cursorScore, cursorPostId, limit)
}
