package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luismorlan/socialmux/model"
)

func rankedItem(postId int64, score float64, createdAt time.Time) model.FeedItem {
	return model.FeedItem{
		PostId:    postId,
		RankScore: score,
		CreatedAt: createdAt.UTC().Format(time.RFC3339Nano),
	}
}

func TestFirstPageTakesTopOfTheRanking(t *testing.T) {
	now := time.Now()
	sorted := []model.FeedItem{
		rankedItem(3, 3.0, now),
		rankedItem(2, 2.0, now),
		rankedItem(1, 1.0, now),
	}

	page := applyCursorAndLimit(sorted, nil, nil, 2)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].PostId)
	assert.Equal(t, int64(2), page[1].PostId)
}

func TestCursorExcludesItemsAtOrAboveIt(t *testing.T) {
	now := time.Now()
	sorted := []model.FeedItem{
		rankedItem(3, 3.0, now),
		rankedItem(2, 2.0, now),
		rankedItem(1, 1.0, now),
	}

	// Continue below the item that closed the previous page.
	cursor := &model.Cursor{RankScore: 2.0 - cursorEpsilon, PostId: 2}
	page := applyCursorAndLimit(sorted, cursor, nil, 2)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].PostId)
}

func TestCursorBreaksScoreTiesByPostId(t *testing.T) {
	now := time.Now()
	sorted := []model.FeedItem{
		rankedItem(30, 2.0, now),
		rankedItem(20, 2.0, now),
		rankedItem(10, 2.0, now),
	}

	// Same score as the cursor: only strictly larger ids pass.
	cursor := &model.Cursor{RankScore: 2.0, PostId: 20}
	page := applyCursorAndLimit(sorted, cursor, nil, 10)
	require.Len(t, page, 1)
	assert.Equal(t, int64(30), page[0].PostId)
}

func TestSessionBoundaryPromotesNewContent(t *testing.T) {
	now := time.Now()
	boundary := now.Add(-2 * time.Hour)

	// The stale post ranks far above the new one, but the new one was created
	// after the client's last visit and jumps the queue.
	sorted := []model.FeedItem{
		rankedItem(1, 5.0, now.Add(-10*time.Hour)),
		rankedItem(2, 0.5, now.Add(-1*time.Hour)),
	}

	page := applyCursorAndLimit(sorted, nil, &boundary, 10)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].PostId)
	assert.Equal(t, int64(1), page[1].PostId)
}

func TestSessionBoundaryDoesNotDuplicateItems(t *testing.T) {
	now := time.Now()
	boundary := now.Add(-2 * time.Hour)

	sorted := []model.FeedItem{
		rankedItem(2, 5.0, now.Add(-1*time.Hour)),
		rankedItem(1, 1.0, now.Add(-10*time.Hour)),
	}

	// Post 2 passes the boundary scan and must not be emitted again by the
	// cursor walk.
	page := applyCursorAndLimit(sorted, nil, &boundary, 10)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].PostId)
	assert.Equal(t, int64(1), page[1].PostId)
}

func TestBuildNextCursor(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	page := []model.FeedItem{
		rankedItem(3, 3.0, now),
		rankedItem(2, 2.0, now.Add(-time.Hour)),
	}

	cursor := buildNextCursor(page)
	require.NotNil(t, cursor)
	assert.Equal(t, 2.0-cursorEpsilon, cursor.RankScore)
	assert.Equal(t, int64(2), cursor.PostId)
	assert.Equal(t, page[0].CreatedAt, cursor.LastDateTime)

	assert.Nil(t, buildNextCursor(nil))
}
