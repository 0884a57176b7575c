package feed

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/Luismorlan/socialmux/model"
)

// cursorEpsilon is subtracted from the last emitted score when building the
// next cursor, so the following page starts strictly below it.
const cursorEpsilon = 0.01

// applyCursorAndLimit pages through the rank-sorted candidate list.
//
// Items created strictly after the session boundary are emitted first,
// bypassing the cursor filter, so a returning session always sees new content
// ahead of older re-ranked content. Remaining slots are filled by walking the
// sorted list with exclusive-of-cursor semantics: an item is skipped when it
// ranks at or above the cursor position.
func applyCursorAndLimit(sorted []model.FeedItem, cursor *model.Cursor, boundary *time.Time, limit int) []model.FeedItem {
	page := make([]model.FeedItem, 0, limit)
	picked := make(map[int64]bool)

	if boundary != nil {
		for _, item := range sorted {
			createdAt, err := dateparse.ParseAny(item.CreatedAt)
			if err != nil {
				continue
			}
			if createdAt.After(*boundary) {
				page = append(page, item)
				picked[item.PostId] = true
				if len(page) >= limit {
					return page
				}
			}
		}
	}

	for _, item := range sorted {
		if picked[item.PostId] {
			continue
		}
		if cursor != nil {
			if item.RankScore > cursor.RankScore {
				continue
			}
			if item.RankScore == cursor.RankScore && item.PostId <= cursor.PostId {
				continue
			}
		}
		page = append(page, item)
		if len(page) >= limit {
			break
		}
	}
	return page
}

// buildNextCursor derives the continuation token from an emitted page: the
// last item's score minus epsilon and its id as the exclusive lower bound,
// plus the first (newest-ranked) item's creation time as the next session
// boundary. A nil cursor marks the end of the feed.
func buildNextCursor(page []model.FeedItem) *model.Cursor {
	if len(page) == 0 {
		return nil
	}
	last := page[len(page)-1]
	return &model.Cursor{
		RankScore:    last.RankScore - cursorEpsilon,
		PostId:       last.PostId,
		LastDateTime: page[0].CreatedAt,
	}
}
