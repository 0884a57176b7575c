package feed

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/Luismorlan/socialmux/model"
)

const scoreTolerance = 1e-12

func TestWeightedRankerScore(t *testing.T) {
	ranker := DefaultRanker()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	snapshot := &model.PostSnapshot{
		PostId:       100,
		AuthorId:     2,
		CreatedAt:    now.Add(-12 * time.Hour),
		MediaUrls:    []string{"http://cdn/a.jpg"},
		LikeCount:    10,
		CommentCount: 5,
		ShareCount:   2,
	}
	viewer := ViewerContext{UserId: 3, Affinity: 7, AffinityKnown: true}

	want := 0.6*math.Exp(-12.0/24) +
		0.3*(math.Log(11)+0.5*math.Log(6)+0.8*math.Log(3)) +
		0.1*0.1 +
		0.2*math.Log(8)
	got := ranker.Score(snapshot, viewer, now)
	assert.True(t, scalar.EqualWithinAbs(got, want, scoreTolerance), "got %v want %v", got, want)
}

func TestUnknownAffinityIsPenalized(t *testing.T) {
	ranker := DefaultRanker()
	now := time.Now()
	snapshot := &model.PostSnapshot{PostId: 100, AuthorId: 2, CreatedAt: now}

	unknown := ranker.Score(snapshot, ViewerContext{UserId: 3}, now)
	zero := ranker.Score(snapshot, ViewerContext{UserId: 3, Affinity: 0, AffinityKnown: true}, now)

	// Never-interacted ranks strictly below interacted-zero-times.
	assert.Less(t, unknown, zero)
	assert.True(t, scalar.EqualWithinAbs(zero-unknown, 0.2*5, scoreTolerance))
}

func TestOwnPostSkipsInteractionTerm(t *testing.T) {
	ranker := DefaultRanker()
	now := time.Now()
	snapshot := &model.PostSnapshot{PostId: 100, AuthorId: 2, CreatedAt: now}

	own := ranker.Score(snapshot, ViewerContext{UserId: 2}, now)
	zeroAffinity := ranker.Score(snapshot, ViewerContext{UserId: 3, AffinityKnown: true}, now)

	// The author sees neither an affinity boost nor the unknown penalty, which
	// lands at the same value as a known zero affinity.
	assert.True(t, scalar.EqualWithinAbs(own, zeroAffinity, scoreTolerance))
}

func TestMediaBoostAppliesOnlyWithMedia(t *testing.T) {
	ranker := DefaultRanker()
	now := time.Now()
	viewer := ViewerContext{UserId: 3, AffinityKnown: true}

	plain := &model.PostSnapshot{PostId: 100, AuthorId: 2, CreatedAt: now}
	withMedia := &model.PostSnapshot{PostId: 100, AuthorId: 2, CreatedAt: now, MediaUrls: []string{"x"}}

	diff := ranker.Score(withMedia, viewer, now) - ranker.Score(plain, viewer, now)
	assert.True(t, scalar.EqualWithinAbs(diff, 0.1*0.1, scoreTolerance))
}

func TestRecencyDecaysOverTime(t *testing.T) {
	ranker := DefaultRanker()
	now := time.Now()
	viewer := ViewerContext{UserId: 3, AffinityKnown: true}

	fresh := &model.PostSnapshot{PostId: 1, AuthorId: 2, CreatedAt: now.Add(-1 * time.Hour)}
	stale := &model.PostSnapshot{PostId: 2, AuthorId: 2, CreatedAt: now.Add(-48 * time.Hour)}

	assert.Greater(t, ranker.Score(fresh, viewer, now), ranker.Score(stale, viewer, now))
}
