package feed

import (
	"math"
	"time"

	"github.com/Luismorlan/socialmux/model"
)

// ViewerContext carries the per-viewer ranking signals resolved for one
// candidate post. AffinityKnown distinguishes a true zero-interaction count
// from an absent counter, which is penalized instead.
type ViewerContext struct {
	UserId        int64
	Affinity      int64
	AffinityKnown bool
}

// Ranker computes the rank score of a candidate post for one viewer. It is a
// pluggable strategy so weight constants and decay functions are swappable
// and independently testable.
type Ranker interface {
	Score(snapshot *model.PostSnapshot, viewer ViewerContext, now time.Time) float64
}

/*

WeightedRanker is the default ranking strategy:

	recency     = exp(-hoursSinceCreated / DecayHours)
	engagement  = ln(1+likes) + CommentWeight*ln(1+comments) + ShareWeight*ln(1+shares)
	media       = MediaBoost when the post has at least one media url
	interaction = ln(1+affinity) when known, UnknownAffinityPenalty otherwise,
	              and 0 when the viewer is the author
	score       = RecencyWeight*recency + EngagementWeight*engagement
	              + MediaWeight*media + InteractionWeight*interaction

The unknown-affinity penalty keeps never-interacted authors from ranking
above rarely-interacted ones.

*/
type WeightedRanker struct {
	RecencyWeight     float64
	EngagementWeight  float64
	MediaWeight       float64
	InteractionWeight float64

	DecayHours    float64
	CommentWeight float64
	ShareWeight   float64
	MediaBoost    float64

	UnknownAffinityPenalty float64
}

// DefaultRanker returns the production weights.
func DefaultRanker() *WeightedRanker {
	return &WeightedRanker{
		RecencyWeight:          0.6,
		EngagementWeight:       0.3,
		MediaWeight:            0.1,
		InteractionWeight:      0.2,
		DecayHours:             24,
		CommentWeight:          0.5,
		ShareWeight:            0.8,
		MediaBoost:             0.1,
		UnknownAffinityPenalty: -5,
	}
}

func (r *WeightedRanker) Score(snapshot *model.PostSnapshot, viewer ViewerContext, now time.Time) float64 {
	hoursAgo := now.Sub(snapshot.CreatedAt).Hours()
	recency := math.Exp(-hoursAgo / r.DecayHours)

	engagement := math.Log(1+float64(snapshot.LikeCount)) +
		r.CommentWeight*math.Log(1+float64(snapshot.CommentCount)) +
		r.ShareWeight*math.Log(1+float64(snapshot.ShareCount))

	media := 0.0
	if snapshot.HasMedia() {
		media = r.MediaBoost
	}

	interaction := 0.0
	if viewer.UserId != snapshot.AuthorId {
		if viewer.AffinityKnown {
			interaction = math.Log(1 + float64(viewer.Affinity))
		} else {
			interaction = r.UnknownAffinityPenalty
		}
	}

	return r.RecencyWeight*recency +
		r.EngagementWeight*engagement +
		r.MediaWeight*media +
		r.InteractionWeight*interaction
}
