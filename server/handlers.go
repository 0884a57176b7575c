package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"

	"github.com/Luismorlan/socialmux/fanout"
	"github.com/Luismorlan/socialmux/feed"
	"github.com/Luismorlan/socialmux/model"
	"github.com/Luismorlan/socialmux/repository"
	. "github.com/Luismorlan/socialmux/utils/log"
)

// APIHandler bundles the feed subsystem dependencies behind the REST surface.
// All collaborators are injected; handlers own no state.
type APIHandler struct {
	Assembler *feed.Assembler
	Counters  *feed.Counters
	Follows   *repository.FollowRepository
	EventBus  *gochannel.GoChannel
}

func NewAPIHandler(assembler *feed.Assembler, counters *feed.Counters, follows *repository.FollowRepository, bus *gochannel.GoChannel) *APIHandler {
	return &APIHandler{
		Assembler: assembler,
		Counters:  counters,
		Follows:   follows,
		EventBus:  bus,
	}
}

// RegisterRoutes binds all feed routes onto the router.
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/feed", h.GetFeed)
	router.PUT("/post/:id/reaction", h.SetReaction)
	router.POST("/post/:id/comment", h.CountComment)
	router.POST("/post/:id/share", h.CountShare)
	router.POST("/follow/:id", h.Follow)
	router.DELETE("/follow/:id", h.Unfollow)
	router.POST("/events/post", h.IngestPostEvent)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// GetFeed serves one ranked feed page:
//
//	GET /feed?cursorScore=<score>&cursorPostId=<postId>&lastPostTime=<time>&limit=<n>
//
// The feed is best effort: except for a missing user identity, every failure
// path still answers 200 with a well-shaped (possibly empty) page.
func (h *APIHandler) GetFeed(c *gin.Context) {
	userId, ok := requestUserId(c)
	if !ok {
		c.JSON(http.StatusBadRequest, model.FeedPage{Items: []model.FeedItem{}})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = feed.DefaultPageSize
	}

	var cursor *model.Cursor
	scoreStr, postIdStr := c.Query("cursorScore"), c.Query("cursorPostId")
	if scoreStr != "" && postIdStr != "" {
		score, errScore := strconv.ParseFloat(scoreStr, 64)
		postId, errPostId := strconv.ParseInt(postIdStr, 10, 64)
		if errScore == nil && errPostId == nil {
			cursor = &model.Cursor{RankScore: score, PostId: postId}
		}
	}

	page := h.Assembler.GetFeed(c.Request.Context(), userId, cursor, c.Query("lastPostTime"), limit)
	c.JSON(http.StatusOK, page)
}

// SetReaction records the caller's reaction on a post.
//
//	PUT /post/:id/reaction  {"reactionType": 2}
func (h *APIHandler) SetReaction(c *gin.Context) {
	userId, ok := requestUserId(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing user identity"})
		return
	}
	postId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	var body struct {
		ReactionType int64 `json:"reactionType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}

	if err := h.Counters.SetReaction(c.Request.Context(), postId, userId, body.ReactionType); err != nil {
		Log.Errorf("fail to set reaction on post %d: %v", postId, err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to set reaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CountComment bumps the comment counter after the comment service persisted
// a comment.
func (h *APIHandler) CountComment(c *gin.Context) {
	h.countInteraction(c, model.CounterComment)
}

// CountShare bumps the share counter after the post service persisted a
// share.
func (h *APIHandler) CountShare(c *gin.Context) {
	h.countInteraction(c, model.CounterShare)
}

func (h *APIHandler) countInteraction(c *gin.Context, counter string) {
	userId, ok := requestUserId(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing user identity"})
		return
	}
	postId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	authorId, err := h.Counters.PostAuthor(c.Request.Context(), postId)
	if err != nil {
		// Post isn't in cache: nothing to count against, abort this single op.
		c.JSON(http.StatusNotFound, gin.H{"msg": "unknown post"})
		return
	}

	if err := h.Counters.IncrementIfNotSelf(c.Request.Context(), counter, postId, userId, authorId); err != nil {
		Log.Errorf("fail to count %s on post %d: %v", counter, postId, err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to count interaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Follow creates a follow edge towards the user in the path.
func (h *APIHandler) Follow(c *gin.Context) {
	h.changeFollow(c, h.Follows.Follow)
}

// Unfollow removes the follow edge and the affinity signal scoped to it.
func (h *APIHandler) Unfollow(c *gin.Context) {
	h.changeFollow(c, h.Follows.Unfollow)
}

func (h *APIHandler) changeFollow(c *gin.Context, op func(ctx context.Context, followerId, followeeId int64) error) {
	userId, ok := requestUserId(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing user identity"})
		return
	}
	targetId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	if err := op(c.Request.Context(), userId, targetId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// IngestPostEvent accepts a post lifecycle event from the post service and
// publishes it onto the in-process event bus. The request is acknowledged
// before fan-out completes; indexing is fire-and-forget.
func (h *APIHandler) IngestPostEvent(c *gin.Context) {
	var event model.PostEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post event"})
		return
	}
	if event.PostId == 0 || event.AuthorId == 0 || event.CreatedAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "incomplete post event"})
		return
	}

	if err := fanout.PublishPostEvent(h.EventBus, &event); err != nil {
		Log.Errorf("fail to publish post event for post %d: %v", event.PostId, err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "fail to enqueue post event"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func requestUserId(c *gin.Context) (int64, bool) {
	userId, err := strconv.ParseInt(c.Request.Header.Get("sub"), 10, 64)
	if err != nil || userId == 0 {
		return 0, false
	}
	return userId, true
}
