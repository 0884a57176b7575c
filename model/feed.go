package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// Reaction types a viewer can attach to a post. Zero means no reaction, which
// is also how a removed reaction is represented.
const (
	ReactionNone  int64 = 0
	ReactionLike  int64 = 1
	ReactionLove  int64 = 2
	ReactionHaha  int64 = 3
	ReactionWow   int64 = 4
	ReactionSad   int64 = 5
	ReactionAngry int64 = 6
)

// Counter field names inside a post snapshot hash. These are the only fields
// mutated in place after the snapshot is written.
const (
	CounterLike    = "likeCount"
	CounterComment = "commentCount"
	CounterShare   = "shareCount"
)

// MaxSnippetLength bounds the denormalized content snippet stored in a post
// snapshot.
const MaxSnippetLength = 200

/*

PostEvent is the post lifecycle event emitted on post creation or share.

PostId: id of the newly created post (a share gets its own id)
AuthorId: id of the posting user
CreatedAt: post creation time, also the fan-out score source
ContentSnippet: plain text snippet of the post content
MediaUrls: urls of attached media, possibly empty

ParentPostId and the other parent fields are only set on a share event and
reference the post being shared.

*/
type PostEvent struct {
	PostId         int64     `json:"postId"`
	AuthorId       int64     `json:"authorId"`
	CreatedAt      time.Time `json:"createdAt"`
	ContentSnippet string    `json:"contentSnippet"`
	MediaUrls      []string  `json:"mediaUrls"`

	ParentPostId         int64  `json:"parentPostId,omitempty"`
	ParentAuthorId       int64  `json:"parentAuthorId,omitempty"`
	ParentAuthorName     string `json:"parentAuthorName,omitempty"`
	ParentAuthorAvatar   string `json:"parentAuthorAvatarUrl,omitempty"`
	ParentContentSnippet string `json:"parentContentSnippet,omitempty"`
}

// IsShare reports whether the event models a share of another post.
func (e *PostEvent) IsShare() bool {
	return e.ParentPostId != 0
}

/*

PostSnapshot is the denormalized, cache-resident projection of a post. It
holds everything the feed read path needs without touching the relational
database. A missing snapshot is a tolerated state, never a hard error.

*/
type PostSnapshot struct {
	PostId          int64
	AuthorId        int64
	AuthorName      string
	AuthorAvatarUrl string
	ContentSnippet  string
	CreatedAt       time.Time
	MediaUrls       []string
	LikeCount       int64
	CommentCount    int64
	ShareCount      int64

	ParentPostId          int64
	ParentAuthorId        int64
	ParentAuthorName      string
	ParentAuthorAvatarUrl string
	ParentContentSnippet  string
}

// HasMedia reports whether the post carries at least one media url.
func (s *PostSnapshot) HasMedia() bool {
	return len(s.MediaUrls) > 0
}

// HashFields returns the snapshot's display fields keyed by their cache hash
// field names. Counter fields are deliberately excluded: counters are
// initialized with a set-if-absent operation so that a replayed event never
// clobbers live counts.
func (s *PostSnapshot) HashFields() map[string]interface{} {
	mediaUrls := ""
	if len(s.MediaUrls) > 0 {
		// JSON instead of a joined string so urls containing the separator
		// survive the roundtrip.
		if encoded, err := json.Marshal(s.MediaUrls); err == nil {
			mediaUrls = string(encoded)
		}
	}
	fields := map[string]interface{}{
		"authorId":        strconv.FormatInt(s.AuthorId, 10),
		"authorName":      s.AuthorName,
		"authorAvatarUrl": s.AuthorAvatarUrl,
		"content":         s.ContentSnippet,
		"createdAt":       s.CreatedAt.UTC().Format(time.RFC3339Nano),
		"mediaUrls":       mediaUrls,
	}
	if s.ParentPostId != 0 {
		fields["parentPostId"] = strconv.FormatInt(s.ParentPostId, 10)
		fields["parentAuthorId"] = strconv.FormatInt(s.ParentAuthorId, 10)
		fields["parentAuthorName"] = s.ParentAuthorName
		fields["parentAuthorAvatarUrl"] = s.ParentAuthorAvatarUrl
		fields["parentContentSnippet"] = s.ParentContentSnippet
	}
	return fields
}

// CounterFields returns the full counter state of the snapshot, used when a
// relational rehydration overwrites cached counters with authoritative ones.
func (s *PostSnapshot) CounterFields() map[string]interface{} {
	return map[string]interface{}{
		CounterLike:    strconv.FormatInt(s.LikeCount, 10),
		CounterComment: strconv.FormatInt(s.CommentCount, 10),
		CounterShare:   strconv.FormatInt(s.ShareCount, 10),
	}
}

// SnapshotFromHash rebuilds a PostSnapshot from its cache hash representation.
// It returns an error only when a field required for ranking is absent or
// unparsable; callers are expected to skip such posts rather than fail.
func SnapshotFromHash(postId int64, hash map[string]string) (*PostSnapshot, error) {
	createdAtStr := hash["createdAt"]
	if strings.TrimSpace(createdAtStr) == "" {
		return nil, errors.Errorf("snapshot %d has no createdAt", postId)
	}
	createdAt, err := dateparse.ParseAny(createdAtStr)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %d has unparsable createdAt %q", postId, createdAtStr)
	}

	s := &PostSnapshot{
		PostId:          postId,
		AuthorId:        safeInt64(hash["authorId"]),
		AuthorName:      hash["authorName"],
		AuthorAvatarUrl: hash["authorAvatarUrl"],
		ContentSnippet:  hash["content"],
		CreatedAt:       createdAt,
		LikeCount:       safeCount(hash[CounterLike]),
		CommentCount:    safeCount(hash[CounterComment]),
		ShareCount:      safeCount(hash[CounterShare]),

		ParentPostId:          safeInt64(hash["parentPostId"]),
		ParentAuthorId:        safeInt64(hash["parentAuthorId"]),
		ParentAuthorName:      hash["parentAuthorName"],
		ParentAuthorAvatarUrl: hash["parentAuthorAvatarUrl"],
		ParentContentSnippet:  hash["parentContentSnippet"],
	}
	if raw := hash["mediaUrls"]; raw != "" {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			s.MediaUrls = urls
		}
	}
	return s, nil
}

// safeCount parses a cached counter field. Counters are never negative; a
// drifted negative value is read as zero so ln(1+count) stays defined.
func safeCount(s string) int64 {
	v := safeInt64(s)
	if v < 0 {
		return 0
	}
	return v
}

// safeInt64 parses a cached numeric field, mapping absent or malformed values
// to zero instead of failing the whole snapshot.
func safeInt64(s string) int64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Snippet truncates post content to the bounded snippet stored in snapshots.
func Snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxSnippetLength {
		return content
	}
	return string(runes[:MaxSnippetLength])
}

/*

FeedItem is one entry of an assembled feed page, shaped for the read API.
CreatedAt is kept as the original RFC3339 string from the snapshot so clients
see exactly what was indexed.

*/
type FeedItem struct {
	PostId          int64    `json:"postId"`
	AuthorId        int64    `json:"authorId"`
	AuthorName      string   `json:"authorName"`
	AuthorAvatarUrl string   `json:"authorAvatarUrl"`
	ContentSnippet  string   `json:"contentSnippet"`
	MediaUrls       []string `json:"mediaUrls"`
	CreatedAt       string   `json:"createdAt"`
	LikeCount       int64    `json:"likeCount"`
	CommentCount    int64    `json:"commentCount"`
	ShareCount      int64    `json:"shareCount"`
	RankScore       float64  `json:"rankScore"`
	MyReactionType  int64    `json:"myReactionType"`

	ParentPostId          int64  `json:"parentPostId,omitempty"`
	ParentAuthorId        int64  `json:"parentAuthorId,omitempty"`
	ParentAuthorName      string `json:"parentAuthorName,omitempty"`
	ParentAuthorAvatarUrl string `json:"parentAuthorAvatarUrl,omitempty"`
	ParentContentSnippet  string `json:"parentContentSnippet,omitempty"`
}

// Cursor is the client-held continuation token: the exclusive lower bound for
// the next page, plus the newest createdAt of the previous page which serves
// as the session boundary on subsequent requests.
type Cursor struct {
	RankScore    float64 `json:"rankScore"`
	PostId       int64   `json:"postId"`
	LastDateTime string  `json:"lastDateTime"`
}

// FeedPage is one assembled response page. NextCursor is null when the page
// is empty.
type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor *Cursor    `json:"nextCursor"`
}
