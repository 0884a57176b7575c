package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippetTruncation(t *testing.T) {
	assert.Equal(t, "short", Snippet("short"))

	long := strings.Repeat("a", MaxSnippetLength+50)
	assert.Equal(t, MaxSnippetLength, len([]rune(Snippet(long))))

	// Truncation is rune based so multibyte content never gets split.
	unicode := strings.Repeat("测", MaxSnippetLength+1)
	snippet := Snippet(unicode)
	assert.Equal(t, MaxSnippetLength, len([]rune(snippet)))
	assert.True(t, strings.HasSuffix(snippet, "测"))
}

func TestSnapshotHashRoundtrip(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	original := &PostSnapshot{
		PostId:          100,
		AuthorId:        2,
		AuthorName:      "alice",
		AuthorAvatarUrl: "http://cdn/alice.png",
		ContentSnippet:  "hello world",
		CreatedAt:       createdAt,
		MediaUrls:       []string{"http://cdn/a.jpg", "http://cdn/b,comma.jpg"},
	}

	fields := map[string]string{}
	for k, v := range original.HashFields() {
		fields[k] = v.(string)
	}
	fields[CounterLike] = "3"

	restored, err := SnapshotFromHash(100, fields)
	require.NoError(t, err)
	assert.Equal(t, original.AuthorId, restored.AuthorId)
	assert.Equal(t, original.AuthorName, restored.AuthorName)
	assert.Equal(t, original.ContentSnippet, restored.ContentSnippet)
	assert.Equal(t, original.MediaUrls, restored.MediaUrls)
	assert.True(t, createdAt.Equal(restored.CreatedAt))
	assert.Equal(t, int64(3), restored.LikeCount)
	assert.Equal(t, int64(0), restored.CommentCount)
}

func TestSnapshotFromHashRequiresCreatedAt(t *testing.T) {
	_, err := SnapshotFromHash(100, map[string]string{"authorId": "2"})
	assert.Error(t, err)

	_, err = SnapshotFromHash(100, map[string]string{"createdAt": "not a time"})
	assert.Error(t, err)
}

func TestSnapshotFromHashToleratesMalformedCounters(t *testing.T) {
	snapshot, err := SnapshotFromHash(100, map[string]string{
		"createdAt":  "2024-05-01T12:00:00Z",
		"authorId":   "2",
		CounterLike:  "garbage",
		CounterShare: "",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.LikeCount)
	assert.Equal(t, int64(0), snapshot.ShareCount)
}

func TestSnapshotFromHashClampsNegativeCounters(t *testing.T) {
	snapshot, err := SnapshotFromHash(100, map[string]string{
		"createdAt":    "2024-05-01T12:00:00Z",
		"authorId":     "2",
		CounterLike:    "-1",
		CounterComment: "-7",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.LikeCount)
	assert.Equal(t, int64(0), snapshot.CommentCount)
}

func TestHashFieldsExcludeCounters(t *testing.T) {
	snapshot := &PostSnapshot{PostId: 100, AuthorId: 2, CreatedAt: time.Now(), LikeCount: 9}
	fields := snapshot.HashFields()
	_, hasLikes := fields[CounterLike]
	assert.False(t, hasLikes, "counters must only be initialized with set-if-absent")
}

func TestPostEventIsShare(t *testing.T) {
	plain := &PostEvent{PostId: 1, AuthorId: 2}
	assert.False(t, plain.IsShare())

	share := &PostEvent{PostId: 1, AuthorId: 2, ParentPostId: 77}
	assert.True(t, share.IsShare())
}
