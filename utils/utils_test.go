package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "a"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}

func TestContainsInt64(t *testing.T) {
	assert.True(t, ContainsInt64([]int64{1, 2, 3}, 2))
	assert.False(t, ContainsInt64([]int64{1, 2, 3}, 4))
	assert.False(t, ContainsInt64(nil, 1))
}

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(12)
	assert.Equal(t, 12, len(s))
	for _, r := range s {
		assert.True(t, r >= 'a' && r <= 'z')
	}
}
