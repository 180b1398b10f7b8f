package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenSet_Unseen(t *testing.T) {
	s := NewSeenSet()
	s.Add("https://example.si/1")

	got := s.Unseen([]string{
		"https://example.si/3",
		"https://example.si/1",
		"https://example.si/2",
		"https://example.si/3",
	})

	assert.Equal(t, []string{"https://example.si/3", "https://example.si/2"}, got)
	assert.Equal(t, 1, s.Len(), "Unseen must not modify the set")
}

func TestSeenSet_AddOnce(t *testing.T) {
	s := NewSeenSet()

	assert.True(t, s.Add("https://example.si/1"))
	assert.False(t, s.Add("https://example.si/1"))
	assert.True(t, s.IsSeen("https://example.si/1"))
	assert.False(t, s.IsSeen("https://example.si/2"))
	assert.ElementsMatch(t, []string{"https://example.si/1"}, s.URLs())
}

func TestSeenSet_UnseenEmpty(t *testing.T) {
	s := NewSeenSet()
	assert.Empty(t, s.Unseen(nil))
}
