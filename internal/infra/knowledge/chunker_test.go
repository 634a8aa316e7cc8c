package knowledge

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortText(t *testing.T) {
	assert.Equal(t, []string{"hello clinic"}, Chunk("  hello clinic \n", 800, 100))
	assert.Empty(t, Chunk("   ", 800, 100))
}

func TestChunkRespectsSizeAndOverlap(t *testing.T) {
	words := make([]string, 0, 600)
	for i := 0; i < 600; i++ {
		words = append(words, "word")
	}
	text := strings.Join(words, " ")

	chunks := Chunk(text, 800, 100)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 800)
		assert.False(t, strings.HasPrefix(c, "ord"), "chunk cut mid-word: %q", c[:10])
	}

	total := 0
	for _, c := range chunks {
		total += utf8.RuneCountInString(c)
	}
	assert.Greater(t, total, utf8.RuneCountInString(text))
}

func TestChunkWithoutWhitespace(t *testing.T) {
	text := strings.Repeat("x", 2000)
	chunks := Chunk(text, 800, 100)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 800)
	assert.Len(t, chunks[1], 800)
	assert.Len(t, chunks[2], 600)
}

func TestChunkCountsRunes(t *testing.T) {
	text := strings.Repeat("क", 900)
	chunks := Chunk(text, 800, 100)

	require.Len(t, chunks, 2)
	assert.Equal(t, 800, utf8.RuneCountInString(chunks[0]))
}
