package knowledge

import (
	"strings"
	"unicode"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// Chunk splits text into pieces of at most size runes, each starting up to
// overlap runes before the previous one ended. Cuts fall on whitespace when one
// exists in the second half of the window.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	var chunks []string

	for start := 0; start < len(runes); {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else if cut := lastSpace(runes, start+size/2, end); cut > start {
			end = cut
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}

		next := wordStart(runes, end-overlap, end)
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// wordStart moves i forward to the beginning of the next word, staying before limit.
func wordStart(runes []rune, i, limit int) int {
	if i <= 0 {
		return i
	}
	for j := i; j < limit; j++ {
		if unicode.IsSpace(runes[j-1]) {
			return j
		}
	}
	return i
}

func lastSpace(runes []rune, from, to int) int {
	for i := to; i > from; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return -1
}
