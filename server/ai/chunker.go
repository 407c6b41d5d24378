package ai

import (
	"regexp"
	"strings"
)

const (
	// DefaultChunkSize is the maximum word count per chunk.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the word count shared between adjacent chunks.
	DefaultChunkOverlap = 200
)

// Chunk splits text into overlapping word-window chunks for retrieval.
// A chunk starts every (size - overlap) words and spans up to size
// words; the final chunk may be shorter. Whitespace-only chunks are
// dropped. When overlap >= size the stride is clamped to 1 so the loop
// always advances.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	stride := size - overlap
	if stride < 1 {
		stride = 1
	}

	words := strings.Fields(text)
	var chunks []string
	for i := 0; i < len(words); i += stride {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// sentenceBoundary matches a terminator followed by whitespace, keeping
// the terminator with the preceding sentence.
var sentenceBoundary = regexp.MustCompile(`([.!?])\s+`)

// SplitSentences splits text into sentences on ., ! or ? followed by
// whitespace. The terminator stays attached to its sentence.
func SplitSentences(text string) []string {
	marked := sentenceBoundary.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")

	var sentences []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// TruncateWords caps text at max words, appending an ellipsis marker
// when truncated.
func TruncateWords(text string, max int) string {
	words := strings.Fields(text)
	if max <= 0 || len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ") + "…"
}
