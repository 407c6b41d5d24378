package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunk(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Empty(t, Chunk("", 100, 20))
		assert.Empty(t, Chunk("   \n\t ", 100, 20))
	})

	t.Run("short text yields one chunk", func(t *testing.T) {
		chunks := Chunk("hello world", 100, 20)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0])
	})

	t.Run("chunk count matches stride arithmetic", func(t *testing.T) {
		cases := []struct {
			words, size, overlap int
		}{
			{100, 10, 2},
			{100, 10, 0},
			{1000, 100, 20},
			{57, 10, 3},
			{10, 10, 2},
		}
		for _, tc := range cases {
			chunks := Chunk(makeWords(tc.words), tc.size, tc.overlap)

			stride := tc.size - tc.overlap
			expected := (tc.words + stride - 1) / stride
			assert.InDelta(t, expected, len(chunks), 1,
				"words=%d size=%d overlap=%d", tc.words, tc.size, tc.overlap)
		}
	})

	t.Run("concatenating chunk strides reconstructs the text", func(t *testing.T) {
		const size, overlap = 10, 3
		text := makeWords(57)
		chunks := Chunk(text, size, overlap)

		stride := size - overlap
		var rebuilt []string
		for i, chunk := range chunks {
			words := strings.Fields(chunk)
			if i == len(chunks)-1 {
				rebuilt = append(rebuilt, words...)
			} else {
				rebuilt = append(rebuilt, words[:stride]...)
			}
		}
		// The tail of the last chunk overlaps the previous one; dedupe by
		// trimming to the original word count.
		require.GreaterOrEqual(t, len(rebuilt), 57)
		assert.Equal(t, strings.Fields(text), rebuilt[:57])
	})

	t.Run("each chunk spans at most size words", func(t *testing.T) {
		for _, chunk := range Chunk(makeWords(123), 10, 4) {
			assert.LessOrEqual(t, len(strings.Fields(chunk)), 10)
		}
	})

	t.Run("overlap at or above size clamps stride instead of looping", func(t *testing.T) {
		chunks := Chunk(makeWords(5), 3, 3)
		assert.Len(t, chunks, 5)

		chunks = Chunk(makeWords(5), 3, 10)
		assert.Len(t, chunks, 5)
	})

	t.Run("non-positive size falls back to default", func(t *testing.T) {
		chunks := Chunk(makeWords(10), 0, 0)
		require.Len(t, chunks, 1)
	})
}

func TestSplitSentences(t *testing.T) {
	t.Run("splits on terminators followed by whitespace", func(t *testing.T) {
		sentences := SplitSentences("The sky is blue. Water is wet. Done!")
		require.Len(t, sentences, 3)
		assert.Equal(t, "The sky is blue.", sentences[0])
		assert.Equal(t, "Water is wet.", sentences[1])
		assert.Equal(t, "Done!", sentences[2])
	})

	t.Run("terminator without whitespace does not split", func(t *testing.T) {
		sentences := SplitSentences("v1.2 is out")
		assert.Len(t, sentences, 1)
	})

	t.Run("question marks split too", func(t *testing.T) {
		sentences := SplitSentences("Is it ready? Yes.")
		require.Len(t, sentences, 2)
		assert.Equal(t, "Is it ready?", sentences[0])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SplitSentences(""))
	})
}

func TestTruncateWords(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "a b c", TruncateWords("a b c", 5))
	})

	t.Run("long text truncated with marker", func(t *testing.T) {
		got := TruncateWords("one two three four five", 3)
		assert.Equal(t, "one two three…", got)
	})

	t.Run("non-positive max is a no-op", func(t *testing.T) {
		assert.Equal(t, "a b c", TruncateWords("a b c", 0))
	})
}
