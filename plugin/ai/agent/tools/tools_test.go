package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthesistalk/synthesistalk/plugin/ai/rag"
	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/plugin/websearch"
)

// fakeSearcher scripts the web search capability.
type fakeSearcher struct {
	results  []websearch.SearchResult
	pageText string
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) []websearch.SearchResult {
	return f.results
}

func (f *fakeSearcher) Fetch(_ context.Context, _ string) string {
	return f.pageText
}

func TestTakeNoteAndGetNotes(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	take := NewTakeNoteTool(mem.Notes())
	get := NewGetNotesTool(mem.Notes())

	t.Run("round trip with default category", func(t *testing.T) {
		result := take.Call(ctx, map[string]any{
			"conversation_id": "c1",
			"note":            "remember the milk",
		})
		require.True(t, result.Success)
		assert.Equal(t, "Note saved", result.Payload["message"])
		assert.NotEmpty(t, result.Payload["note_id"])

		listed := get.Call(ctx, map[string]any{"conversation_id": "c1"})
		require.True(t, listed.Success)
		notes := listed.Payload["notes"].([]store.Note)
		require.Len(t, notes, 1)
		assert.Equal(t, "remember the milk", notes[0].Content)
		assert.Equal(t, "general", notes[0].Category)
		assert.WithinDuration(t, time.Now(), notes[0].Timestamp, time.Minute)
	})

	t.Run("category filter", func(t *testing.T) {
		take.Call(ctx, map[string]any{"conversation_id": "c2", "note": "a", "category": "todo"})
		take.Call(ctx, map[string]any{"conversation_id": "c2", "note": "b", "category": "idea"})

		listed := get.Call(ctx, map[string]any{"conversation_id": "c2", "category": "todo"})
		require.True(t, listed.Success)
		notes := listed.Payload["notes"].([]store.Note)
		require.Len(t, notes, 1)
		assert.Equal(t, "a", notes[0].Content)
	})

	t.Run("unknown conversation yields empty list, not error", func(t *testing.T) {
		listed := get.Call(ctx, map[string]any{"conversation_id": "nope"})
		require.True(t, listed.Success)
		assert.Empty(t, listed.Payload["notes"])
		assert.Equal(t, 0, listed.Payload["count"])
	})
}

func TestDocumentExtract(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Put(ctx, "col1", &store.Collection{
		Filename: "facts.txt",
		Documents: map[string]*store.Document{
			"facts.txt": {
				Text:   "The sky is blue. Water is wet.",
				Chunks: []string{"The sky is blue. Water is wet."},
			},
		},
	}))

	// No vector index: the retriever takes the substring path.
	retriever := rag.NewRetriever(nil, nil, mem)
	tool := NewDocumentExtractTool(retriever, mem)

	t.Run("returns the matching sentence, not the whole chunk", func(t *testing.T) {
		result := tool.Call(ctx, map[string]any{
			"collection_id": "col1",
			"query":         "water",
		})
		require.True(t, result.Success)
		assert.Equal(t, []string{"Water is wet."}, result.Payload["relevant_chunks"])
		assert.Equal(t, 1, result.Payload["chunk_count"])
	})

	t.Run("unknown collection fails with a structured error", func(t *testing.T) {
		result := tool.Call(ctx, map[string]any{
			"collection_id": "missing",
			"query":         "water",
		})
		assert.False(t, result.Success)
		assert.Equal(t, "Collection not found", result.Err)
	})

	t.Run("no sentence match falls back to truncated chunks", func(t *testing.T) {
		require.NoError(t, mem.Put(ctx, "col2", &store.Collection{
			Documents: map[string]*store.Document{
				"d": {Chunks: []string{"Alpha ends. Beta begins."}},
			},
		}))

		// The query crosses a sentence boundary, so no single sentence
		// contains it even though the chunk does.
		result := tool.Call(ctx, map[string]any{
			"collection_id": "col2",
			"query":         "ends. beta",
			"max_length":    float64(2),
		})
		require.True(t, result.Success)
		chunks := result.Payload["relevant_chunks"].([]string)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Alpha ends.…", chunks[0])
	})
}

func TestDocumentSummarize(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Put(ctx, "col1", &store.Collection{
		Documents: map[string]*store.Document{
			"d": {Chunks: []string{"chunk one", "chunk two"}},
		},
	}))

	t.Run("summarizes through the model", func(t *testing.T) {
		llm := &scriptedLLM{responses: []string{"a fine summary"}}
		tool := NewDocumentSummarizeTool(mem, llm)

		result := tool.Call(ctx, map[string]any{"collection_id": "col1"})
		require.True(t, result.Success)
		assert.Equal(t, "a fine summary", result.Payload["summary"])
		assert.Equal(t, 1, result.Payload["source_count"])
		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], "chunk one")
	})

	t.Run("unknown collection fails", func(t *testing.T) {
		tool := NewDocumentSummarizeTool(mem, &scriptedLLM{})
		result := tool.Call(ctx, map[string]any{"collection_id": "missing"})
		assert.False(t, result.Success)
		assert.Equal(t, "Collection not found", result.Err)
	})
}

func TestWebSearchTool(t *testing.T) {
	ctx := context.Background()

	t.Run("no results is a success with a message", func(t *testing.T) {
		tool := NewWebSearchTool(&fakeSearcher{}, &scriptedLLM{})
		result := tool.Call(ctx, map[string]any{"query": "obscurity"})
		require.True(t, result.Success)
		assert.Equal(t, 0, result.Payload["count"])
		assert.Contains(t, result.Payload["message"], "obscurity")
	})

	t.Run("summarizes each result page", func(t *testing.T) {
		searcher := &fakeSearcher{
			results: []websearch.SearchResult{
				{Title: "One", URL: "https://a.example", Snippet: "sa"},
				{Title: "Two", URL: "https://b.example", Snippet: "sb"},
			},
			pageText: "page body",
		}
		tool := NewWebSearchTool(searcher, &scriptedLLM{responses: []string{"sum1", "sum2"}})

		result := tool.Call(ctx, map[string]any{"query": "q"})
		require.True(t, result.Success)
		entries := result.Payload["results"].([]map[string]any)
		require.Len(t, entries, 2)
		assert.Equal(t, "One", entries[0]["title"])
		assert.Equal(t, "sum1", entries[0]["summary"])
		assert.Equal(t, "sum2", entries[1]["summary"])
	})

	t.Run("summary failure falls back to the snippet", func(t *testing.T) {
		searcher := &fakeSearcher{
			results:  []websearch.SearchResult{{Title: "One", URL: "https://a.example", Snippet: "the snippet"}},
			pageText: "page body",
		}
		tool := NewWebSearchTool(searcher, &scriptedLLM{err: errors.New("model down")})

		result := tool.Call(ctx, map[string]any{"query": "q"})
		require.True(t, result.Success)
		entries := result.Payload["results"].([]map[string]any)
		require.Len(t, entries, 1)
		assert.Equal(t, "the snippet", entries[0]["summary"])
	})
}

func TestExplainConcept(t *testing.T) {
	ctx := context.Background()

	t.Run("unrecognized level defaults to intermediate", func(t *testing.T) {
		llm := &scriptedLLM{responses: []string{"an explanation"}}
		tool := NewExplainConceptTool(llm)

		result := tool.Call(ctx, map[string]any{"concept": "entropy", "level": "wizard"})
		require.True(t, result.Success)
		assert.Equal(t, "intermediate", result.Payload["level"])
		assert.Equal(t, "an explanation", result.Payload["explanation"])
	})

	t.Run("model failure becomes a failure result", func(t *testing.T) {
		tool := NewExplainConceptTool(&scriptedLLM{err: errors.New("quota")})
		result := tool.Call(ctx, map[string]any{"concept": "entropy"})
		assert.False(t, result.Success)
	})
}

func TestClarifyInformation(t *testing.T) {
	ctx := context.Background()
	llm := &scriptedLLM{responses: []string{"clearer now"}}
	tool := NewClarifyInformationTool(llm)

	result := tool.Call(ctx, map[string]any{
		"information": "the thing",
		"context":     "about the other thing",
	})
	require.True(t, result.Success)
	assert.Equal(t, "clearer now", result.Payload["clarification"])
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Context: about the other thing")
}

func TestGenerateInsights(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown conversation fails", func(t *testing.T) {
		mem := store.NewMemory()
		tool := NewGenerateInsightsTool(mem, mem.Insights(), &scriptedLLM{})

		result := tool.Call(ctx, map[string]any{"conversation_id": "ghost"})
		assert.False(t, result.Success)
		assert.Equal(t, "Conversation not found", result.Err)
	})

	t.Run("stores one insight with fixed confidence", func(t *testing.T) {
		mem := store.NewMemory()
		for i := 0; i < 12; i++ {
			require.NoError(t, mem.Append(ctx, "c1", store.Message{Role: "user", Content: "m"}))
		}
		llm := &scriptedLLM{responses: []string{"key themes here"}}
		tool := NewGenerateInsightsTool(mem, mem.Insights(), llm)

		result := tool.Call(ctx, map[string]any{"conversation_id": "c1"})
		require.True(t, result.Success)
		assert.Equal(t, 10, result.Payload["message_count"])

		insights, err := mem.ListInsights(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, insights, 1)
		assert.Equal(t, "Conversation Insights", insights[0].Title)
		assert.Equal(t, "key themes here", insights[0].Content)
		assert.Equal(t, []string{"conversation"}, insights[0].Sources)
		assert.InDelta(t, 0.8, insights[0].Confidence, 1e-9)
	})
}
