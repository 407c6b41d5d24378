package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStore(t *testing.T) {
	ctx := context.Background()

	t.Run("append and list preserve order", func(t *testing.T) {
		mem := NewMemory()
		require.NoError(t, mem.Append(ctx, "c1", Message{Role: "user", Content: "one"}))
		require.NoError(t, mem.Append(ctx, "c1", Message{Role: "assistant", Content: "two"}))

		msgs, err := mem.List(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "one", msgs[0].Content)
		assert.Equal(t, "two", msgs[1].Content)
		assert.False(t, msgs[0].Timestamp.IsZero(), "timestamp is filled on append")
	})

	t.Run("unknown conversation lists empty", func(t *testing.T) {
		mem := NewMemory()
		msgs, err := mem.List(ctx, "ghost")
		require.NoError(t, err)
		assert.Empty(t, msgs)
		assert.False(t, mem.Exists(ctx, "ghost"))
	})

	t.Run("reset truncates but the conversation still exists", func(t *testing.T) {
		mem := NewMemory()
		require.NoError(t, mem.Append(ctx, "c1", Message{Role: "user", Content: "x"}))
		require.NoError(t, mem.Reset(ctx, "c1"))

		msgs, err := mem.List(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, msgs)
		assert.True(t, mem.Exists(ctx, "c1"))
	})

	t.Run("list returns a copy", func(t *testing.T) {
		mem := NewMemory()
		require.NoError(t, mem.Append(ctx, "c1", Message{Role: "user", Content: "orig"}))

		msgs, err := mem.List(ctx, "c1")
		require.NoError(t, err)
		msgs[0].Content = "mutated"

		again, err := mem.List(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "orig", again[0].Content)
	})
}

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	col := &Collection{
		Filename:   "a.txt",
		ChunkCount: 1,
		Documents:  map[string]*Document{"a.txt": {Text: "t", Chunks: []string{"t"}}},
	}
	require.NoError(t, mem.Put(ctx, "col1", col))

	got, ok := mem.Get(ctx, "col1")
	require.True(t, ok)
	assert.Equal(t, "a.txt", got.Filename)

	assert.ElementsMatch(t, []string{"col1"}, mem.IDs(ctx))

	require.NoError(t, mem.Delete(ctx, "col1"))
	_, ok = mem.Get(ctx, "col1")
	assert.False(t, ok)

	// Deleting again is a no-op.
	assert.NoError(t, mem.Delete(ctx, "col1"))
}

func TestNoteStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	notes := mem.Notes()

	n1, err := notes.Add(ctx, "c1", "first", "")
	require.NoError(t, err)
	assert.Equal(t, "general", n1.Category, "empty category defaults")
	assert.NotEmpty(t, n1.ID)

	n2, err := notes.Add(ctx, "c1", "second", "todo")
	require.NoError(t, err)
	assert.NotEqual(t, n1.ID, n2.ID)

	all, err := notes.List(ctx, "c1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	todos, err := notes.List(ctx, "c1", "todo")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "second", todos[0].Content)

	none, err := notes.List(ctx, "ghost", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsightStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	insights := mem.Insights()

	require.NoError(t, insights.Add(ctx, "c1", Insight{Title: "first", Confidence: 0.8}))
	require.NoError(t, insights.Add(ctx, "c1", Insight{Title: "second", Confidence: 0.8}))

	got, err := insights.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = mem.Append(ctx, "c1", Message{Role: "user", Content: "m"})
			}
		}()
	}
	wg.Wait()

	msgs, err := mem.List(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, msgs, 16*50)
}
