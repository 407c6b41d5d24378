package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/plugin/ai/vector"
)

// fixedEmbedder returns one constant vector per input text.
type fixedEmbedder struct {
	err error
}

func (f *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func seedCollection(t *testing.T, mem *store.Memory, id string, chunks []string) {
	t.Helper()
	require.NoError(t, mem.Put(context.Background(), id, &store.Collection{
		Documents: map[string]*store.Document{
			"doc": {Chunks: chunks},
		},
	}))
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("vector results are preferred", func(t *testing.T) {
		mem := store.NewMemory()
		seedCollection(t, mem, "col1", []string{"substring fodder"})

		idx := &vector.MockIndex{
			QueryFunc: func(context.Context, string, []float32, int) ([]vector.Result, error) {
				return []vector.Result{
					{ID: "1", Document: "vector hit one", Score: 0.9},
					{ID: "2", Document: "vector hit two", Score: 0.8},
				}, nil
			},
		}

		r := NewRetriever(&fixedEmbedder{}, idx, mem)
		got := r.Retrieve(ctx, "anything", []string{"col1"})
		assert.Equal(t, []string{"vector hit one", "vector hit two"}, got)
	})

	t.Run("index failure falls back to substring search", func(t *testing.T) {
		mem := store.NewMemory()
		seedCollection(t, mem, "col1", []string{
			"The capital of France is Paris.",
			"Bananas are yellow.",
			"Paris hosts the Louvre.",
		})

		idx := &vector.MockIndex{
			QueryFunc: func(context.Context, string, []float32, int) ([]vector.Result, error) {
				return nil, errors.New("backend down")
			},
		}

		r := NewRetriever(&fixedEmbedder{}, idx, mem)
		got := r.Retrieve(ctx, "paris", []string{"col1"})
		assert.Equal(t, []string{
			"The capital of France is Paris.",
			"Paris hosts the Louvre.",
		}, got)
	})

	t.Run("unindexed collection falls back to substring search", func(t *testing.T) {
		// The state an upload leaves behind when the index collection
		// was created but the upsert never landed: the vector lookup
		// answers emptily without an error.
		mem := store.NewMemory()
		seedCollection(t, mem, "col1", []string{"needle in here"})

		idx := vector.NewMemoryIndex()
		require.NoError(t, idx.CreateCollection(ctx, "col1"))

		r := NewRetriever(&fixedEmbedder{}, idx, mem)
		got := r.Retrieve(ctx, "needle", []string{"col1"})
		assert.Equal(t, []string{"needle in here"}, got, "substring fallback should cover the unindexed collection")
	})

	t.Run("embedding failure also falls back", func(t *testing.T) {
		mem := store.NewMemory()
		seedCollection(t, mem, "col1", []string{"needle in here"})

		r := NewRetriever(&fixedEmbedder{err: errors.New("no embeddings")}, &vector.MockIndex{}, mem)
		got := r.Retrieve(ctx, "needle", []string{"col1"})
		assert.Equal(t, []string{"needle in here"}, got)
	})

	t.Run("nil index goes straight to substring search", func(t *testing.T) {
		mem := store.NewMemory()
		seedCollection(t, mem, "col1", []string{"plain match"})

		r := NewRetriever(&fixedEmbedder{}, nil, mem)
		got := r.Retrieve(ctx, "MATCH", []string{"col1"})
		assert.Equal(t, []string{"plain match"}, got)
	})

	t.Run("substring search honors topK", func(t *testing.T) {
		mem := store.NewMemory()
		seedCollection(t, mem, "col1", []string{"x a", "x b", "x c", "x d"})

		r := NewRetriever(&fixedEmbedder{}, nil, mem, WithTopK(2))
		got := r.Retrieve(ctx, "x", []string{"col1"})
		assert.Len(t, got, 2)
	})

	t.Run("results concatenate in collection order", func(t *testing.T) {
		mem := store.NewMemory()
		seedCollection(t, mem, "colA", []string{"shared topic from A"})
		seedCollection(t, mem, "colB", []string{"shared topic from B"})

		r := NewRetriever(&fixedEmbedder{}, nil, mem)
		got := r.Retrieve(ctx, "shared topic", []string{"colB", "colA"})
		assert.Equal(t, []string{"shared topic from B", "shared topic from A"}, got)
	})

	t.Run("nothing matched returns empty, not error", func(t *testing.T) {
		mem := store.NewMemory()
		seedCollection(t, mem, "col1", []string{"unrelated"})

		r := NewRetriever(&fixedEmbedder{}, nil, mem)
		assert.Empty(t, r.Retrieve(ctx, "zebra", []string{"col1", "missing-collection"}))
	})
}

func TestBuildContext(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedCollection(t, mem, "col1", []string{"relevant chunk"})

	r := NewRetriever(&fixedEmbedder{}, nil, mem)

	t.Run("prefixes the header when chunks exist", func(t *testing.T) {
		got := r.BuildContext(ctx, "relevant", []string{"col1"})
		assert.Contains(t, got, "Relevant information from uploaded documents:")
		assert.Contains(t, got, "relevant chunk")
	})

	t.Run("empty when nothing matched", func(t *testing.T) {
		assert.Empty(t, r.BuildContext(ctx, "zebra", []string{"col1"}))
	})
}
