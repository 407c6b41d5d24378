package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) *MemoryIndex {
		t.Helper()
		idx := NewMemoryIndex()
		require.NoError(t, idx.CreateCollection(ctx, "col1"))
		require.NoError(t, idx.Upsert(ctx, "col1",
			[]string{"a", "b", "c"},
			[][]float32{{1, 0}, {0, 1}, {0.9, 0.1}},
			[]string{"doc a", "doc b", "doc c"},
		))
		return idx
	}

	t.Run("query ranks by cosine similarity", func(t *testing.T) {
		idx := seed(t)

		results, err := idx.Query(ctx, "col1", []float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "doc a", results[0].Document)
		assert.Equal(t, "doc c", results[1].Document)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("query on unknown collection errors", func(t *testing.T) {
		idx := NewMemoryIndex()
		_, err := idx.Query(ctx, "ghost", []float32{1}, 3)
		assert.Error(t, err)
	})

	t.Run("upsert replaces by id", func(t *testing.T) {
		idx := seed(t)
		require.NoError(t, idx.Upsert(ctx, "col1",
			[]string{"a"},
			[][]float32{{0, 1}},
			[]string{"doc a v2"},
		))

		results, err := idx.Query(ctx, "col1", []float32{0, 1}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "doc a v2", results[0].Document)

		results, err = idx.Query(ctx, "col1", []float32{0, 1}, 3)
		require.NoError(t, err)
		docs := []string{results[0].Document, results[1].Document, results[2].Document}
		assert.Contains(t, docs, "doc a v2")
		assert.NotContains(t, docs, "doc a")
	})

	t.Run("upsert length mismatch errors", func(t *testing.T) {
		idx := seed(t)
		err := idx.Upsert(ctx, "col1", []string{"x"}, [][]float32{{1}, {2}}, []string{"d"})
		assert.Error(t, err)
	})

	t.Run("upsert into unknown collection errors", func(t *testing.T) {
		idx := NewMemoryIndex()
		err := idx.Upsert(ctx, "ghost", []string{"x"}, [][]float32{{1}}, []string{"d"})
		assert.Error(t, err)
	})

	t.Run("delete removes the collection", func(t *testing.T) {
		idx := seed(t)
		require.NoError(t, idx.DeleteCollection(ctx, "col1"))

		_, err := idx.Query(ctx, "col1", []float32{1, 0}, 1)
		assert.Error(t, err)
		assert.Error(t, idx.DeleteCollection(ctx, "col1"))
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	// Degenerate inputs score zero instead of dividing by zero.
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 0}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}
