package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-process cosine-similarity index. It is the
// default backend when no vector database is configured.
type MemoryIndex struct {
	mu          sync.RWMutex
	collections map[string][]entry
}

type entry struct {
	id       string
	vector   []float32
	document string
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		collections: make(map[string][]entry),
	}
}

// CreateCollection creates an empty collection. Creating an existing
// collection is a no-op.
func (m *MemoryIndex) CreateCollection(_ context.Context, collectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collectionID]; !ok {
		m.collections[collectionID] = nil
	}
	return nil
}

// Upsert stores documents with their vectors under the collection.
func (m *MemoryIndex) Upsert(_ context.Context, collectionID string, ids []string, vectors [][]float32, documents []string) error {
	if len(ids) != len(vectors) || len(ids) != len(documents) {
		return fmt.Errorf("mismatched lengths: %d ids, %d vectors, %d documents", len(ids), len(vectors), len(documents))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.collections[collectionID]
	if !ok {
		return fmt.Errorf("collection not found: %s", collectionID)
	}

	for i, id := range ids {
		replaced := false
		for j := range entries {
			if entries[j].id == id {
				entries[j] = entry{id: id, vector: vectors[i], document: documents[i]}
				replaced = true
				break
			}
		}
		if !replaced {
			entries = append(entries, entry{id: id, vector: vectors[i], document: documents[i]})
		}
	}
	m.collections[collectionID] = entries
	return nil
}

// Query returns up to topK documents ranked by cosine similarity.
func (m *MemoryIndex) Query(_ context.Context, collectionID string, vector []float32, topK int) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("collection not found: %s", collectionID)
	}
	if topK <= 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		results = append(results, Result{
			ID:       e.id,
			Document: e.document,
			Score:    cosineSimilarity(vector, e.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// DeleteCollection removes the collection and all its vectors.
func (m *MemoryIndex) DeleteCollection(_ context.Context, collectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collectionID]; !ok {
		return fmt.Errorf("collection not found: %s", collectionID)
	}
	delete(m.collections, collectionID)
	return nil
}

// cosineSimilarity computes the cosine similarity of two vectors.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ Index = (*MemoryIndex)(nil)
