// Package vector provides the vector index capability used by the
// retriever. Implementations may fail independently of the in-memory
// document stores; callers must treat every method as best-effort.
package vector

import "context"

// Index defines the vector index capability. Collections are named by
// opaque IDs minted at document upload time.
type Index interface {
	// CreateCollection creates an empty collection.
	CreateCollection(ctx context.Context, collectionID string) error

	// Upsert stores documents with their vectors under the collection.
	// ids, vectors and documents must have equal length.
	Upsert(ctx context.Context, collectionID string, ids []string, vectors [][]float32, documents []string) error

	// Query returns up to topK documents ranked by similarity.
	Query(ctx context.Context, collectionID string, vector []float32, topK int) ([]Result, error)

	// DeleteCollection removes the collection and all its vectors.
	DeleteCollection(ctx context.Context, collectionID string) error
}

// Result represents a vector search result.
type Result struct {
	ID       string  `json:"id"`
	Document string  `json:"document"`
	Score    float32 `json:"score"` // similarity score, higher is closer
}
