// Package rag provides chunk retrieval over uploaded document
// collections: vector similarity first, substring scan as fallback.
package rag

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/plugin/ai/vector"
)

// DefaultTopK is the number of chunks returned per collection.
const DefaultTopK = 3

// contextHeader prefixes the assembled retrieval bundle.
const contextHeader = "Relevant information from uploaded documents:"

// Embedder turns texts into vectors. Implemented by the ai.Provider.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever returns the most relevant chunks for a query.
type Retriever struct {
	embedder  Embedder
	index     vector.Index
	documents store.DocumentStore
	topK      int
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithTopK sets the per-collection result count.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// NewRetriever creates a Retriever. The index may be nil, in which case
// every lookup takes the substring path.
func NewRetriever(embedder Embedder, index vector.Index, documents store.DocumentStore, opts ...Option) *Retriever {
	r := &Retriever{
		embedder:  embedder,
		index:     index,
		documents: documents,
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to topK chunks per collection, concatenated in
// the order collections were supplied. A failing or empty vector lookup
// for a collection degrades to a case-insensitive substring scan;
// nothing here returns an error to the caller.
func (r *Retriever) Retrieve(ctx context.Context, query string, collectionIDs []string) []string {
	var chunks []string
	for _, id := range collectionIDs {
		chunks = append(chunks, r.retrieveOne(ctx, query, id)...)
	}
	return chunks
}

// retrieveOne returns up to topK chunks from a single collection. A
// collection the index answers emptily for (never indexed, or its
// upsert failed after registration) takes the substring path too.
func (r *Retriever) retrieveOne(ctx context.Context, query, collectionID string) []string {
	results, err := r.vectorSearch(ctx, query, collectionID)
	if err != nil {
		slog.Warn("vector search failed, falling back to substring search",
			"collection_id", collectionID,
			"error", err)
		return r.substringSearch(ctx, query, collectionID)
	}
	if len(results) == 0 {
		return r.substringSearch(ctx, query, collectionID)
	}
	return results
}

// vectorSearch embeds the query and asks the index for neighbors.
func (r *Retriever) vectorSearch(ctx context.Context, query, collectionID string) ([]string, error) {
	if r.index == nil {
		return nil, errNoIndex
	}

	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	results, err := r.index.Query(ctx, collectionID, vecs[0], r.topK)
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, res.Document)
	}
	return chunks, nil
}

// substringSearch scans stored chunks in order and collects the first
// topK whose lowercased text contains the lowercased query.
func (r *Retriever) substringSearch(ctx context.Context, query, collectionID string) []string {
	col, ok := r.documents.Get(ctx, collectionID)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(col.Documents))
	for name := range col.Documents {
		names = append(names, name)
	}
	sort.Strings(names)

	needle := strings.ToLower(query)
	var chunks []string
	for _, name := range names {
		for _, chunk := range col.Documents[name].Chunks {
			if strings.Contains(strings.ToLower(chunk), needle) {
				chunks = append(chunks, chunk)
			}
			if len(chunks) >= r.topK {
				return chunks
			}
		}
	}
	return chunks
}

// BuildContext formats retrieved chunks as a prompt context block,
// prefixed with a fixed header. Returns "" when nothing matched.
func (r *Retriever) BuildContext(ctx context.Context, query string, collectionIDs []string) string {
	chunks := r.Retrieve(ctx, query, collectionIDs)
	if len(chunks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(contextHeader)
	sb.WriteString("\n\n")
	for _, chunk := range chunks {
		sb.WriteString(chunk)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

type retrieverError string

func (e retrieverError) Error() string { return string(e) }

const errNoIndex = retrieverError("no vector index configured")
