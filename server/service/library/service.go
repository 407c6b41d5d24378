// Package library manages uploaded document collections: text
// extraction, chunking and best-effort vector indexing.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/synthesistalk/synthesistalk/plugin/ai/rag"
	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/plugin/ai/vector"
	"github.com/synthesistalk/synthesistalk/plugin/extractor"
	"github.com/synthesistalk/synthesistalk/server/ai"
	apperr "github.com/synthesistalk/synthesistalk/internal/errors"
)

// Service owns the document collection lifecycle. Vector indexing is
// best-effort: a collection whose index could not be built is still
// registered and served through substring retrieval.
type Service struct {
	extractor *extractor.Extractor
	embedder  rag.Embedder
	index     vector.Index
	documents store.DocumentStore

	chunkSize    int
	chunkOverlap int
}

// Option configures a Service.
type Option func(*Service)

// WithChunking overrides the chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(s *Service) {
		s.chunkSize = size
		s.chunkOverlap = overlap
	}
}

// NewService creates a library service. The index may be nil.
func NewService(ext *extractor.Extractor, embedder rag.Embedder, index vector.Index, documents store.DocumentStore, opts ...Option) *Service {
	s := &Service{
		extractor:    ext,
		embedder:     embedder,
		index:        index,
		documents:    documents,
		chunkSize:    ai.DefaultChunkSize,
		chunkOverlap: ai.DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadResult reports a registered collection.
type UploadResult struct {
	CollectionID string    `json:"collection_id"`
	Filename     string    `json:"filename"`
	ChunkCount   int       `json:"chunk_count"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// CreateCollection extracts, chunks and registers one uploaded
// document under a fresh collection ID. Embedding or index failures are
// logged and the collection is registered regardless.
func (s *Service) CreateCollection(ctx context.Context, filename, kind string, data []byte) (*UploadResult, error) {
	text := s.extractor.Extract(data, kind)
	if text == "" {
		return nil, apperr.InvalidArgument(fmt.Sprintf("no text could be extracted from %q", filename))
	}

	chunks := ai.Chunk(text, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return nil, apperr.InvalidArgument(fmt.Sprintf("document %q is empty after chunking", filename))
	}

	collectionID := shortuuid.New()
	now := time.Now()

	col := &store.Collection{
		Filename:   filename,
		UploadedAt: now,
		ChunkCount: len(chunks),
		Documents: map[string]*store.Document{
			filename: {Text: text, Chunks: chunks},
		},
	}
	if err := s.documents.Put(ctx, collectionID, col); err != nil {
		return nil, err
	}

	s.indexChunks(ctx, collectionID, chunks)

	slog.Info("collection created",
		"collection_id", collectionID,
		"filename", filename,
		"chunk_count", len(chunks))

	return &UploadResult{
		CollectionID: collectionID,
		Filename:     filename,
		ChunkCount:   len(chunks),
		UploadedAt:   now,
	}, nil
}

// indexChunks embeds and upserts the chunks. Failures leave the
// collection on the substring-search path.
func (s *Service) indexChunks(ctx context.Context, collectionID string, chunks []string) {
	if s.index == nil {
		return
	}

	vecs, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		slog.Warn("embedding failed, collection will use substring search",
			"collection_id", collectionID,
			"error", err)
		return
	}

	if err := s.index.CreateCollection(ctx, collectionID); err != nil {
		slog.Warn("vector collection creation failed",
			"collection_id", collectionID,
			"error", err)
		return
	}

	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = fmt.Sprintf("%s-%d", collectionID, i)
	}
	if err := s.index.Upsert(ctx, collectionID, ids, vecs, chunks); err != nil {
		slog.Warn("vector upsert failed",
			"collection_id", collectionID,
			"error", err)
	}
}

// DeleteCollection removes the collection and its vector index. An
// index deletion failure is logged, not returned; the in-memory entry
// is gone either way.
func (s *Service) DeleteCollection(ctx context.Context, collectionID string) error {
	if _, ok := s.documents.Get(ctx, collectionID); !ok {
		return apperr.NotFoundf("collection %s not found", collectionID)
	}

	if err := s.documents.Delete(ctx, collectionID); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteCollection(ctx, collectionID); err != nil {
			slog.Warn("vector collection deletion failed",
				"collection_id", collectionID,
				"error", err)
		}
	}
	return nil
}

// ListCollections returns the registered collection IDs.
func (s *Service) ListCollections(ctx context.Context) []string {
	return s.documents.IDs(ctx)
}
