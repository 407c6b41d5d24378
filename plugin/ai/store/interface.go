// Package store provides the in-memory state behind conversations,
// document collections, notes and research insights. Everything here is
// transient, process-lifetime state; the interfaces exist so a
// persistent or lock-protected backend can be swapped in without
// touching callers.
package store

import (
	"context"
	"time"
)

// Message represents a single conversation turn. Immutable once appended.
type Message struct {
	Role          string    `json:"role"` // "user" | "assistant"
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	Sources       []string  `json:"sources,omitempty"`
	ReasoningType string    `json:"reasoning_type,omitempty"`
}

// Note is an append-only annotation owned by a conversation.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// Insight is a generated research insight owned by a conversation.
type Insight struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// Document holds the extracted text of one uploaded document and its
// retrieval chunks, in order.
type Document struct {
	Text   string   `json:"text"`
	Chunks []string `json:"chunks"`
}

// Collection groups the documents uploaded under one collection ID.
type Collection struct {
	Filename   string               `json:"filename"`
	UploadedAt time.Time            `json:"uploaded_at"`
	ChunkCount int                  `json:"chunk_count"`
	Documents  map[string]*Document `json:"documents"`
}

// ConversationStore is the append-only conversation history store.
// Conversations are created implicitly on first reference.
type ConversationStore interface {
	// Append adds a message to the conversation.
	Append(ctx context.Context, conversationID string, msg Message) error

	// List returns all messages in order. Unknown IDs yield an empty slice.
	List(ctx context.Context, conversationID string) ([]Message, error)

	// Exists reports whether the conversation has ever been written to.
	Exists(ctx context.Context, conversationID string) bool

	// Reset truncates the conversation to zero messages.
	Reset(ctx context.Context, conversationID string) error
}

// DocumentStore holds uploaded document collections.
type DocumentStore interface {
	// Put registers a collection under the given ID.
	Put(ctx context.Context, collectionID string, col *Collection) error

	// Get returns the collection, or false if it does not exist.
	Get(ctx context.Context, collectionID string) (*Collection, bool)

	// Delete removes the collection. Deleting an unknown ID is a no-op.
	Delete(ctx context.Context, collectionID string) error

	// IDs returns all collection IDs.
	IDs(ctx context.Context) []string
}

// NoteStore is the append-only note store, keyed by conversation ID.
type NoteStore interface {
	// Add appends a note and returns it with its assigned ID.
	Add(ctx context.Context, conversationID string, content, category string) (Note, error)

	// List returns notes for a conversation, optionally filtered by
	// category. Unknown conversation IDs yield an empty slice.
	List(ctx context.Context, conversationID, category string) ([]Note, error)
}

// InsightStore is the append-only research insight store.
type InsightStore interface {
	// Add appends an insight to the conversation's list.
	Add(ctx context.Context, conversationID string, insight Insight) error

	// List returns insights for a conversation in append order.
	List(ctx context.Context, conversationID string) ([]Insight, error)
}
