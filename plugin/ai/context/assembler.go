// Package context assembles the prompt context for a conversation turn:
// retrieved document chunks first, then the most recent conversation
// history.
package context

import (
	"context"
	"log/slog"
	"strings"

	"github.com/synthesistalk/synthesistalk/plugin/ai/rag"
	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
)

// DefaultHistoryLimit bounds how many total turns (history plus the
// incoming message) one prompt context covers when the caller does not
// say.
const DefaultHistoryLimit = 10

// Assembler builds the context block passed to the reasoning layer.
type Assembler struct {
	retriever     *rag.Retriever
	conversations store.ConversationStore
	historyLimit  int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithHistoryLimit overrides the turn budget.
func WithHistoryLimit(limit int) Option {
	return func(a *Assembler) {
		if limit > 0 {
			a.historyLimit = limit
		}
	}
}

// NewAssembler creates a context assembler.
func NewAssembler(retriever *rag.Retriever, conversations store.ConversationStore, opts ...Option) *Assembler {
	a := &Assembler{
		retriever:     retriever,
		conversations: conversations,
		historyLimit:  DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble returns the context text for the incoming query: the
// retrieval block (when collections are attached and yield chunks)
// followed by the last limit-1 turns as "role: content" lines, the
// last slot being reserved for the incoming message. A non-positive
// limit falls back to the assembler's configured one. Call before
// appending the incoming message so the query itself is not echoed as
// history.
func (a *Assembler) Assemble(ctx context.Context, query, conversationID string, collectionIDs []string, limit int) string {
	if limit <= 0 {
		limit = a.historyLimit
	}

	var sb strings.Builder

	if len(collectionIDs) > 0 {
		if block := a.retriever.BuildContext(ctx, query, collectionIDs); block != "" {
			sb.WriteString(block)
			sb.WriteString("\n\n")
		}
	}

	msgs, err := a.conversations.List(ctx, conversationID)
	if err != nil {
		slog.Warn("listing conversation history failed", "conversation_id", conversationID, "error", err)
		msgs = nil
	}
	if keep := limit - 1; len(msgs) > keep {
		msgs = msgs[len(msgs)-keep:]
	}
	for _, msg := range msgs {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	// Trailing blank line separates the block from the incoming message.
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}
