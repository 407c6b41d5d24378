package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is the process-wide in-memory implementation of all four
// stores. Maps are guarded by one RWMutex per concern; atomicity of
// "read last N turns, then append" across concurrent requests for one
// conversation is explicitly not guaranteed.
type Memory struct {
	convMu        sync.RWMutex
	conversations map[string][]Message

	docMu       sync.RWMutex
	collections map[string]*Collection

	noteMu sync.RWMutex
	notes  map[string][]Note

	insightMu sync.RWMutex
	insights  map[string][]Insight
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		conversations: make(map[string][]Message),
		collections:   make(map[string]*Collection),
		notes:         make(map[string][]Note),
		insights:      make(map[string][]Insight),
	}
}

// Append adds a message to the conversation, creating it if needed.
func (m *Memory) Append(_ context.Context, conversationID string, msg Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	m.convMu.Lock()
	defer m.convMu.Unlock()
	m.conversations[conversationID] = append(m.conversations[conversationID], msg)
	return nil
}

// List returns a copy of all messages in order.
func (m *Memory) List(_ context.Context, conversationID string) ([]Message, error) {
	m.convMu.RLock()
	defer m.convMu.RUnlock()

	msgs := m.conversations[conversationID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Exists reports whether the conversation has ever been written to.
func (m *Memory) Exists(_ context.Context, conversationID string) bool {
	m.convMu.RLock()
	defer m.convMu.RUnlock()
	_, ok := m.conversations[conversationID]
	return ok
}

// Reset truncates the conversation to zero messages.
func (m *Memory) Reset(_ context.Context, conversationID string) error {
	m.convMu.Lock()
	defer m.convMu.Unlock()
	m.conversations[conversationID] = nil
	return nil
}

// Put registers a collection under the given ID.
func (m *Memory) Put(_ context.Context, collectionID string, col *Collection) error {
	m.docMu.Lock()
	defer m.docMu.Unlock()
	m.collections[collectionID] = col
	return nil
}

// Get returns the collection, or false if it does not exist.
func (m *Memory) Get(_ context.Context, collectionID string) (*Collection, bool) {
	m.docMu.RLock()
	defer m.docMu.RUnlock()
	col, ok := m.collections[collectionID]
	return col, ok
}

// Delete removes the collection.
func (m *Memory) Delete(_ context.Context, collectionID string) error {
	m.docMu.Lock()
	defer m.docMu.Unlock()
	delete(m.collections, collectionID)
	return nil
}

// IDs returns all collection IDs.
func (m *Memory) IDs(_ context.Context) []string {
	m.docMu.RLock()
	defer m.docMu.RUnlock()

	ids := make([]string, 0, len(m.collections))
	for id := range m.collections {
		ids = append(ids, id)
	}
	return ids
}

// Add appends a note and returns it with its assigned ID.
func (m *Memory) Add(_ context.Context, conversationID string, content, category string) (Note, error) {
	if category == "" {
		category = "general"
	}
	note := Note{
		ID:        uuid.New().String(),
		Content:   content,
		Category:  category,
		Timestamp: time.Now(),
	}

	m.noteMu.Lock()
	defer m.noteMu.Unlock()
	m.notes[conversationID] = append(m.notes[conversationID], note)
	return note, nil
}

// ListNotes returns notes for a conversation, optionally filtered by category.
func (m *Memory) ListNotes(_ context.Context, conversationID, category string) ([]Note, error) {
	m.noteMu.RLock()
	defer m.noteMu.RUnlock()

	notes := m.notes[conversationID]
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if category == "" || n.Category == category {
			out = append(out, n)
		}
	}
	return out, nil
}

// AddInsight appends an insight to the conversation's list.
func (m *Memory) AddInsight(_ context.Context, conversationID string, insight Insight) error {
	m.insightMu.Lock()
	defer m.insightMu.Unlock()
	m.insights[conversationID] = append(m.insights[conversationID], insight)
	return nil
}

// ListInsights returns insights for a conversation in append order.
func (m *Memory) ListInsights(_ context.Context, conversationID string) ([]Insight, error) {
	m.insightMu.RLock()
	defer m.insightMu.RUnlock()

	insights := m.insights[conversationID]
	out := make([]Insight, len(insights))
	copy(out, insights)
	return out, nil
}

// Interface adapters: Memory implements all four store interfaces, but
// NoteStore and InsightStore have colliding method names (Add/List), so
// narrow views expose them separately.

// Notes returns the NoteStore view of the memory store.
func (m *Memory) Notes() NoteStore { return noteView{m} }

// Insights returns the InsightStore view of the memory store.
func (m *Memory) Insights() InsightStore { return insightView{m} }

type noteView struct{ m *Memory }

func (v noteView) Add(ctx context.Context, conversationID, content, category string) (Note, error) {
	return v.m.Add(ctx, conversationID, content, category)
}

func (v noteView) List(ctx context.Context, conversationID, category string) ([]Note, error) {
	return v.m.ListNotes(ctx, conversationID, category)
}

type insightView struct{ m *Memory }

func (v insightView) Add(ctx context.Context, conversationID string, insight Insight) error {
	return v.m.AddInsight(ctx, conversationID, insight)
}

func (v insightView) List(ctx context.Context, conversationID string) ([]Insight, error) {
	return v.m.ListInsights(ctx, conversationID)
}

var (
	_ ConversationStore = (*Memory)(nil)
	_ DocumentStore     = (*Memory)(nil)
	_ NoteStore         = noteView{}
	_ InsightStore      = insightView{}
)
