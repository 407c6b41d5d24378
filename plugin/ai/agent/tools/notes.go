package tools

import (
	"context"

	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
)

// TakeNoteTool appends a note to a conversation's note list.
type TakeNoteTool struct {
	notes store.NoteStore
}

// NewTakeNoteTool creates a take_note tool.
func NewTakeNoteTool(notes store.NoteStore) *TakeNoteTool {
	return &TakeNoteTool{notes: notes}
}

func (t *TakeNoteTool) Name() string { return "take_note" }

func (t *TakeNoteTool) Signature() string { return "take_note(conversation_id, note, category)" }

func (t *TakeNoteTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"conversation_id", "note", "category"},
		Required: []string{"conversation_id", "note"},
	}
}

func (t *TakeNoteTool) Call(ctx context.Context, params map[string]any) *Result {
	conversationID := stringParam(params, "conversation_id", "")
	content := stringParam(params, "note", "")
	category := stringParam(params, "category", "general")

	note, err := t.notes.Add(ctx, conversationID, content, category)
	if err != nil {
		return Fail(t.Name(), err.Error())
	}

	return Succeed(t.Name(), map[string]any{
		"note_id": note.ID,
		"message": "Note saved",
	})
}

// GetNotesTool lists a conversation's notes, optionally by category.
type GetNotesTool struct {
	notes store.NoteStore
}

// NewGetNotesTool creates a get_notes tool.
func NewGetNotesTool(notes store.NoteStore) *GetNotesTool {
	return &GetNotesTool{notes: notes}
}

func (t *GetNotesTool) Name() string { return "get_notes" }

func (t *GetNotesTool) Signature() string { return "get_notes(conversation_id, category)" }

func (t *GetNotesTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"conversation_id", "category"},
		Required: []string{"conversation_id"},
	}
}

// Call returns the notes. An unknown conversation yields an empty list,
// not an error.
func (t *GetNotesTool) Call(ctx context.Context, params map[string]any) *Result {
	conversationID := stringParam(params, "conversation_id", "")
	category := stringParam(params, "category", "")

	notes, err := t.notes.List(ctx, conversationID, category)
	if err != nil {
		return Fail(t.Name(), err.Error())
	}

	return Succeed(t.Name(), map[string]any{
		"notes": notes,
		"count": len(notes),
	})
}

var (
	_ Tool = (*TakeNoteTool)(nil)
	_ Tool = (*GetNotesTool)(nil)
)
