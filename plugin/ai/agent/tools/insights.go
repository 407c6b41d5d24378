package tools

import (
	"context"
	"strings"

	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/server/ai"
)

const (
	// insightWindow is how many trailing messages feed the analysis.
	insightWindow = 10

	// insightMaxTokens bounds the generated insight text.
	insightMaxTokens = 800

	// insightConfidence is the fixed confidence attached to generated
	// insights; the model does not self-score.
	insightConfidence = 0.8
)

// GenerateInsightsTool distills the recent conversation into a stored
// research insight.
type GenerateInsightsTool struct {
	conversations store.ConversationStore
	insights      store.InsightStore
	llm           LLM
}

// NewGenerateInsightsTool creates a generate_insights tool.
func NewGenerateInsightsTool(conversations store.ConversationStore, insights store.InsightStore, llm LLM) *GenerateInsightsTool {
	return &GenerateInsightsTool{conversations: conversations, insights: insights, llm: llm}
}

func (t *GenerateInsightsTool) Name() string { return "generate_insights" }

func (t *GenerateInsightsTool) Signature() string { return "generate_insights(conversation_id)" }

func (t *GenerateInsightsTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"conversation_id"},
		Required: []string{"conversation_id"},
	}
}

func (t *GenerateInsightsTool) Call(ctx context.Context, params map[string]any) *Result {
	conversationID := stringParam(params, "conversation_id", "")

	if !t.conversations.Exists(ctx, conversationID) {
		return Fail(t.Name(), "Conversation not found")
	}

	msgs, err := t.conversations.List(ctx, conversationID)
	if err != nil {
		return Fail(t.Name(), err.Error())
	}
	if len(msgs) > insightWindow {
		msgs = msgs[len(msgs)-insightWindow:]
	}

	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, msg.Role+": "+msg.Content)
	}
	transcript := strings.Join(lines, "\n")

	content, err := t.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt("You are a research assistant. Identify the key insights, themes and " +
			"open questions in the following conversation. Be concise and specific."),
		ai.UserMessage(transcript),
	}, insightMaxTokens)
	if err != nil {
		return Fail(t.Name(), err.Error())
	}

	insight := store.Insight{
		Title:      "Conversation Insights",
		Content:    content,
		Sources:    []string{"conversation"},
		Confidence: insightConfidence,
	}
	if err := t.insights.Add(ctx, conversationID, insight); err != nil {
		return Fail(t.Name(), err.Error())
	}

	return Succeed(t.Name(), map[string]any{
		"insight":       insight,
		"message_count": len(msgs),
	})
}

var _ Tool = (*GenerateInsightsTool)(nil)
