package tools

import (
	"context"

	"github.com/synthesistalk/synthesistalk/server/ai"
)

const (
	explainMaxTokens = 1000
	clarifyMaxTokens = 800
)

// levelPrompts maps the audience level to the explainer's system prompt.
// Unknown levels fall back to intermediate.
var levelPrompts = map[string]string{
	"beginner": "You are a patient teacher. Explain the concept in simple terms " +
		"a complete beginner can follow, using everyday analogies and avoiding jargon.",
	"intermediate": "You are a knowledgeable tutor. Explain the concept clearly for " +
		"someone with basic familiarity with the field, defining any advanced terms you use.",
	"advanced": "You are a domain expert. Explain the concept rigorously for an " +
		"advanced audience, including technical details, trade-offs and edge cases.",
}

// ExplainConceptTool produces an audience-calibrated explanation of a
// concept through the language model.
type ExplainConceptTool struct {
	llm LLM
}

// NewExplainConceptTool creates an explain_concept tool.
func NewExplainConceptTool(llm LLM) *ExplainConceptTool {
	return &ExplainConceptTool{llm: llm}
}

func (t *ExplainConceptTool) Name() string { return "explain_concept" }

func (t *ExplainConceptTool) Signature() string { return "explain_concept(concept, level)" }

func (t *ExplainConceptTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"concept", "level"},
		Required: []string{"concept"},
	}
}

func (t *ExplainConceptTool) Call(ctx context.Context, params map[string]any) *Result {
	concept := stringParam(params, "concept", "")
	level := stringParam(params, "level", "intermediate")

	system, ok := levelPrompts[level]
	if !ok {
		level = "intermediate"
		system = levelPrompts[level]
	}

	explanation, err := t.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt(system),
		ai.UserMessage("Explain: " + concept),
	}, explainMaxTokens)
	if err != nil {
		return Fail(t.Name(), err.Error())
	}

	return Succeed(t.Name(), map[string]any{
		"concept":     concept,
		"level":       level,
		"explanation": explanation,
	})
}

// ClarifyInformationTool rephrases a confusing statement in plainer
// terms, optionally anchored to surrounding context.
type ClarifyInformationTool struct {
	llm LLM
}

// NewClarifyInformationTool creates a clarify_information tool.
func NewClarifyInformationTool(llm LLM) *ClarifyInformationTool {
	return &ClarifyInformationTool{llm: llm}
}

func (t *ClarifyInformationTool) Name() string { return "clarify_information" }

func (t *ClarifyInformationTool) Signature() string { return "clarify_information(information, context)" }

func (t *ClarifyInformationTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"information", "context"},
		Required: []string{"information"},
	}
}

func (t *ClarifyInformationTool) Call(ctx context.Context, params map[string]any) *Result {
	information := stringParam(params, "information", "")
	background := stringParam(params, "context", "")

	prompt := "Clarify the following information in simpler, more precise terms:\n\n" + information
	if background != "" {
		prompt += "\nContext: " + background
	}

	clarification, err := t.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt("You are a research assistant. Restate information clearly without changing its meaning."),
		ai.UserMessage(prompt),
	}, clarifyMaxTokens)
	if err != nil {
		return Fail(t.Name(), err.Error())
	}

	return Succeed(t.Name(), map[string]any{
		"original":      information,
		"clarification": clarification,
	})
}

var (
	_ Tool = (*ExplainConceptTool)(nil)
	_ Tool = (*ClarifyInformationTool)(nil)
)
