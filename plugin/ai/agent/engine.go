// Package agent implements the reasoning engine: single-shot
// chain-of-thought and the iterative ReAct loop over the tool registry.
// Reasoning is best-effort; the engine degrades to fallback text
// instead of surfacing errors to the caller.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/synthesistalk/synthesistalk/plugin/ai/agent/tools"
	"github.com/synthesistalk/synthesistalk/server/ai"
	"github.com/synthesistalk/synthesistalk/internal/observability"
)

const (
	// maxIterations caps the ReAct reason-act loop.
	maxIterations = 3

	// maxObservation caps one reasoning-log observation, in runes.
	maxObservation = 2000

	chainOfThoughtMaxTokens = 1500
	thoughtMaxTokens        = 500
	synthesisMaxTokens      = 1000
)

// Engine drives chain-of-thought and ReAct reasoning.
type Engine struct {
	llm      tools.LLM
	registry *tools.Registry
}

// NewEngine creates a reasoning engine over the given model and tool set.
func NewEngine(llm tools.LLM, registry *tools.Registry) *Engine {
	return &Engine{llm: llm, registry: registry}
}

// ChainOfThought runs one step-by-step completion over the query and
// assembled context. A model failure is reported inside the returned
// text, never as an error.
func (e *Engine) ChainOfThought(ctx context.Context, query, contextText string) string {
	answer, err := e.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt("Use step-by-step reasoning."),
		ai.UserMessage(chainOfThoughtPrompt(query, contextText)),
	}, chainOfThoughtMaxTokens)
	if err != nil {
		slog.Error("chain-of-thought completion failed", "error", err)
		return fmt.Sprintf("Error during chain-of-thought reasoning: %v", err)
	}
	return answer
}

// React runs the iterative reason-act loop: up to maxIterations rounds
// of thought generation, directive parsing and tool execution, then a
// synthesis pass over the accumulated reasoning log. contextText is the
// assembled retrieval-and-history block; it is echoed into every
// thought prompt. Any failure along the way degrades to a direct
// fallback response.
func (e *Engine) React(ctx context.Context, query, contextText, conversationID string) string {
	rc, ok := observability.FromContext(ctx)
	if !ok {
		rc = observability.NewRequestContext(slog.Default(), conversationID)
	}
	sc := StepContext{Query: query, ConversationID: conversationID}

	var reasoningLog []string
loop:
	for i := 0; i < maxIterations; i++ {
		step, err := e.llm.Complete(ctx, []ai.Message{
			ai.SystemPrompt("You are a reasoning agent. Think step by step."),
			ai.UserMessage(thoughtPrompt(query, contextText, reasoningLog, e.registry.Menu())),
		}, thoughtMaxTokens)
		if err != nil {
			rc.Error("reasoning step failed", err, slog.Int(observability.LogFieldIteration, i+1))
			return reactFallback(query)
		}
		reasoningLog = append(reasoningLog, fmt.Sprintf("Iteration %d: %s", i+1, step))

		directive := ParseDirective(step)
		switch directive.Kind {
		case DirectiveFinish:
			rc.Info("reasoning loop finished", slog.Int(observability.LogFieldIteration, i+1))
			break loop
		case DirectiveUnparsable:
			reasoningLog = append(reasoningLog, "No action identified; breaking.")
			rc.Warn("no action identified in reasoning step", slog.Int(observability.LogFieldIteration, i+1))
			break loop
		}

		tool, ok := e.registry.Get(directive.Tool)
		if !ok {
			// Let the registry produce its canonical unknown-tool result.
			result := e.registry.Execute(ctx, directive.Tool, directive.Params)
			reasoningLog = append(reasoningLog, truncateObservation(result.String()))
			continue
		}

		params, ok := prepareParams(tool, directive.Params, sc)
		if !ok {
			rc.Warn("missing parameters, skipping action",
				slog.String(observability.LogFieldTool, directive.Tool),
				slog.Int(observability.LogFieldIteration, i+1))
			continue
		}

		result := e.registry.Execute(ctx, directive.Tool, params)
		reasoningLog = append(reasoningLog, truncateObservation(result.String()))
	}

	answer, err := e.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt("Synthesize the reasoning and answer the query."),
		ai.UserMessage(synthesisPrompt(query, reasoningLog)),
	}, synthesisMaxTokens)
	if err != nil {
		rc.Error("synthesis completion failed", err)
		return reactFallback(query)
	}
	return answer
}

// reactFallback is the degraded response when reasoning cannot complete.
func reactFallback(query string) string {
	return "I encountered an error during reasoning. Here's a direct response: " + query
}

// truncateObservation bounds one log entry so a large tool payload
// cannot blow up later prompts.
func truncateObservation(s string) string {
	runes := []rune(s)
	if len(runes) <= maxObservation {
		return s
	}
	return string(runes[:maxObservation]) + "…"
}
