// Package chat orchestrates one conversation turn: strategy selection,
// context assembly, reasoning and conversation bookkeeping.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/synthesistalk/synthesistalk/plugin/ai/agent"
	"github.com/synthesistalk/synthesistalk/plugin/ai/agent/tools"
	promptctx "github.com/synthesistalk/synthesistalk/plugin/ai/context"
	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/server/ai"
	"github.com/synthesistalk/synthesistalk/internal/observability"
)

const (
	// resetCommand truncates the conversation when sent as the message.
	resetCommand = "/reset"

	// resetAck is the fixed acknowledgment returned after a reset.
	resetAck = "Conversation history has been cleared. How can I help you?"

	// directMaxTokens bounds the plain completion path.
	directMaxTokens = 1500
)

// directSearchPattern recognizes explicit search commands and routes
// them straight to the web_search tool, bypassing the reasoning loop.
var directSearchPattern = regexp.MustCompile(`(?i)^\s*Search for information about:\s*(.+)$`)

// Reasoning strategy tags recorded on assistant messages.
const (
	ReasoningReset          = "reset"
	ReasoningTool           = "tool"
	ReasoningChainOfThought = "chain_of_thought"
	ReasoningReact          = "react"
	ReasoningDirect         = "direct"
)

// Request is one incoming conversation turn.
type Request struct {
	Message             string   `json:"message"`
	ConversationID      string   `json:"conversation_id"`
	UseChainOfThought   bool     `json:"use_chain_of_thought"`
	UseTools            bool     `json:"use_tools"`
	ContextLimit        int      `json:"context_limit"`
	DocumentCollections []string `json:"document_collections,omitempty"`
}

// Response is the completed turn.
type Response struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversation_id"`
	ReasoningType  string    `json:"reasoning_type"`
	Sources        []string  `json:"sources,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Service runs conversation turns.
type Service struct {
	llm           tools.LLM
	engine        *agent.Engine
	registry      *tools.Registry
	assembler     *promptctx.Assembler
	conversations store.ConversationStore
}

// NewService creates a chat service.
func NewService(llm tools.LLM, engine *agent.Engine, registry *tools.Registry, assembler *promptctx.Assembler, conversations store.ConversationStore) *Service {
	return &Service{
		llm:           llm,
		engine:        engine,
		registry:      registry,
		assembler:     assembler,
		conversations: conversations,
	}
}

// ProcessMessage handles one turn. Strategy precedence: reset command,
// direct search command, chain-of-thought flag, tool-augmented ReAct,
// plain completion. Reasoning never fails the turn; degraded answers
// come back as normal responses.
func (s *Service) ProcessMessage(ctx context.Context, req Request) (*Response, error) {
	rc := observability.NewRequestContext(slog.Default(), req.ConversationID)
	ctx = observability.WithRequestContext(ctx, rc)

	if strings.TrimSpace(req.Message) == resetCommand {
		return s.reset(ctx, rc, req)
	}

	if m := directSearchPattern.FindStringSubmatch(req.Message); m != nil && req.UseTools {
		return s.directSearch(ctx, rc, req, strings.TrimSpace(m[1]))
	}

	contextBlock := s.assembler.Assemble(ctx, req.Message, req.ConversationID, req.DocumentCollections, req.ContextLimit)

	if err := s.conversations.Append(ctx, req.ConversationID, store.Message{
		Role:    "user",
		Content: req.Message,
	}); err != nil {
		return nil, err
	}

	var answer, reasoningType string
	switch {
	case req.UseChainOfThought:
		rc.ReasoningType = ReasoningChainOfThought
		answer = s.engine.ChainOfThought(ctx, req.Message, contextBlock)
		reasoningType = ReasoningChainOfThought
	case req.UseTools:
		rc.ReasoningType = ReasoningReact
		answer = s.engine.React(ctx, req.Message, contextBlock, req.ConversationID)
		reasoningType = ReasoningReact
	default:
		rc.ReasoningType = ReasoningDirect
		answer = s.directCompletion(ctx, rc, contextBlock, req.Message)
		reasoningType = ReasoningDirect
	}

	return s.finishTurn(ctx, rc, req.ConversationID, answer, reasoningType, nil)
}

// reset truncates the conversation and returns the fixed acknowledgment
// without appending anything.
func (s *Service) reset(ctx context.Context, rc *observability.RequestContext, req Request) (*Response, error) {
	rc.ReasoningType = ReasoningReset
	if err := s.conversations.Reset(ctx, req.ConversationID); err != nil {
		return nil, err
	}
	rc.Info("conversation reset")

	return &Response{
		Response:       resetAck,
		ConversationID: req.ConversationID,
		ReasoningType:  ReasoningReset,
		Timestamp:      time.Now(),
	}, nil
}

// directSearch dispatches the web_search tool and formats its results
// as the response, recording the result URLs as sources.
func (s *Service) directSearch(ctx context.Context, rc *observability.RequestContext, req Request, query string) (*Response, error) {
	rc.ReasoningType = ReasoningTool

	if err := s.conversations.Append(ctx, req.ConversationID, store.Message{
		Role:    "user",
		Content: req.Message,
	}); err != nil {
		return nil, err
	}

	result := s.registry.Execute(ctx, "web_search", map[string]any{"query": query})

	answer, sources := formatSearchResult(query, result)
	return s.finishTurn(ctx, rc, req.ConversationID, answer, ReasoningTool, sources)
}

// directCompletion issues one plain completion over the assembled
// context. A model failure degrades to an apology string.
func (s *Service) directCompletion(ctx context.Context, rc *observability.RequestContext, contextBlock, message string) string {
	answer, err := s.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt("You are a helpful research assistant."),
		ai.UserMessage(contextBlock + message),
	}, directMaxTokens)
	if err != nil {
		rc.Error("direct completion failed", err)
		return "I'm sorry, I couldn't generate a response right now. Please try again."
	}
	return answer
}

// finishTurn appends the assistant message and builds the response.
func (s *Service) finishTurn(ctx context.Context, rc *observability.RequestContext, conversationID, answer, reasoningType string, sources []string) (*Response, error) {
	now := time.Now()
	if err := s.conversations.Append(ctx, conversationID, store.Message{
		Role:          "assistant",
		Content:       answer,
		Timestamp:     now,
		Sources:       sources,
		ReasoningType: reasoningType,
	}); err != nil {
		return nil, err
	}

	rc.Info("turn completed", slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return &Response{
		Response:       answer,
		ConversationID: conversationID,
		ReasoningType:  reasoningType,
		Sources:        sources,
		Timestamp:      now,
	}, nil
}

// formatSearchResult turns a web_search tool result into display text
// plus the list of source URLs.
func formatSearchResult(query string, result *tools.Result) (string, []string) {
	if !result.Success {
		return fmt.Sprintf("Search for %q failed: %s", query, result.Err), nil
	}

	entries, _ := result.Payload["results"].([]map[string]any)
	if len(entries) == 0 {
		if msg, ok := result.Payload["message"].(string); ok && msg != "" {
			return msg, nil
		}
		return fmt.Sprintf("No search results found for '%s'.", query), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Here's what I found about %q:\n\n", query))
	sources := make([]string, 0, len(entries))
	for i, entry := range entries {
		title, _ := entry["title"].(string)
		url, _ := entry["url"].(string)
		summary, _ := entry["summary"].(string)

		sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, title, url))
		if summary != "" {
			sb.WriteString("   ")
			sb.WriteString(summary)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		if url != "" {
			sources = append(sources, url)
		}
	}
	return strings.TrimRight(sb.String(), "\n"), sources
}
