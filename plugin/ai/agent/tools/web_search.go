package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/synthesistalk/synthesistalk/plugin/websearch"
	"github.com/synthesistalk/synthesistalk/server/ai"
)

const (
	// defaultNumResults is how many search hits to process.
	defaultNumResults = 5

	// summaryInputLimit bounds the scraped text fed to the summarizer.
	summaryInputLimit = 2000

	// summaryMaxTokens bounds the generated summary (~200 words).
	summaryMaxTokens = 400
)

// Searcher is the web search + page fetch capability.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) []websearch.SearchResult
	Fetch(ctx context.Context, pageURL string) string
}

// WebSearchTool searches the web, scrapes each hit and summarizes the
// page content through the language model.
type WebSearchTool struct {
	searcher Searcher
	llm      LLM
}

// NewWebSearchTool creates a web search tool.
func NewWebSearchTool(searcher Searcher, llm LLM) *WebSearchTool {
	return &WebSearchTool{searcher: searcher, llm: llm}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Signature() string { return "web_search(query, num_results)" }

func (t *WebSearchTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"query", "num_results"},
		Required: []string{"query"},
	}
}

// Call performs the search. A failed summary for one page falls back to
// that page's snippet instead of failing the whole call.
func (t *WebSearchTool) Call(ctx context.Context, params map[string]any) *Result {
	query := stringParam(params, "query", "")
	numResults := intParam(params, "num_results", defaultNumResults)

	raw := t.searcher.Search(ctx, query, numResults)
	if len(raw) == 0 {
		return Succeed(t.Name(), map[string]any{
			"results": []map[string]any{},
			"count":   0,
			"message": fmt.Sprintf("No search results found for '%s'.", query),
		})
	}

	summarized := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		pageText := t.searcher.Fetch(ctx, entry.URL)

		summary, err := t.summarize(ctx, pageText)
		if err != nil {
			slog.Warn("page summarization failed, using snippet",
				"url", entry.URL,
				"error", err)
			summary = entry.Snippet
			if summary == "" {
				summary = "No summary available."
			}
		}

		summarized = append(summarized, map[string]any{
			"title":   entry.Title,
			"url":     entry.URL,
			"snippet": entry.Snippet,
			"summary": summary,
		})
	}

	return Succeed(t.Name(), map[string]any{
		"results": summarized,
		"count":   len(summarized),
	})
}

func (t *WebSearchTool) summarize(ctx context.Context, pageText string) (string, error) {
	truncated := pageText
	if len(truncated) > summaryInputLimit {
		truncated = truncated[:summaryInputLimit]
	}

	prompt := "You are a research assistant. Provide a concise summary (in ~200 words) " +
		"of the following web page content:\n\n" + truncated

	return t.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt("Summarize this web page content clearly."),
		ai.UserMessage(prompt),
	}, summaryMaxTokens)
}

var _ Tool = (*WebSearchTool)(nil)
