package tools

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/synthesistalk/synthesistalk/plugin/ai/rag"
	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/server/ai"
)

const (
	// summarizeChunksPerDoc caps how many leading chunks of each
	// document feed the summary prompt.
	summarizeChunksPerDoc = 5

	// defaultSummaryLength is the target summary length in words.
	defaultSummaryLength = 500

	// defaultExtractLength is the per-sentence truncation bound in words.
	defaultExtractLength = 200

	// extractTopK is how many relevant chunks to mine for sentences.
	extractTopK = 3
)

// DocumentSummarizeTool summarizes an uploaded document collection.
type DocumentSummarizeTool struct {
	documents store.DocumentStore
	llm       LLM
}

// NewDocumentSummarizeTool creates a document summarize tool.
func NewDocumentSummarizeTool(documents store.DocumentStore, llm LLM) *DocumentSummarizeTool {
	return &DocumentSummarizeTool{documents: documents, llm: llm}
}

func (t *DocumentSummarizeTool) Name() string { return "document_summarize" }

func (t *DocumentSummarizeTool) Signature() string {
	return "document_summarize(collection_id, max_length)"
}

func (t *DocumentSummarizeTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"collection_id", "max_length"},
		Required: []string{"collection_id"},
	}
}

func (t *DocumentSummarizeTool) Call(ctx context.Context, params map[string]any) *Result {
	collectionID := stringParam(params, "collection_id", "")
	maxLength := intParam(params, "max_length", defaultSummaryLength)

	col, ok := t.documents.Get(ctx, collectionID)
	if !ok {
		return Fail(t.Name(), "Collection not found")
	}

	names := make([]string, 0, len(col.Documents))
	for name := range col.Documents {
		names = append(names, name)
	}
	sort.Strings(names)

	var chunks []string
	for _, name := range names {
		doc := col.Documents[name]
		n := len(doc.Chunks)
		if n > summarizeChunksPerDoc {
			n = summarizeChunksPerDoc
		}
		chunks = append(chunks, doc.Chunks[:n]...)
	}
	content := strings.Join(chunks, "\n\n")

	summary, err := t.llm.Complete(ctx, []ai.Message{
		ai.SystemPrompt("You are a research assistant. Provide a concise summary of the following text."),
		ai.UserMessage("Summarize in ~" + strconv.Itoa(maxLength) + " words:\n\n" + content),
	}, maxLength*2)
	if err != nil {
		return Fail(t.Name(), err.Error())
	}

	return Succeed(t.Name(), map[string]any{
		"summary":      summary,
		"source_count": len(col.Documents),
	})
}

// DocumentExtractTool pulls query-relevant sentences from a collection.
type DocumentExtractTool struct {
	retriever *rag.Retriever
	documents store.DocumentStore
}

// NewDocumentExtractTool creates a document extract tool.
func NewDocumentExtractTool(retriever *rag.Retriever, documents store.DocumentStore) *DocumentExtractTool {
	return &DocumentExtractTool{retriever: retriever, documents: documents}
}

func (t *DocumentExtractTool) Name() string { return "document_extract" }

func (t *DocumentExtractTool) Signature() string {
	return "document_extract(collection_id, query, max_length)"
}

func (t *DocumentExtractTool) Spec() ParamSpec {
	return ParamSpec{
		Allowed:  []string{"collection_id", "query", "max_length"},
		Required: []string{"collection_id", "query"},
	}
}

// Call retrieves the top chunks for the query, then extracts the first
// sentence containing the query from each. Chunks without a matching
// sentence fall back to a word-truncated whole chunk.
func (t *DocumentExtractTool) Call(ctx context.Context, params map[string]any) *Result {
	collectionID := stringParam(params, "collection_id", "")
	query := stringParam(params, "query", "")
	maxLength := intParam(params, "max_length", defaultExtractLength)

	if _, ok := t.documents.Get(ctx, collectionID); !ok {
		return Fail(t.Name(), "Collection not found")
	}

	chunks := t.retriever.Retrieve(ctx, query, []string{collectionID})
	if len(chunks) > extractTopK {
		chunks = chunks[:extractTopK]
	}

	needle := strings.ToLower(query)
	var relevant []string
	for _, chunk := range chunks {
		for _, sent := range ai.SplitSentences(chunk) {
			if strings.Contains(strings.ToLower(sent), needle) {
				relevant = append(relevant, ai.TruncateWords(sent, maxLength))
				break
			}
		}
		if len(relevant) >= extractTopK {
			break
		}
	}

	if len(relevant) == 0 {
		for _, chunk := range chunks {
			relevant = append(relevant, ai.TruncateWords(chunk, maxLength))
		}
	}

	return Succeed(t.Name(), map[string]any{
		"query":           query,
		"relevant_chunks": relevant,
		"chunk_count":     len(relevant),
	})
}

var (
	_ Tool = (*DocumentSummarizeTool)(nil)
	_ Tool = (*DocumentExtractTool)(nil)
)
