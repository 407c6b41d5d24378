// Package ai provides the language-model and embedding capabilities
// behind an OpenAI-compatible API.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"

	apperr "github.com/synthesistalk/synthesistalk/internal/errors"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	MaxRetries     int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.groq.com/openai/v1",
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "llama3-8b-8192",
		MaxRetries:     3,
	}
}

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// Helper for creating system prompts.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// Helper for creating user messages.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Helper for creating assistant messages.
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// Provider provides chat completion and embedding over one client.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new AI provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "llama3-8b-8192"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Complete performs a chat completion bounded by maxTokens.
func (p *Provider) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		llmMessages := make([]openai.ChatCompletionMessage, len(messages))
		for i, msg := range messages {
			llmMessages[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
		}

		req := openai.ChatCompletionRequest{
			Model:     p.config.ChatModel,
			Messages:  llmMessages,
			MaxTokens: maxTokens,
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		return "", apperr.LLMUnavailable("failed to complete chat", err)
	}

	return result, nil
}

// Embed generates embedding vectors for the given texts.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	err := p.doWithRetry(ctx, func() error {
		req := openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(p.config.EmbeddingModel),
		}

		resp, err := p.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("embedding count mismatch: want %d, got %d", len(texts), len(resp.Data))
		}
		result = make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			result[i] = d.Embedding
		}
		return nil
	})

	if err != nil {
		return nil, apperr.LLMUnavailable("failed to generate embeddings", err)
	}

	return result, nil
}

// Validate checks the provider configuration. A missing API key must be
// caught at startup, before the process starts serving.
func (p *Provider) Validate() error {
	if p.config.APIKey == "" {
		return apperr.ConfigInvalid("API key is required, set SYNTH_LLM_API_KEY")
	}
	return nil
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("AI request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
