package profile

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	apperr "github.com/synthesistalk/synthesistalk/internal/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for the server
	Addr string
	// Port is the binding port for the server
	Port int
	// Version is the current version of the server
	Version string

	// LLM configuration
	LLMAPIKey  string // SYNTH_LLM_API_KEY
	LLMBaseURL string // SYNTH_LLM_BASE_URL (default: https://api.groq.com/openai/v1)
	LLMModel   string // SYNTH_LLM_MODEL (default: llama3-8b-8192)

	// Embedding configuration
	EmbeddingModel string // SYNTH_EMBEDDING_MODEL (default: text-embedding-3-small)

	// Vector index configuration. When VectorDSN is empty the in-memory
	// index is used; otherwise a pgvector-backed index is created.
	VectorDSN string // SYNTH_VECTOR_DSN

	// WebSearchRPS caps outbound search/fetch requests per second.
	WebSearchRPS float64 // SYNTH_WEBSEARCH_RPS (default: 2)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from SYNTH_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("SYNTH_MODE", p.Mode)
	p.Addr = getEnvOrDefault("SYNTH_ADDR", p.Addr)
	if port := os.Getenv("SYNTH_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			p.Port = v
		} else {
			slog.Warn("invalid SYNTH_PORT, keeping current value", "value", port)
		}
	}

	p.LLMAPIKey = getEnvOrDefault("SYNTH_LLM_API_KEY", p.LLMAPIKey)
	p.LLMBaseURL = getEnvOrDefault("SYNTH_LLM_BASE_URL", p.LLMBaseURL)
	p.LLMModel = getEnvOrDefault("SYNTH_LLM_MODEL", p.LLMModel)
	p.EmbeddingModel = getEnvOrDefault("SYNTH_EMBEDDING_MODEL", p.EmbeddingModel)
	p.VectorDSN = getEnvOrDefault("SYNTH_VECTOR_DSN", p.VectorDSN)

	if rps := os.Getenv("SYNTH_WEBSEARCH_RPS"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil && v > 0 {
			p.WebSearchRPS = v
		}
	}
}

// ApplyDefaults fills unset fields with defaults.
func (p *Profile) ApplyDefaults() {
	if p.Mode == "" {
		p.Mode = "dev"
	}
	if p.Port == 0 {
		p.Port = 8000
	}
	if p.LLMBaseURL == "" {
		p.LLMBaseURL = "https://api.groq.com/openai/v1"
	}
	if p.LLMModel == "" {
		p.LLMModel = "llama3-8b-8192"
	}
	if p.EmbeddingModel == "" {
		p.EmbeddingModel = "text-embedding-3-small"
	}
	if p.WebSearchRPS == 0 {
		p.WebSearchRPS = 2
	}
}

// Validate checks that the profile can serve requests. A missing LLM
// credential is fatal: the process must not start serving without it.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.LLMAPIKey) == "" {
		return apperr.ConfigInvalid("SYNTH_LLM_API_KEY is not set")
	}
	if p.Port <= 0 || p.Port > 65535 {
		return apperr.ConfigInvalidf("invalid port: %d", p.Port)
	}
	return nil
}
