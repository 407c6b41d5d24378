// Package server wires the application together and runs the HTTP
// listener.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/synthesistalk/synthesistalk/internal/profile"
	"github.com/synthesistalk/synthesistalk/plugin/ai/agent"
	"github.com/synthesistalk/synthesistalk/plugin/ai/agent/tools"
	promptctx "github.com/synthesistalk/synthesistalk/plugin/ai/context"
	"github.com/synthesistalk/synthesistalk/plugin/ai/rag"
	"github.com/synthesistalk/synthesistalk/plugin/ai/store"
	"github.com/synthesistalk/synthesistalk/plugin/ai/vector"
	"github.com/synthesistalk/synthesistalk/plugin/extractor"
	"github.com/synthesistalk/synthesistalk/plugin/websearch"
	"github.com/synthesistalk/synthesistalk/server/ai"
	apiv1 "github.com/synthesistalk/synthesistalk/server/router/api/v1"
	"github.com/synthesistalk/synthesistalk/server/service/chat"
	"github.com/synthesistalk/synthesistalk/server/service/library"
)

// embeddingDimensions matches the text-embedding-3-small output width.
const embeddingDimensions = 1536

// Server is the assembled application.
type Server struct {
	profile *profile.Profile
	echo    *echo.Echo
	pgIndex *vector.PGIndex
}

// New builds the full dependency graph from the profile.
func New(ctx context.Context, prof *profile.Profile) (*Server, error) {
	provider, err := ai.NewProvider(&ai.Config{
		BaseURL:        prof.LLMBaseURL,
		APIKey:         prof.LLMAPIKey,
		ChatModel:      prof.LLMModel,
		EmbeddingModel: prof.EmbeddingModel,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create llm provider")
	}
	if err := provider.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate llm provider")
	}

	s := &Server{profile: prof}

	var index vector.Index
	if prof.VectorDSN != "" {
		pgIndex, err := vector.NewPGIndex(prof.VectorDSN, embeddingDimensions)
		if err != nil {
			return nil, errors.Wrap(err, "initialize pgvector index")
		}
		s.pgIndex = pgIndex
		index = pgIndex
		slog.Info("using pgvector index")
	} else {
		index = vector.NewMemoryIndex()
		slog.Info("using in-memory vector index")
	}

	memory := store.NewMemory()
	retriever := rag.NewRetriever(provider, index, memory)
	assembler := promptctx.NewAssembler(retriever, memory)

	searcher := websearch.NewClient(prof.WebSearchRPS)

	ext := extractor.New()
	extractor.NewTikaClient("").RegisterAll(ext)
	libraryService := library.NewService(ext, provider, index, memory)

	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		tools.NewWebSearchTool(searcher, provider),
		tools.NewDocumentSummarizeTool(memory, provider),
		tools.NewDocumentExtractTool(retriever, memory),
		tools.NewTakeNoteTool(memory.Notes()),
		tools.NewGetNotesTool(memory.Notes()),
		tools.NewExplainConceptTool(provider),
		tools.NewClarifyInformationTool(provider),
		tools.NewGenerateInsightsTool(memory, memory.Insights(), provider),
	} {
		if err := registry.Register(tool); err != nil {
			return nil, errors.Wrap(err, "register tool")
		}
	}

	engine := agent.NewEngine(provider, registry)
	chatService := chat.NewService(provider, engine, registry, assembler, memory)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	apiService := apiv1.NewAPIV1Service(prof, chatService, libraryService, memory, memory.Notes(), memory.Insights())
	apiService.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": prof.Version,
		})
	})

	s.echo = e
	return s, nil
}

// Start runs the HTTP listener until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	slog.Info("server starting", "addr", addr, "mode", s.profile.Mode, "version", s.profile.Version)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the listener and closes backend connections.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		slog.Error("echo shutdown failed", "error", err)
	}
	if s.pgIndex != nil {
		if err := s.pgIndex.Close(); err != nil {
			slog.Error("closing vector database failed", "error", err)
		}
	}
	slog.Info("server stopped")
	return nil
}
