package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synthesistalk/synthesistalk/internal/profile"
	"github.com/synthesistalk/synthesistalk/server"
)

const (
	version = "1.0.0"

	greetingBanner = `SynthesisTalk - research assistant backend`
)

var rootCmd = &cobra.Command{
	Use:   "synthesistalk",
	Short: "A research-assistant chat backend with RAG and agent tools",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		prof := &profile.Profile{
			Mode:           viper.GetString("mode"),
			Addr:           viper.GetString("addr"),
			Port:           viper.GetInt("port"),
			Version:        version,
			LLMAPIKey:      viper.GetString("llm-api-key"),
			LLMBaseURL:     viper.GetString("llm-base-url"),
			LLMModel:       viper.GetString("llm-model"),
			EmbeddingModel: viper.GetString("embedding-model"),
			VectorDSN:      viper.GetString("vector-dsn"),
			WebSearchRPS:   viper.GetFloat64("websearch-rps"),
		}
		prof.FromEnv()
		prof.ApplyDefaults()

		setupLogger(prof)

		if err := prof.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		srv, err := server.New(ctx, prof)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		fmt.Println(greetingBanner)
		if err := srv.Start(ctx); err != nil {
			slog.Error("server exited with error", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `server mode, "dev" or "prod"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address")
	rootCmd.PersistentFlags().Int("port", 8000, "binding port")
	rootCmd.PersistentFlags().String("llm-api-key", "", "API key for the LLM provider")
	rootCmd.PersistentFlags().String("llm-base-url", "", "base URL of the OpenAI-compatible LLM API")
	rootCmd.PersistentFlags().String("llm-model", "", "chat completion model")
	rootCmd.PersistentFlags().String("embedding-model", "", "embedding model")
	rootCmd.PersistentFlags().String("vector-dsn", "", "Postgres DSN for the pgvector index; empty uses the in-memory index")
	rootCmd.PersistentFlags().Float64("websearch-rps", 2, "outbound web request rate limit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("synth")
	viper.AutomaticEnv()
}

// setupLogger installs the process-wide structured logger. Dev mode
// logs at debug with text output; prod logs at info with JSON.
func setupLogger(prof *profile.Profile) {
	var handler slog.Handler
	if prof.IsDev() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
