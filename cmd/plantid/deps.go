package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vbonduro/plantid/internal/config"
	"github.com/vbonduro/plantid/internal/logging"
	"github.com/vbonduro/plantid/internal/vision"
	claudevision "github.com/vbonduro/plantid/internal/vision/claude"
	geminivision "github.com/vbonduro/plantid/internal/vision/gemini"
	ollamavision "github.com/vbonduro/plantid/internal/vision/ollama"
)

// loadConfig reads the config, preferring the --config flag over CONFIG_FILE.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	path := opts.configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setup loads the config and builds the logger. The returned cleanup func
// must be deferred.
func setup(opts *rootOptions) (*config.Config, *slog.Logger, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, cleanup, nil
}

// newModel picks the vision backend. A backend without credentials is
// replaced by vision.Unconfigured so the process still starts.
func newModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) vision.Model {
	switch cfg.VisionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Warn("CLAUDE_API_KEY is not set; identification will fail")
			return vision.Unconfigured{Backend: "claude"}
		}
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeModel(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.ClaudeBaseURL)
	case "ollama":
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaModel(cfg.OllamaHost, cfg.OllamaModel)
	default:
		if cfg.VisionBackend != "gemini" {
			logger.Warn("unknown vision backend, falling back to gemini", "backend", cfg.VisionBackend)
		}
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY is not set; identification will fail")
			return vision.Unconfigured{Backend: "gemini"}
		}
		m, err := geminivision.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			return vision.Unconfigured{Backend: "gemini"}
		}
		logger.Info("using Gemini vision backend", "model", cfg.GeminiModel)
		return m
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
