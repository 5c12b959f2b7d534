package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/HJantango/wild-octave-invoice/internal/backend/ai"
	"github.com/HJantango/wild-octave-invoice/internal/backend/azure"
	"github.com/HJantango/wild-octave-invoice/internal/backend/tesseract"
	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/enhance"
	"github.com/HJantango/wild-octave-invoice/internal/export"
	"github.com/HJantango/wild-octave-invoice/internal/extract"
	"github.com/HJantango/wild-octave-invoice/internal/llm/openai"
	"github.com/HJantango/wild-octave-invoice/internal/server"
)

func main() {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(1)
	}
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logger.Warn("running with degraded backends", "missing", missing)
	}

	adapter := buildAdapter(cfg, logger)
	enhancer := buildEnhancer(cfg, logger)
	exporter := export.NewService(logger)

	srv := server.New(cfg.Server, adapter, enhancer, exporter, cfg.MissingCredentials(), logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "providers", adapter.Providers())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

// buildAdapter registers every backend the configuration can support.
// Registration order doubles as the default-provider preference.
func buildAdapter(cfg *common.Config, logger *slog.Logger) *extract.Adapter {
	adapter := extract.NewAdapter(cfg.Azure.Locale, extract.NewTextParser(logger), logger)

	var textSource ai.TextSource

	azureBackend, err := azure.New(cfg.Azure, logger)
	if err != nil {
		logger.Warn("azure backend disabled", "error", err)
	} else {
		adapter.Register(azureBackend)
		textSource = azureBackend
	}

	localBackend := tesseract.New(cfg.Local, logger)
	if textSource == nil {
		textSource = localBackend
	}

	llmClient, err := openai.NewClient(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.Timeout,
	}, logger)
	if err != nil {
		logger.Warn("openai backend disabled", "error", err)
	} else {
		adapter.Register(ai.New(textSource, llmClient, logger))
	}

	adapter.Register(localBackend)
	return adapter
}

func buildEnhancer(cfg *common.Config, logger *slog.Logger) *enhance.Enhancer {
	rules := enhance.NewRuleEngine()
	var remote enhance.RemoteEnhancer
	if cfg.Enhance.Endpoint != "" {
		remote = enhance.NewHTTPEnhancer(cfg.Enhance, rules, logger)
	} else {
		logger.Info("remote enhancement disabled; using local rules only")
	}
	return enhance.NewEnhancer(remote, rules, cfg.Enhance.Timeout, logger)
}
