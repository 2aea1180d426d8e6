package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mandalnilabja/chatrelay/internal/app"
	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/provider/openai"
	"github.com/mandalnilabja/chatrelay/internal/relay"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler"
)

func main() {
	// A local .env fills in variables the environment does not already set.
	dotenvErr := godotenv.Load()

	cfg := config.Load()

	logger, err := setupLogger(cfg)
	if err != nil {
		logger.Warn("log file disabled", "error", err)
	}
	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		logger.Warn("failed to read .env", "error", dotenvErr)
	}

	if err := config.EnsureConfigFile(); err != nil {
		logger.Debug("config file not created", "path", config.ConfigPath(), "error", err)
	}

	printStartupBanner(cfg)

	if !cfg.HasCredential() {
		logger.Warn("upstream credential not set; chat requests will fail until it is", "env", config.CredentialEnv)
	}

	var tok tokenizer.Tokenizer
	if cfg.TokenEstimate {
		tok = tokenizer.New(cfg.Model)
	}

	upstream := openai.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	logger.Info("upstream configured",
		"provider", upstream.Name(),
		"base_url", upstream.BaseURL(),
		"model", cfg.Model,
		"timeout", cfg.UpstreamTimeout.String(),
	)

	repo := handler.NewRepo(relay.Options{
		Provider:     upstream,
		Credential:   cfg.Credential,
		Model:        cfg.Model,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Tokenizer:    tok,
		Logger:       logger,
	})

	router := app.NewRouter(repo, &app.RouterOptions{
		Logger:         logger,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	srv := app.NewServer(cfg, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			cancel()
			os.Exit(1)
		}
	}

	slog.Info("chatrelay stopped")
}
