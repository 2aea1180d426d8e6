package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/version"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// setupLogger builds the process logger. Logs go to stdout, and also to a
// rotated file when cfg.LogFile is set.
func setupLogger(cfg *config.Config) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var out io.Writer = os.Stdout
	var fileErr error
	if path := strings.TrimSpace(cfg.LogFile); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			fileErr = fmt.Errorf("failed to create log directory: %w", err)
		} else {
			out = io.MultiWriter(os.Stdout, newRotatingWriter(path))
		}
	}

	logger := slog.New(newHandler(cfg.LogFormat, out, opts))
	slog.SetDefault(logger)
	return logger, fileErr
}

func newRotatingWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "chatrelay %s - chat relay for OpenAI-compatible APIs\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Chat:       http://localhost%s/api/chat\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Health:     http://localhost%s/api/health\n", cfg.ServerPort)
	if cfg.MetricsEnabled {
		fmt.Fprintf(os.Stderr, "Metrics:    http://localhost%s/metrics\n", cfg.ServerPort)
	}
	fmt.Fprintf(os.Stderr, "Upstream:   %s (%s)\n", cfg.UpstreamBaseURL, cfg.Model)
	fmt.Fprintf(os.Stderr, "Config:     %s\n", config.ConfigPath())
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
