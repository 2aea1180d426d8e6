package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the relay and its upstream call.
const (
	DefaultServerPort      = ":8080"
	DefaultUpstreamBaseURL = "https://api.openai.com/v1"
	DefaultModel           = "gpt-4o-mini"
	DefaultUpstreamTimeout = 60 * time.Second
	DefaultMaxBodyBytes    = 1 << 20
)

// CredentialEnv is the environment variable holding the upstream API key.
// The key is only ever read from the environment, never from the config file.
const CredentialEnv = "OPENAI_API_KEY"

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// Credential is the bearer token injected into upstream requests.
	// Empty means the deployment is misconfigured; requests fail with 500.
	Credential string

	// UpstreamBaseURL is the chat completions API root (without /chat/completions)
	UpstreamBaseURL string

	// Model is the model identifier sent upstream
	Model string

	// UpstreamTimeout bounds each upstream call
	UpstreamTimeout time.Duration

	// MaxBodyBytes caps the inbound request body
	MaxBodyBytes int64

	LogLevel  string
	LogFormat string
	LogFile   string

	// MetricsEnabled exposes /metrics
	MetricsEnabled bool

	// TokenEstimate enables the tiktoken prompt-token estimate in relay logs
	TokenEstimate bool
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, _ := LoadFile() // Ignore error, use defaults
	return FromFile(fileConfig)
}

// FromFile layers environment variables and defaults over a parsed file config.
func FromFile(fileConfig *FileConfig) *Config {
	if fileConfig == nil {
		fileConfig = &FileConfig{}
	}

	return &Config{
		ServerPort:      getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, DefaultServerPort),
		Credential:      os.Getenv(CredentialEnv),
		UpstreamBaseURL: getEnvOrFile("UPSTREAM_BASE_URL", fileConfig.UpstreamBaseURL, DefaultUpstreamBaseURL),
		Model:           getEnvOrFile("UPSTREAM_MODEL", fileConfig.Model, DefaultModel),
		UpstreamTimeout: getEnvDurationOrFile("UPSTREAM_TIMEOUT", fileConfig.UpstreamTimeout, DefaultUpstreamTimeout),
		MaxBodyBytes:    getEnvInt64OrFile("MAX_BODY_BYTES", fileConfig.MaxBodyBytes, DefaultMaxBodyBytes),
		LogLevel:        getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:       getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, "text"),
		LogFile:         getEnvOrFile("LOG_FILE", fileConfig.LogFile, ""),
		MetricsEnabled:  getEnvBoolOrFile("METRICS_ENABLED", fileConfig.MetricsEnabled, true),
		TokenEstimate:   getEnvBoolOrFile("TOKEN_ESTIMATE", fileConfig.TokenEstimate, true),
	}
}

// HasCredential reports whether an upstream credential is configured.
func (c *Config) HasCredential() bool {
	return c.Credential != ""
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvDurationOrFile parses a Go duration ("45s", "2m") from env or file.
// Unparseable or non-positive values fall through to the next source.
func getEnvDurationOrFile(key, fileValue string, defaultValue time.Duration) time.Duration {
	for _, raw := range []string{os.Getenv(key), fileValue} {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvInt64OrFile(key string, fileValue int64, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	if fileValue > 0 {
		return fileValue
	}
	return defaultValue
}
