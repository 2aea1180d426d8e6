package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
// The upstream credential is deliberately absent: it comes from the environment only.
type FileConfig struct {
	ServerPort      string `toml:"server_port"`
	UpstreamBaseURL string `toml:"upstream_base_url"`
	Model           string `toml:"model"`
	UpstreamTimeout string `toml:"upstream_timeout"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	LogFile         string `toml:"log_file"`
	MetricsEnabled  *bool  `toml:"metrics_enabled"`
	TokenEstimate   *bool  `toml:"token_estimate"`
}

// LoadFile loads configuration from the TOML file at ConfigPath.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return LoadFileFrom(ConfigPath())
}

// LoadFileFrom loads configuration from the TOML file at path.
func LoadFileFrom(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	defaultConfig := `# chatrelay configuration
# The upstream API key is read from the OPENAI_API_KEY environment variable only.

# server_port = ":8080"

# upstream_base_url = "https://api.openai.com/v1"
# model = "gpt-4o-mini"
# upstream_timeout = "60s"

# max_body_bytes = 1048576

# log_level = "info"     # debug, info, warn, error
# log_format = "text"    # text, json
# log_file = ""          # empty logs to stdout; a path enables rotation

# metrics_enabled = true
# token_estimate = true
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
