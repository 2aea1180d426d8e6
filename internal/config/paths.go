package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPathEnv overrides the config file location.
const ConfigPathEnv = "CHATRELAY_CONFIG"

// DataDir returns the path to the chatrelay data directory.
// - Windows: %APPDATA%\chatrelay
// - Other OS: ~/.chatrelay
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "chatrelay")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatrelay"
	}
	return filepath.Join(home, ".chatrelay")
}

// ConfigPath returns the path to the config file: $CHATRELAY_CONFIG if set,
// otherwise config.toml in DataDir.
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "config.toml")
}
