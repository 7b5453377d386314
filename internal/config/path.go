// Package config loads spend settings from config files, the environment,
// and an optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDataDir is where the database lives unless configured otherwise.
func DefaultDataDir() string {
	return ExpandPath("~/.local/share/spend")
}

// DefaultConfigDir holds config.yaml.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/spend")
}
