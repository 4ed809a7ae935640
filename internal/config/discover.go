// internal/config/discover.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that pins the config path.
const EnvConfig = "SUBMUX_CONFIG"

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns $XDG_CONFIG_HOME/submux/config.toml, falling back to
// ~/.config and finally the working directory.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./submux.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "submux", "config.toml")
}

// SearchPaths lists the locations Discover tries after $SUBMUX_CONFIG, in
// order.
func SearchPaths() []string {
	return []string{
		"./submux.toml",
		DefaultPath(),
		"/etc/submux/config.toml",
	}
}

// Discover returns the first config file that exists. $SUBMUX_CONFIG wins
// when set and must point at an existing file.
func Discover() (string, error) {
	if pinned := os.Getenv(EnvConfig); pinned != "" {
		if _, err := os.Stat(pinned); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, pinned, err)
		}
		return pinned, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
