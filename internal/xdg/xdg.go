// Package xdg provides XDG Base Directory Specification compliant paths
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "rapydo"

// ConfigDir returns the XDG config directory for rapydo
// Priority: XDG_CONFIG_HOME > ~/.config/rapydo
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for rapydo
// Priority: XDG_DATA_HOME > ~/.local/share/rapydo
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", ".local", "share")
}

// ConfsDir returns the directory holding the shipped defaults files
// (projects_defaults.yaml, projects_prod_defaults.yaml)
func ConfsDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "confs"), nil
}

func resolve(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{homeDir}, fallback...)
	return filepath.Join(append(parts, appName)...), nil
}
