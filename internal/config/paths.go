// Package config handles promptcraft configuration.
package config

import (
	"os"
	"path/filepath"
)

// DefaultFileMode is used for files written by promptcraft.
const DefaultFileMode = 0644

// Paths provides all promptcraft-related filesystem paths.
type Paths struct {
	ConfigDir   string // ~/.config/promptcraft
	ConfigFile  string // ~/.config/promptcraft/config.yaml
	SecretsFile string // ~/.config/promptcraft/secrets.toml
}

// NewPaths creates Paths under ~/.config.
// We use this path explicitly for cross-platform consistency rather than
// platform-specific defaults (like ~/Library/Application Support on macOS).
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	return NewPathsWithOverrides(filepath.Join(home, ".config", "promptcraft"))
}

// NewPathsWithOverrides allows overriding the config directory for testing.
func NewPathsWithOverrides(configDir string) *Paths {
	return &Paths{
		ConfigDir:   configDir,
		ConfigFile:  filepath.Join(configDir, "config.yaml"),
		SecretsFile: filepath.Join(configDir, "secrets.toml"),
	}
}

// ProjectSecretsFile returns the project-local secrets file (.promptcraft/secrets.toml).
// It takes precedence over the user-level secrets file.
func ProjectSecretsFile(projectRoot string) string {
	return filepath.Join(projectRoot, ".promptcraft", "secrets.toml")
}
