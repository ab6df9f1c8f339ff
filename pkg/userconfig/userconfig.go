// Package userconfig provides user-level configuration for agentsync.
// The configuration is stored in ~/.config/agentsync/config.yaml and holds
// connection and display preferences.
package userconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/docker/agentsync/pkg/paths"
)

// CurrentVersion is the current version of the user config format.
const CurrentVersion = "v1"

// DefaultServerURL is used when neither the config file nor the environment
// names a server.
const DefaultServerURL = "http://localhost:8765"

// Settings contains global user settings.
type Settings struct {
	// AutoPlayAudio enables playing notification audio clips automatically.
	AutoPlayAudio bool `yaml:"auto_play_audio,omitempty"`
	// HideToolResults hides tool call results in the TUI by default.
	HideToolResults bool `yaml:"hide_tool_results,omitempty"`
}

// Config represents the user-level agentsync configuration.
type Config struct {
	// Version is the config format version.
	Version string `yaml:"version,omitempty"`
	// ServerURL is the conversation server to connect to.
	ServerURL string `yaml:"server_url,omitempty"`
	// LogFile is an optional log file path.
	LogFile string `yaml:"log_file,omitempty"`
	// Settings contains global user settings.
	Settings *Settings `yaml:"settings,omitempty"`
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(paths.GetConfigDir(), "config.yaml")
}

// Load loads the user configuration from the config file. A missing file is
// not an error; it yields an empty config.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(configPath string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// GetServerURL resolves the server URL: AGENTSYNC_SERVER wins over the config
// file, which wins over the default.
func (c *Config) GetServerURL() string {
	if env := os.Getenv("AGENTSYNC_SERVER"); env != "" {
		return env
	}
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return DefaultServerURL
}

// Save saves the configuration to the config file.
func (c *Config) Save() error {
	return c.saveTo(Path())
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Ensure version is always set to current version when saving
	c.Version = CurrentVersion

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
