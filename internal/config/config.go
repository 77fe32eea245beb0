// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/tonecycle/internal/fetch"
	"github.com/jonathan/tonecycle/internal/types"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Guide     string `json:"guide,omitempty"`      // Path or http(s) URL of the style guide (JSON or YAML)
	StateFile string `json:"state_file,omitempty"` // Where the CLI keeps tone cycle state

	// Session
	SessionID string `json:"session_id,omitempty"` // Session key inside the state file
	Mode      string `json:"mode,omitempty"`       // rewrite or compose

	// Generation
	APIKey                string `json:"api_key,omitempty"`
	Model                 string `json:"model,omitempty"`
	Tier                  string `json:"tier,omitempty"`
	BatchSize             int    `json:"batch_size,omitempty"`
	MaxAttempts           int    `json:"max_attempts,omitempty"`
	AttemptTimeoutSeconds int    `json:"attempt_timeout_seconds,omitempty"`

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required values are checked by the commands after merging.
func (c *Config) Validate() error {
	if c.Mode != "" && c.Mode != types.ModeRewrite && c.Mode != types.ModeCompose {
		return fmt.Errorf("config error: 'mode' must be %q or %q", types.ModeRewrite, types.ModeCompose)
	}

	if c.BatchSize < 0 {
		return fmt.Errorf("config error: 'batch_size' must be non-negative")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	if c.AttemptTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'attempt_timeout_seconds' must be non-negative")
	}

	if c.Guide != "" && !fetch.IsRemote(c.Guide) {
		if _, err := os.Stat(c.Guide); os.IsNotExist(err) {
			return fmt.Errorf("config error: guide file not found: %s", c.Guide)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Guide == "" {
		result.Guide = defaults.Guide
	}
	if result.StateFile == "" {
		result.StateFile = defaults.StateFile
	}
	if result.SessionID == "" {
		result.SessionID = defaults.SessionID
	}
	if result.Mode == "" {
		result.Mode = defaults.Mode
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Tier == "" {
		result.Tier = defaults.Tier
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.AttemptTimeoutSeconds == 0 {
		result.AttemptTimeoutSeconds = defaults.AttemptTimeoutSeconds
	}

	// Bools cannot distinguish unset from false; CLI flags win.

	return result
}
