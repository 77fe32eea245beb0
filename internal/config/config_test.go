package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"guide": "guides/wallet.yaml",
		"mode": "compose",
		"session_id": "checkout-banner",
		"batch_size": 2,
		"max_attempts": 5,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "guides/wallet.yaml", cfg.Guide)
	assert.Equal(t, "compose", cfg.Mode)
	assert.Equal(t, "checkout-banner", cfg.SessionID)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0o644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	guide := filepath.Join(t.TempDir(), "guide.json")
	require.NoError(t, os.WriteFile(guide, []byte(`{}`), 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"valid", Config{Guide: guide, Mode: "rewrite", BatchSize: 3, MaxAttempts: 4}, ""},
		{"bad mode", Config{Mode: "poem"}, "'mode'"},
		{"negative batch", Config{BatchSize: -1}, "'batch_size'"},
		{"negative attempts", Config{MaxAttempts: -2}, "'max_attempts'"},
		{"negative timeout", Config{AttemptTimeoutSeconds: -1}, "'attempt_timeout_seconds'"},
		{"missing guide", Config{Guide: "/nonexistent/guide.json"}, "guide file not found"},
		{"remote guide", Config{Guide: "https://guides.example/brand.yaml"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Guide: "mine.json", BatchSize: 2}
	defaults := Config{
		Guide:       "default.json",
		StateFile:   "state.json",
		Mode:        "rewrite",
		BatchSize:   3,
		MaxAttempts: 4,
		Model:       "gemini-x",
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "mine.json", merged.Guide)
	assert.Equal(t, 2, merged.BatchSize)
	assert.Equal(t, "state.json", merged.StateFile)
	assert.Equal(t, "rewrite", merged.Mode)
	assert.Equal(t, 4, merged.MaxAttempts)
	assert.Equal(t, "gemini-x", merged.Model)

	assert.Equal(t, "default.json", defaults.Guide, "defaults untouched")
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{Mode: "compose", MaxAttempts: 6}
	assert.Equal(t, *cfg, cfg.MergeWithDefaults(Config{}))
}
