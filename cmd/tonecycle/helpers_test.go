package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/tonecycle/internal/config"
	"github.com/jonathan/tonecycle/internal/llm"
	"github.com/jonathan/tonecycle/internal/types"
)

// scriptedClient answers each tone in the prompt with its own variant
type scriptedClient struct {
	calls int
}

func (c *scriptedClient) Generate(_ context.Context, prompt string, _ llm.GenerationParams) (string, error) {
	c.calls++
	var env types.VariantEnvelope
	for _, line := range strings.Split(prompt, "\n") {
		if key, ok := strings.CutPrefix(line, "tone_key: "); ok {
			env.Variants = append(env.Variants, types.ModelVariant{
				Tone:   key,
				Length: "short",
				Text:   "Save your draft in a " + key + " voice.",
			})
		}
	}
	data, err := json.Marshal(env)
	return string(data), err
}

func (c *scriptedClient) Model() string { return "scripted" }

func (c *scriptedClient) Close() error { return nil }

func scriptedFactory(c *scriptedClient) llm.Factory {
	return func(_ context.Context, apiKey string) (llm.Client, error) {
		if apiKey == "" {
			return nil, errors.New("missing key")
		}
		return c, nil
	}
}

func testEnv(t *testing.T) *config.Env {
	t.Helper()
	return &config.Env{
		Environment:    "testing",
		GeminiAPIKey:   "env-key",
		Tier:           "standard",
		StateFile:      filepath.Join(t.TempDir(), "state.json"),
		BatchSize:      3,
		MaxAttempts:    2,
		AttemptTimeout: 5 * time.Second,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// send runs one message and decodes the JSON response
func send(t *testing.T, env *config.Env, opts messageOptions, msgType string, client *scriptedClient) (types.Response, error) {
	t.Helper()
	opts.jsonOut = true
	var out, detail bytes.Buffer
	err := runMessage(context.Background(), env, &opts, msgType, scriptedFactory(client), &out, &detail)

	var resp types.Response
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	}
	return resp, err
}

func tones(variants []types.RewriteVariant) []string {
	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = v.ToneKey
	}
	return out
}
