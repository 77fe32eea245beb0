package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/jonathan/tonecycle/internal/llm"
	"github.com/jonathan/tonecycle/internal/types"
)

// echoClient answers every task block in the prompt with a distinct variant
type echoClient struct {
	mu      sync.Mutex
	prompts []string
	suffix  string
}

func (c *echoClient) Generate(_ context.Context, prompt string, _ llm.GenerationParams) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	var env types.VariantEnvelope
	for _, line := range strings.Split(prompt, "\n") {
		key, ok := strings.CutPrefix(line, "tone_key: ")
		if !ok {
			continue
		}
		env.Variants = append(env.Variants, types.ModelVariant{
			Tone:   key,
			Length: "short",
			Text:   "Keep going with the " + key + " take" + c.suffix + ".",
		})
	}
	data, err := json.Marshal(env)
	return string(data), err
}

func (c *echoClient) Model() string { return "echo" }

func (c *echoClient) Close() error { return nil }

// gateClient blocks until released so a second call can observe a busy session
type gateClient struct {
	echoClient
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (c *gateClient) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	c.once.Do(func() { close(c.started) })
	select {
	case <-c.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return c.echoClient.Generate(ctx, prompt, params)
}

// failingClient always fails like an unavailable service
type failingClient struct{}

func (failingClient) Generate(context.Context, string, llm.GenerationParams) (string, error) {
	return "", &llm.StatusError{Code: 503, Message: "unavailable"}
}

func (failingClient) Model() string { return "failing" }

func (failingClient) Close() error { return nil }

// keyFactory records the API keys it was asked for
type keyFactory struct {
	client llm.Client
	keys   []string
	err    error
}

func (f *keyFactory) factory(_ context.Context, apiKey string) (llm.Client, error) {
	f.keys = append(f.keys, apiKey)
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

// brokenCredentials fails every operation
type brokenCredentials struct{}

func (brokenCredentials) GetCredential(context.Context) (string, error) {
	return "", errors.New("store offline")
}

func (brokenCredentials) SetCredential(context.Context, string) error {
	return errors.New("store offline")
}
