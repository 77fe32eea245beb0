package rewriting

import (
	"context"
	"errors"

	"github.com/jonathan/tonecycle/internal/llm"
)

type scriptedReply struct {
	text string
	err  error
}

// scriptedClient replays canned replies in order and repeats the last one
type scriptedClient struct {
	replies []scriptedReply
	prompts []string
	params  []llm.GenerationParams
}

func replies(texts ...string) *scriptedClient {
	c := &scriptedClient{}
	for _, t := range texts {
		c.replies = append(c.replies, scriptedReply{text: t})
	}
	return c
}

func (c *scriptedClient) Generate(ctx context.Context, prompt string, params llm.GenerationParams) (string, error) {
	c.prompts = append(c.prompts, prompt)
	c.params = append(c.params, params)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	i := len(c.prompts) - 1
	if i >= len(c.replies) {
		i = len(c.replies) - 1
	}
	r := c.replies[i]
	return r.text, r.err
}

func (c *scriptedClient) Model() string { return "scripted" }

func (c *scriptedClient) Close() error { return nil }

// blockingClient waits for the context to end
type blockingClient struct{ calls int }

func (c *blockingClient) Generate(ctx context.Context, _ string, _ llm.GenerationParams) (string, error) {
	c.calls++
	<-ctx.Done()
	return "", ctx.Err()
}

func (c *blockingClient) Model() string { return "blocking" }

func (c *blockingClient) Close() error { return nil }
