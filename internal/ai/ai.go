// Package ai routes prompts to the configured language-model backends.
// The assistant never talks to a model directly; it builds a prompt and
// hands it to a Client.
package ai

import (
	"context"
	"errors"
	log "log/slog"
)

// ErrNoBackend is returned when every configured backend failed or none
// is configured. Callers fall back to their static tables on it.
var ErrNoBackend = errors.New("no AI backend available")

type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Response struct {
	Text    string
	Backend string // which backend produced the answer
}

type Client interface {
	Name() string
	Ask(ctx context.Context, req Request) (Response, error)
}

// Chain tries each backend in order and returns the first answer.
// A backend error is logged and skipped, never fatal to the query.
type Chain struct {
	backends []Client
}

func NewChain(backends ...Client) *Chain {
	active := make([]Client, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			active = append(active, b)
		}
	}
	return &Chain{backends: active}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Ask(ctx context.Context, req Request) (Response, error) {
	for _, b := range c.backends {
		resp, err := b.Ask(ctx, req)
		if err != nil {
			log.Warn("backend failed", "backend", b.Name(), "err", err)
			continue
		}
		return resp, nil
	}
	return Response{}, ErrNoBackend
}
