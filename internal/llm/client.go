// Package llm talks to the external multimodal model used for receipt
// extraction and recipe suggestions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"savor/internal/config"
	"savor/internal/metrics"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Request is a single prompt, optionally with one attached image.
type Request struct {
	Purpose   string // metrics label, e.g. "extract" or "recipe"
	System    string
	Prompt    string
	Image     []byte
	MediaType string
}

// Client sends one request and returns the model's text reply.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
}

// New builds the configured provider client, bounded by cfg.Timeout and
// instrumented with m.
func New(cfg config.LLMConfig, m *metrics.Metrics) (Client, error) {
	var c Client
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderAnthropic:
		c = NewAnthropicClient(cfg)
	case config.ProviderOpenAI:
		c = NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	return WithTimeout(c, cfg.Timeout, m), nil
}

type boundedClient struct {
	next    Client
	timeout time.Duration
	metrics *metrics.Metrics
}

// WithTimeout wraps c so every call gets its own deadline. Cancelling the
// caller's context still cancels the call.
func WithTimeout(c Client, timeout time.Duration, m *metrics.Metrics) Client {
	return &boundedClient{next: c, timeout: timeout, metrics: m}
}

func (b *boundedClient) Provider() string {
	return b.next.Provider()
}

func (b *boundedClient) Complete(ctx context.Context, req Request) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := b.next.Complete(ctx, req)
	if b.metrics != nil {
		b.metrics.ObserveLLM(b.next.Provider(), req.Purpose, start, err)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
