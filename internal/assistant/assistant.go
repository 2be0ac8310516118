// Package assistant holds the two language-model steps of a search: turning a
// free-text request into a short search phrase, and condensing scraped ads
// into a list of relevant ones.
package assistant

import (
	"context"
	"time"

	"github.com/jmylchreest/divarsearch/internal/llm"
	"github.com/jmylchreest/divarsearch/internal/logger"
)

// Config holds settings shared by the optimizer and the summarizer.
type Config struct {
	Temperature    float64
	MaxTokens      int // 0 leaves the provider default
	MaxContentSize int // Bytes of scraped text embedded in the summary prompt, 0 = unlimited
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.3,
	}
}

// Option configures an assistant.
type Option func(*Config)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens sets the maximum tokens for responses.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithMaxContentSize bounds the scraped text sent for summarization.
func WithMaxContentSize(n int) Option {
	return func(c *Config) {
		c.MaxContentSize = n
	}
}

func newConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// complete sends messages and returns the reply verbatim. Failures come back
// as *llm.UpstreamError tagged with op.
func complete(ctx context.Context, p llm.Provider, cfg Config, op string, messages []llm.Message) (string, error) {
	logger.Debug("calling text-generation service",
		"op", op,
		"provider", p.Name(),
		"model", p.Model(),
		"temperature", cfg.Temperature)

	start := time.Now()
	resp, err := p.Complete(ctx, llm.CompletionRequest{
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return "", &llm.UpstreamError{Provider: p.Name(), Op: op, Err: err}
	}

	logger.Debug("text-generation response received",
		"op", op,
		"response_size", len(resp.Content),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", time.Since(start).Round(time.Millisecond))

	return resp.Content, nil
}
