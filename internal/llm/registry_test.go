package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
)

// --- Registry Tests ---

func TestAvailableProviders(t *testing.T) {
	providers := AvailableProviders()
	if !sort.StringsAreSorted(providers) {
		t.Errorf("AvailableProviders() not sorted: %v", providers)
	}
	for _, want := range []string{"anthropic", "ollama", "openai", "openrouter"} {
		found := false
		for _, p := range providers {
			if p == want {
				found = true
			}
		}
		if !found {
			t.Errorf("AvailableProviders() missing %q: %v", want, providers)
		}
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider("nope", ProviderConfig{})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNewProvider_DefaultModel(t *testing.T) {
	p, err := NewProvider("ollama", ProviderConfig{})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Model() != "qwen2.5:latest" {
		t.Errorf("Model() = %q", p.Model())
	}
}

// --- Environment Tests ---

func TestDetectProvider(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	if name, key := DetectProvider(); name != "ollama" || key != "" {
		t.Errorf("DetectProvider() = %q, %q; want ollama", name, key)
	}

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	if name, key := DetectProvider(); name != "openai" || key != "sk-openai" {
		t.Errorf("DetectProvider() = %q, %q; want openai", name, key)
	}

	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	if name, _ := DetectProvider(); name != "openrouter" {
		t.Errorf("DetectProvider() = %q; want openrouter", name)
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	if got := APIKeyFromEnv("anthropic"); got != "sk-ant" {
		t.Errorf("APIKeyFromEnv(anthropic) = %q", got)
	}
	if got := APIKeyFromEnv("ollama"); got != "" {
		t.Errorf("APIKeyFromEnv(ollama) = %q, want empty", got)
	}
}

// --- UpstreamError Tests ---

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("search: %w", &UpstreamError{Provider: "ollama", Op: "summarize", Err: cause})

	if !errors.Is(err, ErrUpstream) {
		t.Error("expected errors.Is(err, ErrUpstream)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected UpstreamError to unwrap to its cause")
	}

	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.Provider != "ollama" {
		t.Fatalf("errors.As failed: %v", err)
	}
	if got := upstream.Error(); got != "summarize (ollama): connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestHints(t *testing.T) {
	hints := Hints("ollama")
	if len(hints) == 0 || !strings.Contains(strings.Join(hints, " "), "ollama serve") {
		t.Errorf("unexpected ollama hints %v", hints)
	}
	if len(Hints("unknown")) == 0 {
		t.Error("expected generic hints")
	}
}
