package llm

import (
	"errors"
	"fmt"
)

// ErrUpstream is matched by every *UpstreamError via errors.Is.
var ErrUpstream = errors.New("text-generation service error")

// UpstreamError reports a failed call to the text-generation service.
type UpstreamError struct {
	Provider string
	Op       string // pipeline operation, e.g. "optimize query"
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUpstream) succeed.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Hints lists troubleshooting steps shown next to upstream failures.
func Hints(provider string) []string {
	switch provider {
	case "ollama":
		return []string{
			"Ensure Ollama is running (ollama serve)",
			"Ensure the model is pulled (e.g. ollama pull qwen2.5)",
		}
	case "openai", "openrouter", "anthropic":
		return []string{
			"Check that the API key for " + provider + " is set and valid",
			"Check that the configured model name exists for " + provider,
		}
	default:
		return []string{"Check that the text-generation service is reachable"}
	}
}
