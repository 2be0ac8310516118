package assistant

import (
	"context"

	"github.com/jmylchreest/divarsearch/internal/llm"
)

// Summarizer asks the model for a deduplicated bulleted list of the relevant
// ads in a block of scraped text.
type Summarizer struct {
	provider llm.Provider
	config   Config
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(provider llm.Provider, opts ...Option) *Summarizer {
	return &Summarizer{provider: provider, config: newConfig(opts)}
}

// Summarize returns the model's reply verbatim. scraped may be formatted
// cards, the no-ads sentinel or a scrape error message; all are sent as is.
func (s *Summarizer) Summarize(ctx context.Context, scraped string) (string, error) {
	return complete(ctx, s.provider, s.config, "summarize", []llm.Message{
		{Role: llm.RoleUser, Content: BuildSummaryPrompt(scraped, s.config.MaxContentSize)},
	})
}
