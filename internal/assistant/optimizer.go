package assistant

import (
	"context"

	"github.com/jmylchreest/divarsearch/internal/llm"
)

// Optimizer condenses a free-text request into a short search phrase.
type Optimizer struct {
	provider llm.Provider
	config   Config
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer(provider llm.Provider, opts ...Option) *Optimizer {
	return &Optimizer{provider: provider, config: newConfig(opts)}
}

// Optimize returns the model's search phrase for query, untrimmed and
// unvalidated.
func (o *Optimizer) Optimize(ctx context.Context, query string) (string, error) {
	return complete(ctx, o.provider, o.config, "optimize query", []llm.Message{
		{Role: llm.RoleSystem, Content: optimizerSystemPrompt},
		{Role: llm.RoleUser, Content: BuildOptimizerPrompt(query)},
	})
}
