package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmylchreest/divarsearch/internal/assistant"
	"github.com/jmylchreest/divarsearch/internal/city"
	"github.com/jmylchreest/divarsearch/internal/config"
	"github.com/jmylchreest/divarsearch/internal/llm"
	"github.com/jmylchreest/divarsearch/internal/logger"
	"github.com/jmylchreest/divarsearch/internal/output"
	"github.com/jmylchreest/divarsearch/internal/pipeline"
	"github.com/jmylchreest/divarsearch/internal/scraper"
)

// preflightTimeout bounds the provider reachability check.
const preflightTimeout = 10 * time.Second

// buildPipeline wires the provider, loader and assistants described by cfg.
// Providers that support it are checked before any search runs.
func buildPipeline(ctx context.Context, cfg config.Config) (*pipeline.Pipeline, output.Metadata, error) {
	providerName := cfg.ProviderName()
	meta := output.Metadata{Provider: providerName, FetchMode: cfg.FetchMode}

	provider, err := llm.NewProvider(providerName, cfg.ProviderConfig())
	if err != nil {
		return nil, meta, &llm.UpstreamError{Provider: providerName, Op: "initialize", Err: err}
	}
	meta.Model = provider.Model()
	logger.Debug("provider created", "provider", provider.Name(), "model", provider.Model())

	if checker, ok := provider.(llm.Checker); ok {
		checkCtx, cancel := context.WithTimeout(ctx, preflightTimeout)
		defer cancel()
		if err := checker.Check(checkCtx); err != nil {
			return nil, meta, &llm.UpstreamError{Provider: providerName, Op: "initialize", Err: err}
		}
		logger.Debug("provider check passed", "provider", provider.Name())
	}

	maxContent, err := cfg.MaxContentBytes()
	if err != nil {
		return nil, meta, err
	}

	loader, err := scraper.NewLoader(scraper.FetchMode(cfg.FetchMode), cfg.ScraperConfig())
	if err != nil {
		return nil, meta, err
	}

	opts := []assistant.Option{
		assistant.WithTemperature(cfg.Temperature),
		assistant.WithMaxContentSize(maxContent),
	}

	p := pipeline.New(
		assistant.NewOptimizer(provider, opts...),
		scraper.New(loader, cfg.SiteURL),
		assistant.NewSummarizer(provider, opts...),
	)
	return p, meta, nil
}

// checkInput rejects blank fields and unknown cities before any service is
// contacted.
func checkInput(cityName, query string) error {
	if err := pipeline.Validate(cityName, query); err != nil {
		return err
	}
	_, err := city.Normalize(cityName)
	return err
}

// printHints writes troubleshooting steps for err to stderr.
func printHints(err error, provider string) {
	var hints []string
	switch {
	case errors.Is(err, city.ErrInvalidCity):
		hints = []string{"Run 'divarsearch cities' to list the supported cities"}
	case errors.Is(err, pipeline.ErrMissingInput):
		return
	case errors.Is(err, llm.ErrUpstream):
		hints = llm.Hints(provider)
	default:
		hints = []string{
			"Check that Chrome or Chromium is installed and up to date",
			"Try a simpler search query",
		}
	}

	fmt.Fprintln(os.Stderr, "\nTroubleshooting:")
	for i, h := range hints {
		fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, h)
	}
}
