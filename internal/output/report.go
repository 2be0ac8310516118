package output

import (
	"time"

	"github.com/jmylchreest/divarsearch/internal/pipeline"
)

// Report is the rendered outcome of one search run.
type Report struct {
	RunID          string          `json:"run_id" yaml:"run_id"`
	City           string          `json:"city" yaml:"city"`
	CitySlug       string          `json:"city_slug" yaml:"city_slug"`
	Query          string          `json:"query" yaml:"query"`
	OptimizedQuery string          `json:"optimized_query" yaml:"optimized_query"`
	RelevantAds    string          `json:"relevant_ads" yaml:"relevant_ads"`
	ScrapeFailed   bool            `json:"scrape_failed" yaml:"scrape_failed"`
	Messages       []pipeline.Turn `json:"messages" yaml:"messages"`
	Metadata       Metadata        `json:"_metadata" yaml:"_metadata"`
}

// Metadata describes how a report was produced.
type Metadata struct {
	Provider    string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	FetchMode   string `json:"fetch_mode,omitempty" yaml:"fetch_mode,omitempty"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	CompletedAt string `json:"completed_at" yaml:"completed_at"`
}

// NewReport builds a report from a finished run.
func NewReport(s pipeline.State, meta Metadata, elapsed time.Duration) Report {
	meta.DurationMs = elapsed.Milliseconds()
	if meta.CompletedAt == "" {
		meta.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return Report{
		RunID:          s.RunID,
		City:           s.City,
		CitySlug:       s.CitySlug,
		Query:          s.Query,
		OptimizedQuery: s.OptimizedQuery,
		RelevantAds:    s.RelevantAds,
		ScrapeFailed:   s.ScrapeFailed,
		Messages:       s.Messages.Turns(),
		Metadata:       meta,
	}
}
