// Package pipeline runs a search end to end: initialize the conversation,
// optimize the query, then scrape and summarize. Each step is a function from
// one State snapshot to the next.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/divarsearch/internal/city"
	"github.com/jmylchreest/divarsearch/internal/logger"
)

// ErrMissingInput is returned by Validate when the city or the query is blank.
var ErrMissingInput = errors.New("please enter both city and search query")

// State is the record threaded through the steps of one run.
type State struct {
	RunID          string
	Messages       Transcript
	City           string // As entered
	CitySlug       string
	Query          string
	OptimizedQuery string
	RelevantAds    string
	ScrapeFailed   bool // RelevantAds summarizes an error text, not a listing
}

// Optimizer turns a free-text request into a search phrase.
type Optimizer interface {
	Optimize(ctx context.Context, query string) (string, error)
}

// Scraper returns the listing text for a city slug and phrase. The text is
// always usable; a non-nil error only marks it as describing a failure.
type Scraper interface {
	Scrape(ctx context.Context, slug, phrase string) (string, error)
}

// Summarizer condenses scraped text into the relevant ads.
type Summarizer interface {
	Summarize(ctx context.Context, scraped string) (string, error)
}

// Step is one named stage of a run.
type Step struct {
	Name string
	Run  func(ctx context.Context, s State) (State, error)
}

// Pipeline wires the three collaborators into the fixed step sequence.
type Pipeline struct {
	optimizer  Optimizer
	scraper    Scraper
	summarizer Summarizer
}

// New creates a Pipeline.
func New(optimizer Optimizer, scraper Scraper, summarizer Summarizer) *Pipeline {
	return &Pipeline{
		optimizer:  optimizer,
		scraper:    scraper,
		summarizer: summarizer,
	}
}

// Validate checks user input before a run.
func Validate(cityName, query string) error {
	if strings.TrimSpace(cityName) == "" || strings.TrimSpace(query) == "" {
		return ErrMissingInput
	}
	return nil
}

// Steps returns the steps in execution order.
func (p *Pipeline) Steps() []Step {
	return []Step{
		{Name: "initialize", Run: Initialize},
		{Name: "optimize_query", Run: p.optimizeQuery},
		{Name: "search", Run: p.search},
	}
}

// Run executes a full search. An unknown city fails with
// *city.InvalidCityError before any service is contacted.
func (p *Pipeline) Run(ctx context.Context, cityName, query string) (State, error) {
	slug, err := city.Normalize(cityName)
	if err != nil {
		return State{}, err
	}

	state := State{
		RunID:    uuid.NewString(),
		City:     cityName,
		CitySlug: slug,
		Query:    query,
	}
	log := logger.ForRun(state.RunID)
	log.Info("search started", "city", cityName, "slug", slug, "query", query)

	start := time.Now()
	for _, step := range p.Steps() {
		stepStart := time.Now()
		next, err := step.Run(ctx, state)
		if err != nil {
			log.Error("step failed", "step", step.Name, "error", err)
			return state, fmt.Errorf("%s: %w", step.Name, err)
		}
		state = next
		log.Debug("step complete",
			"step", step.Name,
			"turns", state.Messages.Len(),
			"duration", time.Since(stepStart).Round(time.Millisecond))
	}

	log.Info("search complete",
		"optimized_query", state.OptimizedQuery,
		"scrape_failed", state.ScrapeFailed,
		"duration", time.Since(start).Round(time.Millisecond))
	return state, nil
}

// Initialize starts the conversation with the user's request and clears any
// derived fields.
func Initialize(_ context.Context, s State) (State, error) {
	s.Messages = NewTranscript(UserTurn(fmt.Sprintf("I'm looking for %s in %s", s.Query, s.City)))
	s.OptimizedQuery = ""
	s.RelevantAds = ""
	s.ScrapeFailed = false
	return s, nil
}

func (p *Pipeline) optimizeQuery(ctx context.Context, s State) (State, error) {
	phrase, err := p.optimizer.Optimize(ctx, s.Query)
	if err != nil {
		return s, err
	}
	s.OptimizedQuery = phrase
	s.Messages = s.Messages.Append(SystemTurn("Optimized search query: " + phrase))
	return s, nil
}

func (p *Pipeline) search(ctx context.Context, s State) (State, error) {
	scraped, scrapeErr := p.scraper.Scrape(ctx, s.CitySlug, s.OptimizedQuery)

	summary, err := p.summarizer.Summarize(ctx, scraped)
	if err != nil {
		return s, err
	}
	s.ScrapeFailed = scrapeErr != nil
	s.RelevantAds = summary
	s.Messages = s.Messages.Append(SystemTurn(summary))
	return s, nil
}
