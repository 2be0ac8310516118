// Package scraper loads listing search pages and turns their ad cards into
// markdown text.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/divarsearch/internal/logger"
)

// DefaultBaseURL is the listing site.
const DefaultBaseURL = "https://divar.ir"

// DefaultUserAgent is a desktop Chrome identity.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds loader configuration.
type Config struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration // Upper bound for one page load, scrolling included
	InitialWait    time.Duration // Settle time after navigation
	ScrollWait     time.Duration // Max wait for the page to grow after each scroll
	PollInterval   time.Duration // Height polling interval while waiting
	MaxScrolls     int
	Stealth        bool
	ExecPath       string // Chrome binary; looked up when empty
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: "fa-IR,fa;q=0.9,en;q=0.8",
		Timeout:        5 * time.Minute,
		InitialWait:    3 * time.Second,
		ScrollWait:     2 * time.Second,
		PollInterval:   250 * time.Millisecond,
		MaxScrolls:     60,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxScrolls == 0 {
		c.MaxScrolls = d.MaxScrolls
	}
	return c
}

// PageContent is a fully loaded page.
type PageContent struct {
	URL       string
	HTML      string
	Title     string
	Scrolls   int // Scrolls that made the page grow
	FetchedAt time.Time
}

// Loader fetches the markup of a search page.
type Loader interface {
	Load(ctx context.Context, url string) (PageContent, error)

	// Type returns "static", "dynamic" or "auto".
	Type() string
}

// Listing is the structured outcome of one search.
type Listing struct {
	URL       string
	Cards     []AdCard
	Scrolls   int
	PageBytes int
	FetchedAt time.Time
	Duration  time.Duration
}

// SearchURL builds <base>/s/<slug>?q=<escaped phrase>.
func SearchURL(baseURL, slug, phrase string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	q := url.Values{"q": {strings.TrimSpace(phrase)}}
	return fmt.Sprintf("%s/s/%s?%s", strings.TrimRight(baseURL, "/"), url.PathEscape(slug), q.Encode())
}

// Scraper searches the listing site for one city and phrase.
type Scraper struct {
	loader  Loader
	baseURL string
}

// New creates a Scraper. An empty baseURL means DefaultBaseURL.
func New(loader Loader, baseURL string) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{loader: loader, baseURL: baseURL}
}

// Search loads the result page for slug and phrase and parses its ad cards.
func (s *Scraper) Search(ctx context.Context, slug, phrase string) (Listing, error) {
	start := time.Now()
	target := SearchURL(s.baseURL, slug, phrase)
	listing := Listing{URL: target}

	logger.Debug("loading search page", "url", target, "loader", s.loader.Type())

	page, err := s.loader.Load(ctx, target)
	if err != nil {
		return listing, fmt.Errorf("failed to load %s: %w", target, err)
	}
	listing.Scrolls = page.Scrolls
	listing.PageBytes = len(page.HTML)
	listing.FetchedAt = page.FetchedAt

	cards, err := ParseCards(page.HTML)
	if err != nil {
		return listing, fmt.Errorf("failed to parse page: %w", err)
	}
	listing.Cards = cards
	listing.Duration = time.Since(start)

	logger.Info("search page scraped",
		"url", target,
		"cards", len(cards),
		"scrolls", page.Scrolls,
		"page_size", humanize.Bytes(uint64(len(page.HTML))),
		"duration", listing.Duration.Round(time.Millisecond))

	return listing, nil
}

// Scrape is the fail-soft form of Search. The returned text is always usable
// downstream: the formatted cards, NoAdsFound, or an "Error scraping ads"
// message. err is non-nil only to let callers tell a failure from an empty
// result.
func (s *Scraper) Scrape(ctx context.Context, slug, phrase string) (string, error) {
	listing, err := s.Search(ctx, slug, phrase)
	if err != nil {
		logger.Warn("scrape failed, continuing with error text", "error", err)
		return ErrorText(err), err
	}
	return FormatCards(listing.Cards), nil
}

// ErrorText renders a scrape failure as text.
func ErrorText(err error) string {
	return "Error scraping ads: " + err.Error()
}
