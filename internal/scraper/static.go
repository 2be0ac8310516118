package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// StaticLoader fetches the server-rendered markup with Colly. It does not run
// scripts or scroll, so it only sees the first batch of ads.
type StaticLoader struct {
	config Config
}

// NewStaticLoader creates a new static loader.
func NewStaticLoader(cfg Config) *StaticLoader {
	return &StaticLoader{config: cfg.withDefaults()}
}

// Load retrieves the page with a single GET.
func (l *StaticLoader) Load(ctx context.Context, targetURL string) (PageContent, error) {
	result := PageContent{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	c := colly.NewCollector(
		colly.UserAgent(l.config.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(l.config.Timeout)

	if l.config.AcceptLanguage != "" {
		c.OnRequest(func(r *colly.Request) {
			r.Headers.Set("Accept-Language", l.config.AcceptLanguage)
		})
	}

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		result.HTML = string(r.Body)
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if result.Title == "" {
			result.Title = strings.TrimSpace(e.Text)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("fetch error (status %d): %w", r.StatusCode, err)
			return
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	if err := c.Visit(targetURL); err != nil {
		if fetchErr != nil {
			return result, fetchErr
		}
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	return result, nil
}

// Type returns the loader type.
func (l *StaticLoader) Type() string {
	return "static"
}
