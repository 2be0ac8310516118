package scraper

import (
	"context"
	"fmt"

	"github.com/jmylchreest/divarsearch/internal/logger"
)

// FetchMode determines how search pages are loaded.
type FetchMode string

const (
	FetchModeAuto    FetchMode = "auto"
	FetchModeStatic  FetchMode = "static"
	FetchModeDynamic FetchMode = "dynamic"
)

// NewLoader creates the loader for mode.
func NewLoader(mode FetchMode, cfg Config) (Loader, error) {
	switch mode {
	case FetchModeDynamic, "":
		return NewBrowserLoader(cfg), nil
	case FetchModeStatic:
		return NewStaticLoader(cfg), nil
	case FetchModeAuto:
		return NewAutoLoader(NewStaticLoader(cfg), NewBrowserLoader(cfg)), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s", mode)
	}
}

// AutoLoader tries a static fetch first and falls back to the browser when
// the server-rendered markup carries no ad cards.
type AutoLoader struct {
	static  Loader
	dynamic Loader
}

// NewAutoLoader combines a static and a dynamic loader.
func NewAutoLoader(static, dynamic Loader) *AutoLoader {
	return &AutoLoader{static: static, dynamic: dynamic}
}

// Load implements Loader.
func (l *AutoLoader) Load(ctx context.Context, url string) (PageContent, error) {
	content, err := l.static.Load(ctx, url)
	if err != nil {
		logger.Debug("static load failed, using browser", "url", url, "error", err)
		return l.dynamic.Load(ctx, url)
	}

	if CountCards(content.HTML) == 0 {
		logger.Debug("no ad cards in static markup, using browser", "url", url)
		return l.dynamic.Load(ctx, url)
	}

	return content, nil
}

// Type returns the loader type.
func (l *AutoLoader) Type() string {
	return "auto"
}
