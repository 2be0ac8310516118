package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/divarsearch/internal/logger"
)

// stealthScript hides the most common headless markers before any page script runs.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'languages', {get: () => ['fa-IR', 'fa', 'en-US', 'en']});
window.chrome = window.chrome || {runtime: {}};
`

// BrowserLoader renders pages in headless Chrome and scrolls through the
// infinite feed. Every Load launches its own browser and tears it down before
// returning.
type BrowserLoader struct {
	config Config
}

// NewBrowserLoader creates a chromedp-backed loader.
func NewBrowserLoader(cfg Config) *BrowserLoader {
	return &BrowserLoader{config: cfg.withDefaults()}
}

func (l *BrowserLoader) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(l.config.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	if l.config.Stealth {
		opts = append(opts, chromedp.Flag("disable-blink-features", "AutomationControlled"))
	}

	execPath := l.config.ExecPath
	if execPath == "" {
		execPath = FindChromePath()
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}

// Load navigates to targetURL, waits for the first render, scrolls until the
// feed stops growing and returns the resulting markup.
func (l *BrowserLoader) Load(ctx context.Context, targetURL string) (PageContent, error) {
	result := PageContent{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, l.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, l.config.Timeout)
	defer cancelRun()

	actions := []chromedp.Action{network.Enable()}
	if l.config.AcceptLanguage != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": l.config.AcceptLanguage,
		}))
	}
	if l.config.Stealth {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}))
	}
	actions = append(actions,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	)
	if l.config.InitialWait > 0 {
		actions = append(actions, chromedp.Sleep(l.config.InitialWait))
	}

	logger.Debug("browser navigating",
		"url", targetURL,
		"timeout", l.config.Timeout,
		"stealth", l.config.Stealth)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return result, fmt.Errorf("navigation failed: %w", err)
	}

	scrolls, err := ScrollUntilStable(runCtx, chromeScroller{}, ScrollOptions{
		MaxScrolls:   l.config.MaxScrolls,
		Wait:         l.config.ScrollWait,
		PollInterval: l.config.PollInterval,
	})
	if err != nil {
		return result, fmt.Errorf("infinite scroll failed: %w", err)
	}
	result.Scrolls = scrolls

	if err := chromedp.Run(runCtx,
		chromedp.OuterHTML("html", &result.HTML),
		chromedp.Title(&result.Title),
	); err != nil {
		return result, fmt.Errorf("failed to read page markup: %w", err)
	}

	return result, nil
}

// Type returns the loader type.
func (l *BrowserLoader) Type() string {
	return "dynamic"
}

// chromeScroller drives the page owned by the chromedp context it is run with.
type chromeScroller struct{}

func (chromeScroller) ScrollHeight(ctx context.Context) (int64, error) {
	var height int64
	err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height))
	return height, err
}

func (chromeScroller) ScrollToBottom(ctx context.Context) error {
	return chromedp.Run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil))
}
