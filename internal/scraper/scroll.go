package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/jmylchreest/divarsearch/internal/logger"
)

// Scroller is the slice of a browser page the infinite-scroll loop needs.
type Scroller interface {
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
}

// ScrollOptions bounds the scroll loop.
type ScrollOptions struct {
	MaxScrolls   int
	Wait         time.Duration
	PollInterval time.Duration
}

// ScrollUntilStable scrolls to the bottom until the page height stops
// changing or MaxScrolls growing scrolls have happened. It returns the number
// of scrolls that grew the page.
func ScrollUntilStable(ctx context.Context, s Scroller, opts ScrollOptions) (int, error) {
	last, err := s.ScrollHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to measure page height: %w", err)
	}

	scrolls := 0
	for scrolls < opts.MaxScrolls {
		if err := s.ScrollToBottom(ctx); err != nil {
			return scrolls, fmt.Errorf("failed to scroll: %w", err)
		}

		height, err := waitForGrowth(ctx, s, last, opts.Wait, opts.PollInterval)
		if err != nil {
			return scrolls, err
		}
		if height == last {
			logger.Debug("page height stable", "height", height, "scrolls", scrolls)
			return scrolls, nil
		}

		logger.Debug("page grew", "from", last, "to", height, "scroll", scrolls+1)
		last = height
		scrolls++
	}

	logger.Debug("scroll limit reached", "max_scrolls", opts.MaxScrolls, "height", last)
	return scrolls, nil
}

// waitForGrowth polls the page height until it differs from prev or wait has
// elapsed, and returns the last measurement.
func waitForGrowth(ctx context.Context, s Scroller, prev int64, wait, interval time.Duration) (int64, error) {
	if interval <= 0 || interval > wait {
		interval = wait
	}
	deadline := time.Now().Add(wait)

	for {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return prev, ctx.Err()
		case <-timer.C:
		}

		height, err := s.ScrollHeight(ctx)
		if err != nil {
			return prev, fmt.Errorf("failed to measure page height: %w", err)
		}
		if height != prev || !time.Now().Before(deadline) {
			return height, nil
		}
	}
}
