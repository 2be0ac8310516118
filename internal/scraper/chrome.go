package scraper

import (
	"os/exec"
	"sync"

	"github.com/jmylchreest/divarsearch/internal/logger"
)

// Chrome/Chromium binary names and locations across platforms.
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

var (
	chromePathOnce sync.Once
	chromePath     string
)

// FindChromePath returns the first Chrome binary found, or "" to let chromedp
// use its own lookup. The result is cached for the life of the process.
func FindChromePath() string {
	chromePathOnce.Do(func() {
		for _, name := range chromeBinaryNames {
			if path, err := exec.LookPath(name); err == nil {
				logger.Debug("found Chrome binary", "path", path)
				chromePath = path
				return
			}
		}
		logger.Warn("no Chrome binary found - dynamic fetch mode may not work")
	})
	return chromePath
}
