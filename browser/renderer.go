// Package browser renders watch pages in headless Chrome so counters that
// only appear after client-side rendering can be read from the DOM.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Config controls the headless browser.
type Config struct {
	Headless      bool
	UserAgent     string
	Timeout       time.Duration
	WaitDelay     time.Duration
	ScrollToLoad  bool
	DisableImages bool
}

// DefaultConfig returns settings suited to a single watch page snapshot.
func DefaultConfig() *Config {
	return &Config{
		Headless:      true,
		Timeout:       30 * time.Second,
		WaitDelay:     2 * time.Second,
		ScrollToLoad:  true,
		DisableImages: true,
	}
}

// Renderer owns one browser process and opens a tab per Render call.
type Renderer struct {
	config        *Config
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	mu            sync.Mutex
	renders       int
}

// NewRenderer prepares the browser allocator. Chrome is started lazily by
// the first Render.
func NewRenderer(cfg *Config) *Renderer {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Renderer{
		config:        cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}
}

// Render loads url in a fresh tab and returns the rendered document.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()
	if r.config.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, r.config.Timeout)
		defer cancelTimeout()
	}
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	if err := chromedp.Run(tabCtx, r.tasks(url, &html)); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	r.renders++
	return html, nil
}

func (r *Renderer) tasks(url string, html *string) chromedp.Tasks {
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if r.config.ScrollToLoad {
		// Comment counts are only fetched once the comments section scrolls into view.
		tasks = append(tasks, chromedp.Evaluate(`window.scrollTo(0, document.documentElement.scrollHeight)`, nil))
	}
	if r.config.WaitDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(r.config.WaitDelay))
	}
	return append(tasks, chromedp.OuterHTML("html", html))
}

// Renders reports how many snapshots completed.
func (r *Renderer) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

// Close shuts the browser down.
func (r *Renderer) Close() {
	r.browserCancel()
	r.allocCancel()
}
