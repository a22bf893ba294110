package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserRenderer renders pages in one headless Chrome session held for the
// whole run. Pages are read only after the settle delay so client-side
// scripts can populate them.
type BrowserRenderer struct {
	opts          *Options
	logger        *slog.Logger
	ctx           context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewBrowserRenderer starts the browser. Requires Chrome/Chromium on the host.
func NewBrowserRenderer(ctx context.Context, opts *Options, logger *slog.Logger) (*BrowserRenderer, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(opts.UserAgent),
		)...,
	)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start the browser now so later per-page timeouts do not bound its lifetime.
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": AcceptLanguage}),
	)
	if err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, &Error{Message: "failed to start browser", Cause: err}
	}

	logger.Debug("browser started", "headless", opts.Headless)

	return &BrowserRenderer{
		opts:          opts,
		logger:        logger,
		ctx:           browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}, nil
}

// Render navigates the shared tab to url and returns the outer HTML after the
// settle delay.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	tabCtx, cancel := context.WithTimeout(b.ctx, b.opts.Timeout)
	defer cancel()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		return "", &Error{URL: url, Message: "navigation failed", Cause: err}
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		return "", &Error{URL: url, Message: fmt.Sprintf("HTTP status %d", resp.Status), StatusCode: int(resp.Status)}
	}

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.opts.SettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "render failed", Cause: err}
	}

	b.logger.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}

// Close shuts the browser down.
func (b *BrowserRenderer) Close() error {
	b.cancelBrowser()
	b.cancelAlloc()
	return nil
}
