package steamspy

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BrowserConfig configures a headless browser session.
type BrowserConfig struct {
	UserAgent     string
	ExecPath      string        // browser binary, found on PATH when empty
	ShowWindow    bool          // run with a visible window
	RenderTimeout time.Duration // zero means no timeout
}

// BrowserRenderer renders pages in a real Chrome instance so the anti
// bot wrapper's scripts run before the document is read.
type BrowserRenderer struct {
	timeout time.Duration

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closed      bool
}

// NewBrowserRenderer launches the browser. The caller owns the session
// and must Close it.
func NewBrowserRenderer(cfg BrowserConfig) (*BrowserRenderer, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.UserAgent(cfg.UserAgent))
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.ShowWindow {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logrus.Debugf))

	// First Run starts the browser.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, errors.Wrap(err, "failed to start browser")
	}

	return &BrowserRenderer{
		timeout:     cfg.RenderTimeout,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Render navigates the browser tab to url and returns the page's outer HTML.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b.closed {
		return "", errors.New("browser session is closed")
	}

	runCtx := b.ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(b.ctx, b.timeout)
		defer cancel()
	}

	var document string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &document, chromedp.ByQuery),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to render page")
	}

	return document, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *BrowserRenderer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	err := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	return err
}
