package chromedp

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/fwojciec/pagefetch"
)

// Ensure Launcher implements pagefetch.Launcher at compile time.
var _ pagefetch.Launcher = (*Launcher)(nil)

// DefaultNavigationTimeout bounds how long Navigate waits for the network
// to settle.
const DefaultNavigationTimeout = 30 * time.Second

// Launcher starts headless Chrome processes controlled through chromedp.
// Launcher is safe for concurrent use; every Launch starts its own process.
type Launcher struct {
	opts       []chromedp.ExecAllocatorOption
	navTimeout time.Duration
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithExecPath sets the browser executable.
func WithExecPath(path string) LauncherOption {
	return func(l *Launcher) {
		l.opts = append(l.opts, chromedp.ExecPath(path))
	}
}

// WithFlags adds Chrome command-line switches, without the leading dashes.
func WithFlags(names ...string) LauncherOption {
	return func(l *Launcher) {
		for _, name := range names {
			l.opts = append(l.opts, chromedp.Flag(name, true))
		}
	}
}

// WithNavigationTimeout sets how long Navigate waits for the page to load
// and go idle. Defaults to DefaultNavigationTimeout; zero disables the limit.
func WithNavigationTimeout(d time.Duration) LauncherOption {
	return func(l *Launcher) {
		l.navTimeout = d
	}
}

// NewLauncher creates a new Launcher.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{
		opts: append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Headless,
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-background-timer-throttling", true),
			chromedp.Flag("disable-backgrounding-occluded-windows", true),
			chromedp.Flag("disable-renderer-backgrounding", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-hang-monitor", true),
		),
		navTimeout: DefaultNavigationTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts a headless browser.
//
// The browser's lifetime is detached from ctx so that Close, not the
// caller's context, decides when the process ends.
func (l *Launcher) Launch(ctx context.Context) (pagefetch.Browser, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), l.opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser process.
	if err := runCtx(ctx, browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &Browser{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		navTimeout:  l.navTimeout,
	}, nil
}

// runCtx runs actions against target but gives up as soon as ctx is done.
func runCtx(ctx, target context.Context, actions ...chromedp.Action) error {
	errc := make(chan error, 1)
	go func() { errc <- chromedp.Run(target, actions...) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
