package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/pagefetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// Ensure Launcher implements pagefetch.Launcher at compile time.
var _ pagefetch.Launcher = (*Launcher)(nil)

// stabilityFlags keep background tabs from being throttled while a page
// is still loading.
var stabilityFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
	"disable-hang-monitor",
}

// DefaultNavigationTimeout bounds how long Navigate waits for the network
// to settle.
const DefaultNavigationTimeout = 30 * time.Second

// Launcher starts headless Chrome processes controlled through go-rod.
// Launcher is safe for concurrent use; every Launch starts its own process.
type Launcher struct {
	bin        string
	flags      []flags.Flag
	navTimeout time.Duration
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithBin sets the browser executable. By default rod looks up a local
// Chrome/Chromium and downloads one if none is found.
func WithBin(path string) LauncherOption {
	return func(l *Launcher) {
		l.bin = path
	}
}

// WithFlags adds Chrome command-line switches, without the leading dashes.
func WithFlags(names ...string) LauncherOption {
	return func(l *Launcher) {
		for _, name := range names {
			l.flags = append(l.flags, flags.Flag(name))
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
		flags:      append([]flags.Flag(nil), stabilityFlags...),
		navTimeout: DefaultNavigationTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts a headless browser and connects to it.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func (l *Launcher) Launch(ctx context.Context) (pagefetch.Browser, error) {
	lnchr := launcher.New().
		Context(ctx).
		Leakless(true).
		Headless(true)
	for _, f := range l.flags {
		lnchr = lnchr.Set(f)
	}
	if l.bin != "" {
		lnchr = lnchr.Bin(l.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		lnchr.Cleanup()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Browser{browser: browser, launcher: lnchr, navTimeout: l.navTimeout}, nil
}
