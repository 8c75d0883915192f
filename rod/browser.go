package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/pagefetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Compile-time interface verification.
var (
	_ pagefetch.Browser = (*Browser)(nil)
	_ pagefetch.Page    = (*Page)(nil)
)

// Browser is a connected Chrome process started by Launcher.
type Browser struct {
	browser    *rod.Browser
	launcher   *launcher.Launcher
	navTimeout time.Duration
	closed     atomic.Bool
}

// Page opens a new blank tab.
func (b *Browser) Page(ctx context.Context) (pagefetch.Page, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return &Page{page: page, navTimeout: b.navTimeout}, nil
}

// Close disconnects from the browser, kills its process and removes the
// temporary profile directory. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	// The launch context may already be done; closing must still go through.
	err := b.browser.Context(context.Background()).Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	return err
}

// PID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) PID() int {
	return b.launcher.PID()
}

// Page is a single Chrome tab.
type Page struct {
	page       *rod.Page
	navTimeout time.Duration
}

// Navigate loads url and waits for Chrome's networkAlmostIdle lifecycle
// event: no more than two open connections for at least 500ms.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if p.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.navTimeout)
		defer cancel()
	}
	page := p.page.Context(ctx)

	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(page); err != nil {
		return err
	}

	// Chrome replays lifecycle events for the blank document when they are
	// enabled; its loader is never followed.
	tree, err := proto.PageGetFrameTree{}.Call(page)
	if err != nil {
		return err
	}
	mainFrame := tree.FrameTree.Frame.ID
	blank := tree.FrameTree.Frame.LoaderID

	// Subscribe before navigating so the event cannot be missed. Each new
	// document committed in the main frame, including script redirects,
	// starts with an init event and becomes the loader to wait on.
	var loaderID proto.NetworkLoaderID
	wait := page.EachEvent(func(e *proto.PageLifecycleEvent) bool {
		if e.FrameID != mainFrame || e.LoaderID == blank {
			return false
		}
		switch string(e.Name) {
		case "init":
			loaderID = e.LoaderID
		case string(proto.PageLifecycleEventNameNetworkAlmostIdle):
			return loaderID != "" && e.LoaderID == loaderID
		}
		return false
	})

	if err := page.Navigate(url); err != nil {
		return err
	}

	wait()
	return ctx.Err()
}

// HTML returns the serialized document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}
