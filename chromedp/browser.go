package chromedp

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/fwojciec/pagefetch"
)

// Compile-time interface verification.
var (
	_ pagefetch.Browser = (*Browser)(nil)
	_ pagefetch.Page    = (*Page)(nil)
)

// documentJS serializes the doctype and the document element.
const documentJS = `(() => {
	let html = '';
	if (document.doctype) html = new XMLSerializer().serializeToString(document.doctype);
	if (document.documentElement) html += document.documentElement.outerHTML;
	return html;
})()`

// Browser is a Chrome process allocated by Launcher.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	navTimeout  time.Duration

	mu     sync.Mutex
	tabs   []context.CancelFunc
	closed atomic.Bool
}

// Page opens a new tab.
func (b *Browser) Page(ctx context.Context) (pagefetch.Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.ctx)
	b.mu.Lock()
	b.tabs = append(b.tabs, tabCancel)
	b.mu.Unlock()

	// The first Run on a fresh context creates the target.
	if err := runCtx(ctx, tabCtx); err != nil {
		return nil, err
	}
	return &Page{ctx: tabCtx, navTimeout: b.navTimeout}, nil
}

// Close shuts the browser down gracefully and releases the allocator.
// Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	for _, cancel := range b.tabs {
		cancel()
	}
	b.tabs = nil
	b.mu.Unlock()

	err := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	return err
}

// Page is a single Chrome tab.
type Page struct {
	ctx        context.Context
	navTimeout time.Duration
}

// Navigate loads url and waits for Chrome's networkAlmostIdle lifecycle
// event on the main frame: no more than two open connections for at least
// 500ms.
func (p *Page) Navigate(ctx context.Context, url string) error {
	if p.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.navTimeout)
		defer cancel()
	}

	// Chrome replays lifecycle events for the blank document when they are
	// enabled; its loader is never followed.
	var blank string
	enable := chromedp.ActionFunc(func(ctx context.Context) error {
		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		blank = string(tree.Frame.LoaderID)
		return nil
	})
	if err := runCtx(ctx, p.ctx, enable); err != nil {
		return err
	}

	mainFrame := string(chromedp.FromContext(p.ctx).Target.TargetID)
	idle := make(chan struct{})
	lctx, stop := context.WithCancel(p.ctx)
	defer stop()

	// Listener callbacks run sequentially on the target's event loop. Each
	// new document committed in the main frame, including script redirects,
	// starts with an init event and becomes the loader to wait on.
	var loaderID string
	var done bool
	chromedp.ListenTarget(lctx, func(ev any) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok || done || string(e.FrameID) != mainFrame || string(e.LoaderID) == blank {
			return
		}
		switch e.Name {
		case "init":
			loaderID = string(e.LoaderID)
		case "networkAlmostIdle":
			if loaderID != "" && string(e.LoaderID) == loaderID {
				done = true
				close(idle)
			}
		}
	})

	if err := runCtx(ctx, p.ctx, chromedp.Navigate(url)); err != nil {
		return err
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HTML returns the serialized document, doctype included.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var html string
	if err := runCtx(ctx, p.ctx, chromedp.Evaluate(documentJS, &html)); err != nil {
		return "", err
	}
	return html, nil
}
