package mock

import (
	"context"

	"github.com/fwojciec/pagefetch"
)

// Compile-time interface verification.
var (
	_ pagefetch.Launcher = (*Launcher)(nil)
	_ pagefetch.Browser  = (*Browser)(nil)
	_ pagefetch.Page     = (*Page)(nil)
)

// Launcher is a mock implementation of pagefetch.Launcher.
type Launcher struct {
	LaunchFn func(ctx context.Context) (pagefetch.Browser, error)
}

func (l *Launcher) Launch(ctx context.Context) (pagefetch.Browser, error) {
	return l.LaunchFn(ctx)
}

// Browser is a mock implementation of pagefetch.Browser.
type Browser struct {
	PageFn  func(ctx context.Context) (pagefetch.Page, error)
	CloseFn func() error
}

func (b *Browser) Page(ctx context.Context) (pagefetch.Page, error) {
	return b.PageFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Page is a mock implementation of pagefetch.Page.
type Page struct {
	NavigateFn func(ctx context.Context, url string) error
	HTMLFn     func(ctx context.Context) (string, error)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}
