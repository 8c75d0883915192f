package pagefetch

import "context"

// Ensure PageFetcher implements Fetcher at compile time.
var _ Fetcher = (*PageFetcher)(nil)

// PageFetcher fetches rendered HTML using a fresh browser session per call.
// PageFetcher holds no mutable state and is safe for concurrent use; each
// concurrent call pays for its own browser process.
type PageFetcher struct {
	launcher Launcher
}

// NewPageFetcher returns a PageFetcher that starts browsers with l.
func NewPageFetcher(l Launcher) *PageFetcher {
	return &PageFetcher{launcher: l}
}

// Fetch launches a browser, navigates a single page to url, waits for the
// network to go almost idle and returns the serialized document.
//
// Every failure is returned as a *FetchError. The browser, once launched,
// is closed exactly once before Fetch returns.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	if f.launcher == nil {
		return "", &FetchError{Err: Errorf(EINVALID, "no browser launcher configured")}
	}
	if err := ctx.Err(); err != nil {
		return "", &FetchError{Err: err}
	}

	browser, err := f.launcher.Launch(ctx)
	if err != nil {
		return "", &FetchError{Err: err}
	} else if browser == nil {
		return "", &FetchError{Err: Errorf(EINTERNAL, "launcher returned no browser")}
	}
	defer func() {
		cerr := browser.Close()
		if cerr == nil {
			return
		}
		if err == nil {
			html, err = "", &FetchError{Err: cerr}
			return
		}
		if fe, ok := err.(*FetchError); ok {
			fe.CloseErr = cerr
		}
	}()

	html, err = fetchPage(ctx, browser, url)
	if err != nil {
		return "", &FetchError{Err: err}
	}
	return html, nil
}

// fetchPage runs the page-level steps against an already launched browser.
func fetchPage(ctx context.Context, browser Browser, url string) (string, error) {
	page, err := browser.Page(ctx)
	if err != nil {
		return "", err
	} else if page == nil {
		return "", Errorf(EINTERNAL, "browser returned no page")
	}

	if err := page.Navigate(ctx, url); err != nil {
		return "", err
	}

	return page.HTML(ctx)
}
