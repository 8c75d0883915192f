package pagefetch

import "context"

// Fetcher retrieves rendered HTML from URLs.
type Fetcher interface {
	// Fetch navigates to the URL, waits for JavaScript to render,
	// and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// Launcher starts browser sessions.
type Launcher interface {
	// Launch starts a new headless browser process and returns a handle to it.
	// The caller owns the returned Browser and must Close it.
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a handle to one running browser process.
type Browser interface {
	// Page opens a new blank browsing context.
	// The page is valid until the Browser is closed.
	Page(ctx context.Context) (Page, error)

	// Close terminates the browser process.
	Close() error
}

// Page is a single navigable browsing context within a Browser.
type Page interface {
	// Navigate loads the URL and blocks until network activity is almost
	// idle (no more than two in-flight connections for 500ms).
	Navigate(ctx context.Context, url string) error

	// HTML returns the current serialized document.
	HTML(ctx context.Context) (string, error)
}
