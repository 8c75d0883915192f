// Package pagefetch provides a small utility for fetching the fully rendered
// HTML of a web page through a headless browser.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, chromedp/, slog/).
package pagefetch
