package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagefetch"
	"github.com/fwojciec/pagefetch/rod"
	pfslog "github.com/fwojciec/pagefetch/slog"
)

// DefaultURL is the page fetched by the program.
const DefaultURL = "https://www.lockheedmartinjobs.com/search-jobs"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Launcher starts the browser used for the fetch. NewMain uses the rod
	// engine; chromedp.NewLauncher is a drop-in alternative.
	Launcher pagefetch.Launcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Launcher: rod.NewLauncher(),
	}
}

// CLI defines the command-line interface structure for Kong.
// The program takes no flags or arguments.
type CLI struct{}

// Run fetches DefaultURL and writes its rendered HTML to stdout.
// Log records go to stderr.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagefetch"),
		kong.Description("Print the rendered HTML of "+DefaultURL),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	fetcher := pfslog.NewLoggingFetcher(pagefetch.NewPageFetcher(m.Launcher), logger)

	html, err := fetcher.Fetch(ctx, DefaultURL)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, html)
	return err
}
