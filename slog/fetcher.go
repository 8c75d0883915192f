// Package slog provides logging decorators for pagefetch services.
package slog

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagefetch"
	"github.com/google/uuid"
)

// Ensure LoggingFetcher implements pagefetch.Fetcher.
var _ pagefetch.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   pagefetch.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagefetch.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs one record per call.
// Failures are logged at error level.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	id := uuid.NewString()
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		f.logger.Log(ctx, level, "fetch",
			"id", id,
			"url", url,
			"bytes", len(html),
			"digest", digest(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// digest returns the xxhash64 of s in hex, or "" for empty input.
func digest(s string) string {
	if s == "" {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64String(s), 16)
}
