// Package slog provides logging decorators for the extraction pipeline's
// services using the standard structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure the decorators implement their interfaces.
var (
	_ voygen.Fetcher         = (*LoggingFetcher)(nil)
	_ voygen.ResourceFetcher = (*LoggingResourceFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   voygen.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next voygen.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingResourceFetcher wraps a ResourceFetcher with debug logging.
type LoggingResourceFetcher struct {
	next   voygen.ResourceFetcher
	logger *slog.Logger
}

// NewLoggingResourceFetcher creates a new LoggingResourceFetcher.
func NewLoggingResourceFetcher(next voygen.ResourceFetcher, logger *slog.Logger) *LoggingResourceFetcher {
	return &LoggingResourceFetcher{next: next, logger: logger}
}

// FetchResource delegates to the wrapped fetcher and logs the re-fetch.
func (f *LoggingResourceFetcher) FetchResource(ctx context.Context, url string) (body []byte, contentType string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("resource refetch",
			"url", url,
			"content_type", contentType,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchResource(ctx, url)
}
