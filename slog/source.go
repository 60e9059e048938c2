package slog

import (
	"context"
	"log/slog"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure LoggingPageSource implements voygen.PageSource.
var _ voygen.PageSource = (*LoggingPageSource)(nil)

// LoggingPageSource wraps a PageSource with logging.
type LoggingPageSource struct {
	next   voygen.PageSource
	logger *slog.Logger
}

// NewLoggingPageSource creates a new LoggingPageSource.
func NewLoggingPageSource(next voygen.PageSource, logger *slog.Logger) *LoggingPageSource {
	return &LoggingPageSource{next: next, logger: logger}
}

// Page delegates to the wrapped source and logs the snapshot size.
func (s *LoggingPageSource) Page(ctx context.Context, url string) (page *voygen.Page, err error) {
	defer func(begin time.Time) {
		var bytes, scripts, resources int
		if page != nil {
			bytes, scripts, resources = len(page.HTML), len(page.Scripts), len(page.Resources)
		}
		s.logger.Info("snapshot",
			"url", url,
			"bytes", bytes,
			"scripts", scripts,
			"resources", resources,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Page(ctx, url)
}
