package slog

import (
	"context"
	"log/slog"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure the decorators implement their interfaces.
var (
	_ voygen.HotelExtractor     = (*LoggingHotelExtractor)(nil)
	_ voygen.FactExtractor      = (*LoggingFactExtractor)(nil)
	_ voygen.PlatformClassifier = (*LoggingClassifier)(nil)
)

// LoggingHotelExtractor wraps a HotelExtractor with logging.
type LoggingHotelExtractor struct {
	next   voygen.HotelExtractor
	logger *slog.Logger
}

// NewLoggingHotelExtractor creates a new LoggingHotelExtractor.
func NewLoggingHotelExtractor(next voygen.HotelExtractor, logger *slog.Logger) *LoggingHotelExtractor {
	return &LoggingHotelExtractor{next: next, logger: logger}
}

// ExtractHotels delegates to the wrapped extractor and logs the outcome.
func (e *LoggingHotelExtractor) ExtractHotels(ctx context.Context, page *voygen.Page, req voygen.HotelRequest) (env *voygen.Envelope) {
	defer func(begin time.Time) {
		logEnvelope(e.logger, "hotel extraction", pageURL(page), env, time.Since(begin))
	}(time.Now())
	return e.next.ExtractHotels(ctx, page, req)
}

// LoggingFactExtractor wraps a FactExtractor with logging.
type LoggingFactExtractor struct {
	next   voygen.FactExtractor
	logger *slog.Logger
}

// NewLoggingFactExtractor creates a new LoggingFactExtractor.
func NewLoggingFactExtractor(next voygen.FactExtractor, logger *slog.Logger) *LoggingFactExtractor {
	return &LoggingFactExtractor{next: next, logger: logger}
}

// ExtractFacts delegates to the wrapped extractor and logs the outcome.
func (e *LoggingFactExtractor) ExtractFacts(ctx context.Context, page *voygen.Page, req voygen.FactRequest) (env *voygen.Envelope) {
	defer func(begin time.Time) {
		logEnvelope(e.logger, "fact extraction", pageURL(page), env, time.Since(begin))
	}(time.Now())
	return e.next.ExtractFacts(ctx, page, req)
}

func logEnvelope(logger *slog.Logger, msg, url string, env *voygen.Envelope, d time.Duration) {
	if env == nil {
		logger.Error(msg, "url", url, "duration", d, "err", "nil envelope")
		return
	}
	if !env.OK {
		logger.Warn(msg, "url", url, "ok", false, "duration", d, "err", env.Error)
		return
	}
	logger.Info(msg,
		"url", url,
		"ok", true,
		"route", env.Route,
		"count", env.Count,
		"duration", d,
	)
}

func pageURL(page *voygen.Page) string {
	if page == nil {
		return ""
	}
	return page.URL
}

// LoggingClassifier wraps a PlatformClassifier with debug logging for
// platform detection.
type LoggingClassifier struct {
	next   voygen.PlatformClassifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next voygen.PlatformClassifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the platform.
func (c *LoggingClassifier) Classify(page *voygen.Page, hint string) voygen.Platform {
	begin := time.Now()
	platform := c.next.Classify(page, hint)
	c.logger.Debug("platform detection",
		"url", pageURL(page),
		"hint", hint,
		"platform", string(platform),
		"duration", time.Since(begin),
	)
	return platform
}
