package crawl

import (
	"context"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// SnapshotFunc takes a snapshot of a URL.
type SnapshotFunc func(ctx context.Context, url string) (*voygen.Page, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for snapshot retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// SnapshotWithRetry takes a snapshot with exponential backoff, retrying
// transient failures up to 3 times with delays of 1s, 2s, 4s.
func SnapshotWithRetry(ctx context.Context, url string, snapshot SnapshotFunc, logger LogFunc) (*voygen.Page, error) {
	return SnapshotWithRetryDelays(ctx, url, snapshot, logger, DefaultRetryDelays())
}

// SnapshotWithRetryDelays is like SnapshotWithRetry with configurable delays.
// EINVALID and ENOTFOUND failures are not retried.
func SnapshotWithRetryDelays(ctx context.Context, url string, snapshot SnapshotFunc, logger LogFunc, delays []time.Duration) (*voygen.Page, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := snapshot(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !retryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

func retryable(err error) bool {
	switch voygen.ErrorCode(err) {
	case voygen.EINVALID, voygen.ENOTFOUND:
		return false
	}
	return true
}
