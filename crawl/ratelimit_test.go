package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ voygen.DomainLimiter = (*crawl.DomainLimiter)(nil)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first request to a host is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "www.navitrip.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("spaces requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "www.navitrip.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "www.navitrip.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "www.navitrip.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "book.vaxvacationaccess.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("zero rate disables limiting", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0)
		start := time.Now()
		for range 20 {
			require.NoError(t, limiter.Wait(context.Background(), "www.navitrip.com"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("returns when the context times out", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "www.navitrip.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "www.navitrip.com"))
	})

	t.Run("concurrent waits all complete", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Wait(context.Background(), "www.navitrip.com") == nil {
					completed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), completed.Load())
	})
}
