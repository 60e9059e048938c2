package rod

import (
	"context"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// DefaultSettle is how long to wait for the page to go idle after load.
const DefaultSettle = 2 * time.Second

// Ensure PageSource implements voygen.PageSource at compile time.
var _ voygen.PageSource = (*PageSource)(nil)

// PageSource opens pages in Chrome and snapshots them after they render.
// PageSource is safe for concurrent use by multiple goroutines.
type PageSource struct {
	manager        *BrowserManager
	settle         time.Duration
	globals        []string
	maxGlobalBytes int
}

// SourceOption configures a PageSource.
type SourceOption func(*PageSource)

// WithSettle sets how long to wait for the page to go idle after load.
// Zero skips the wait.
func WithSettle(d time.Duration) SourceOption {
	return func(s *PageSource) {
		s.settle = d
	}
}

// WithGlobals sets the window globals captured into Page.Globals.
func WithGlobals(names ...string) SourceOption {
	return func(s *PageSource) {
		s.globals = names
	}
}

// WithMaxGlobalBytes caps the serialized size of one captured global.
func WithMaxGlobalBytes(n int) SourceOption {
	return func(s *PageSource) {
		s.maxGlobalBytes = n
	}
}

// NewPageSource creates a PageSource that opens tabs from manager.
func NewPageSource(manager *BrowserManager, opts ...SourceOption) *PageSource {
	s := &PageSource{
		manager:        manager,
		settle:         DefaultSettle,
		maxGlobalBytes: DefaultMaxGlobalBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open navigates a new tab to url and waits for it to render. The caller
// must close the returned Session.
func (s *PageSource) Open(ctx context.Context, url string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := s.manager.NewPage()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		page:           page,
		manager:        s.manager,
		globals:        s.globals,
		maxGlobalBytes: s.maxGlobalBytes,
	}

	p := page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		_ = sess.Close()
		return nil, navigationError(ctx, url, err)
	}
	if err := p.WaitLoad(); err != nil {
		_ = sess.Close()
		return nil, navigationError(ctx, url, err)
	}
	if s.settle > 0 {
		// Pages that keep polling never go idle; the snapshot is taken anyway.
		_ = p.WaitIdle(s.settle)
	}
	return sess, nil
}

// Page opens url, snapshots it and closes the tab.
func (s *PageSource) Page(ctx context.Context, url string) (*voygen.Page, error) {
	sess, err := s.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	return sess.Snapshot(ctx)
}

func navigationError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return voygen.Errorf(voygen.EINTERNAL, "loading %s: %v", url, err)
}
