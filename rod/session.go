package rod

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-rod/rod"
	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure Session implements the in-page interfaces at compile time.
var (
	_ voygen.Injector        = (*Session)(nil)
	_ voygen.ResourceFetcher = (*Session)(nil)
)

// fetchJS re-fetches a URL from inside the page, sending the page's cookies.
const fetchJS = `(url, maxBytes) => fetch(url, {credentials: 'include'})
	.then(async (r) => JSON.stringify({
		status: r.status,
		contentType: r.headers.get('content-type') || '',
		body: (await r.text()).slice(0, maxBytes),
	}))`

// DefaultMaxResourceBytes caps how much of a re-fetched body is returned.
const DefaultMaxResourceBytes = 8 << 20

// Session is one open browser tab.
type Session struct {
	page    *rod.Page
	manager *BrowserManager

	globals        []string
	maxGlobalBytes int

	closeOnce sync.Once
}

// Inject evaluates a JavaScript function expression in the page with args
// and returns its JSON-encoded result. Promises are awaited.
func (s *Session) Inject(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	res, err := s.page.Context(ctx).Eval(script, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, voygen.Errorf(voygen.EINTERNAL, "evaluating script: %v", err)
	}
	raw, err := json.Marshal(res.Value.Val())
	if err != nil {
		return nil, voygen.Errorf(voygen.EINTERNAL, "encoding script result: %v", err)
	}
	return raw, nil
}

// Snapshot captures the page's current state.
func (s *Session) Snapshot(ctx context.Context) (*voygen.Page, error) {
	raw, err := s.injectString(ctx, snapshotJS, s.globals, s.maxGlobalBytes)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(raw)
}

// FetchResource re-fetches url from inside the page with its credentials.
func (s *Session) FetchResource(ctx context.Context, url string) ([]byte, string, error) {
	raw, err := s.injectString(ctx, fetchJS, url, DefaultMaxResourceBytes)
	if err != nil {
		return nil, "", err
	}
	var resp struct {
		Status      int    `json:"status"`
		ContentType string `json:"contentType"`
		Body        string `json:"body"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, "", voygen.Errorf(voygen.EINTERNAL, "invalid fetch result: %v", err)
	}
	switch {
	case resp.Status == http.StatusNotFound:
		return nil, "", voygen.Errorf(voygen.ENOTFOUND, "HTTP %d for %s", resp.Status, url)
	case resp.Status != http.StatusOK:
		return nil, "", voygen.Errorf(voygen.EINTERNAL, "HTTP %d for %s", resp.Status, url)
	}
	return []byte(resp.Body), resp.ContentType, nil
}

// Close closes the tab. Close is safe to call multiple times.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.page.Close()
		s.manager.ReleasePage()
	})
	return err
}

// injectString runs a script whose result is a string.
func (s *Session) injectString(ctx context.Context, script string, args ...any) (string, error) {
	raw, err := s.Inject(ctx, script, args...)
	if err != nil {
		return "", err
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", voygen.Errorf(voygen.EINTERNAL, "script returned %s, want a string", raw)
	}
	return out, nil
}
