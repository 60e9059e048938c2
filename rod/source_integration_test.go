//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure PageSource implements voygen.PageSource.
var _ voygen.PageSource = (*rod.PageSource)(nil)

const searchPage = `<!DOCTYPE html>
<html>
<head><title>Results</title></head>
<body>
<h1>Cancun   hotels</h1>
<div id="list">Loading...</div>
<script>
window.__INITIAL_STATE__ = {hotels: [{name: "Rendered Resort", price: "$99", stars: 4}]};
fetch('/api/hotels').then((r) => r.json()).then((d) => {
	document.getElementById('list').textContent = d.hotels[0].name;
});
</script>
</body>
</html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(searchPage))
	})
	mux.HandleFunc("/api/hotels", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hotels":[{"name":"Api Hotel","price":"$120","stars":3}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPageSource_Integration(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	defer manager.Close()

	srv := newServer(t)
	source := rod.NewPageSource(manager, rod.WithSettle(500*time.Millisecond), rod.WithGlobals("__INITIAL_STATE__"))

	t.Run("snapshot captures globals and resources", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		page, err := source.Page(ctx, srv.URL+"/search")

		require.NoError(t, err)
		assert.Equal(t, "Results", page.Title)
		assert.Equal(t, "Cancun hotels", page.Heading)
		assert.Contains(t, page.Text, "Api Hotel")
		assert.Contains(t, string(page.Globals["__INITIAL_STATE__"]), "Rendered Resort")

		var urls []string
		for _, r := range page.Resources {
			urls = append(urls, r.URL)
		}
		assert.Contains(t, urls, srv.URL+"/api/hotels")
	})

	t.Run("session re-fetches with the page cookies", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess, err := source.Open(ctx, srv.URL+"/search")
		require.NoError(t, err)
		defer sess.Close()

		body, contentType, err := sess.FetchResource(ctx, srv.URL+"/api/hotels")

		require.NoError(t, err)
		assert.Contains(t, string(body), "Api Hotel")
		assert.Equal(t, "application/json", contentType)
	})

	t.Run("inject returns the script result", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess, err := source.Open(ctx, srv.URL+"/search")
		require.NoError(t, err)
		defer sess.Close()

		raw, err := sess.Inject(ctx, `(n) => ({doubled: n * 2})`, 21)

		require.NoError(t, err)
		assert.JSONEq(t, `{"doubled":42}`, string(raw))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := source.Page(ctx, srv.URL+"/search")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBrowserManager_RecyclesAfterMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
	require.NoError(t, err)
	defer manager.Close()

	firstPID := manager.LauncherPID()
	for i := 0; i < 2; i++ {
		page, err := manager.NewPage()
		require.NoError(t, err)
		require.NoError(t, page.Close())
		manager.ReleasePage()
	}
	assert.Equal(t, int64(2), manager.PageCount())

	page, err := manager.NewPage()
	require.NoError(t, err)
	defer manager.ReleasePage()
	defer page.Close()

	assert.NotEqual(t, firstPID, manager.LauncherPID())
	assert.Equal(t, int64(1), manager.PageCount())
}
