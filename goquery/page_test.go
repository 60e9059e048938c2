package goquery_test

import (
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Parser implements voygen.PageParser at compile time.
var _ voygen.PageParser = (*goquery.Parser)(nil)

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head>
	<title>  Hotels in   Cancun </title>
	<link rel="preconnect" href="https://api.navitrip.com">
	<script src="/static/app.js"></script>
</head>
<body>
	<h1>Search results</h1>
	<p>Found <b>3</b> hotels</p>
	<script id="__NEXT_DATA__" type="application/json">{"props":{}}</script>
	<script>window.__APP__ = {};</script>
	<style>.x { color: red }</style>
	<noscript>Enable JavaScript</noscript>
</body>
</html>`

	t.Run("reads title and heading", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().Parse("https://example.com/search", html)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/search", page.URL)
		assert.Equal(t, "Hotels in Cancun", page.Title)
		assert.Equal(t, "Search results", page.Heading)
		assert.Equal(t, html, page.HTML)
	})

	t.Run("collects inline scripts with id and type", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().Parse("https://example.com/search", html)

		require.NoError(t, err)
		require.Len(t, page.Scripts, 2)
		assert.Equal(t, "__NEXT_DATA__", page.Scripts[0].ID)
		assert.Equal(t, "application/json", page.Scripts[0].Type)
		assert.JSONEq(t, `{"props":{}}`, page.Scripts[0].Body)
		assert.Equal(t, "window.__APP__ = {};", page.Scripts[1].Body)
		assert.Len(t, page.ScriptsOfType("application/json"), 1)
	})

	t.Run("collects external sources and link hrefs", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().Parse("https://example.com/search", html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/static/app.js"}, page.ScriptSources)
		assert.Equal(t, []string{"https://api.navitrip.com"}, page.LinkHrefs)
	})

	t.Run("visible text excludes scripts and styles", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().Parse("https://example.com/search", html)

		require.NoError(t, err)
		assert.Contains(t, page.Text, "Search results")
		assert.Contains(t, page.Text, "Found 3 hotels")
		assert.NotContains(t, page.Text, "__APP__")
		assert.NotContains(t, page.Text, "color: red")
		assert.NotContains(t, page.Text, "Enable JavaScript")
	})

	t.Run("empty markup yields an empty page", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().Parse("https://example.com/", "")

		require.NoError(t, err)
		assert.Empty(t, page.Title)
		assert.Empty(t, page.Scripts)
		assert.Empty(t, page.Text)
	})
}

func TestVisibleText(t *testing.T) {
	t.Parallel()

	t.Run("separates adjacent blocks", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().Parse("", `<div><p>Hello</p><p>World</p></div>`)

		require.NoError(t, err)
		assert.Equal(t, "Hello World", page.Text)
	})
}
