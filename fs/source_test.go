package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/fs"
	"github.com/iamneilroberts/voygen-sub008/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageSource_Page(t *testing.T) {
	t.Parallel()

	t.Run("parses a saved file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "confirmation.html")
		require.NoError(t, os.WriteFile(path, []byte("<h1>Your trip</h1>"), 0644))

		var gotURL, gotHTML string
		src := fs.NewPageSource(&mock.PageParser{
			ParseFn: func(pageURL, html string) (*voygen.Page, error) {
				gotURL, gotHTML = pageURL, html
				return &voygen.Page{URL: pageURL}, nil
			},
		})

		page, err := src.Page(context.Background(), "file://"+path)

		require.NoError(t, err)
		assert.Equal(t, "file://"+path, page.URL)
		assert.Equal(t, "file://"+path, gotURL)
		assert.Equal(t, "<h1>Your trip</h1>", gotHTML)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		src := fs.NewPageSource(&mock.PageParser{})
		_, err := src.Page(context.Background(), filepath.Join(t.TempDir(), "none.html"))

		assert.Equal(t, voygen.ENOTFOUND, voygen.ErrorCode(err))
	})

	t.Run("empty location is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewPageSource(&mock.PageParser{}).Page(context.Background(), " ")

		assert.Equal(t, voygen.EINVALID, voygen.ErrorCode(err))
	})
}

func TestIsFile(t *testing.T) {
	t.Parallel()

	assert.True(t, fs.IsFile("file:///tmp/a.html"))
	assert.True(t, fs.IsFile("./saved/a.html"))
	assert.True(t, fs.IsFile("/tmp/a.html"))
	assert.False(t, fs.IsFile("https://example.com/hotels"))
	assert.False(t, fs.IsFile("http://example.com"))
}
