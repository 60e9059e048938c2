package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/mock"
	voygenslog "github.com/iamneilroberts/voygen-sub008/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPageSource_Page(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.PageSource{
		PageFn: func(_ context.Context, url string) (*voygen.Page, error) {
			return &voygen.Page{
				URL:       url,
				HTML:      "<html></html>",
				Scripts:   []voygen.Script{{Body: "x"}},
				Resources: []voygen.Resource{{URL: "a"}, {URL: "b"}},
			}, nil
		},
	}

	page, err := voygenslog.NewLoggingPageSource(inner, logger).Page(context.Background(), "https://example.com/search")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/search", page.URL)
	output := buf.String()
	assert.Contains(t, output, "snapshot")
	assert.Contains(t, output, "bytes=13")
	assert.Contains(t, output, "scripts=1")
	assert.Contains(t, output, "resources=2")
}
