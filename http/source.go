package http

import (
	"context"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.PageSource = (*PageSource)(nil)

// PageSource snapshots static pages: it fetches markup over HTTP and parses
// it into a Page. Snapshots carry no resource entries or captured globals.
type PageSource struct {
	Fetcher voygen.Fetcher
	Parser  voygen.PageParser
}

// NewPageSource creates a PageSource.
func NewPageSource(fetcher voygen.Fetcher, parser voygen.PageParser) *PageSource {
	return &PageSource{Fetcher: fetcher, Parser: parser}
}

// Page fetches the URL and parses the response.
func (s *PageSource) Page(ctx context.Context, url string) (*voygen.Page, error) {
	html, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.Parser.Parse(url, html)
}
