package readability

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure Extractor implements voygen.Extractor at compile time.
var _ voygen.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Relative links
// in the content are resolved against pageURL when it parses.
func (e *Extractor) Extract(pageURL, rawHTML string) (*voygen.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, voygen.Errorf(voygen.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}

	return &voygen.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Excerpt:     voygen.CollapseSpace(article.Excerpt),
	}, nil
}
