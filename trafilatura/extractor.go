package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements voygen.Extractor at compile time.
var _ voygen.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. The excerpt
// comes from the page's description metadata.
func (e *Extractor) Extract(pageURL, rawHTML string) (*voygen.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, voygen.Errorf(voygen.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &voygen.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
		Excerpt:     voygen.CollapseSpace(result.Metadata.Description),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
