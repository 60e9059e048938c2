package voygen

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// MarkupSignatureBytes is how much of the raw markup the classifier inspects.
const MarkupSignatureBytes = 20 * 1024

// Page is a snapshot of a target page taken at extraction time.
// Extractors treat it as read-only; it is discarded after the envelope
// has been produced.
type Page struct {
	URL     string
	Title   string
	Heading string // text of the first h1
	HTML    string // full rendered markup
	Text    string // visible text, whitespace collapsed

	Scripts       []Script
	ScriptSources []string // src of external scripts
	LinkHrefs     []string // href of <link> elements

	// Resources are the page's own performance resource entries.
	// Only available when the snapshot comes from a live browser.
	Resources []Resource

	// Globals holds JSON values of well-known hydration globals, keyed by
	// variable name. Only available when the snapshot comes from a live browser.
	Globals map[string]json.RawMessage
}

// Hostname returns the lower-cased host of the page URL without port.
func (p *Page) Hostname() string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// MarkupSignature returns the first MarkupSignatureBytes of the markup.
func (p *Page) MarkupSignature() string {
	if len(p.HTML) <= MarkupSignatureBytes {
		return p.HTML
	}
	return p.HTML[:MarkupSignatureBytes]
}

// ScriptsOfType returns the inline scripts with the given type attribute.
// The comparison is case-insensitive.
func (p *Page) ScriptsOfType(typ string) []Script {
	var out []Script
	for _, s := range p.Scripts {
		if strings.EqualFold(strings.TrimSpace(s.Type), typ) {
			out = append(out, s)
		}
	}
	return out
}

// Script is an inline <script> element.
type Script struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
	Body string `json:"body"`
}

// Resource is a performance resource timing entry.
type Resource struct {
	URL           string `json:"name"`
	InitiatorType string `json:"initiatorType"`
}

// PageSource produces page snapshots.
// Implementations hide browser vs static HTTP vs local file retrieval.
type PageSource interface {
	// Page retrieves the URL and returns a snapshot of the rendered page.
	Page(ctx context.Context, url string) (*Page, error)
}

// PageParser derives the structural parts of a snapshot from raw markup.
type PageParser interface {
	// Parse builds a Page from markup. Resources and Globals are left empty.
	Parse(pageURL string, html string) (*Page, error)
}

// Injector executes a script body inside the target page and returns
// whatever JSON value the script produces.
type Injector interface {
	Inject(ctx context.Context, script string, args ...any) (json.RawMessage, error)
}

// ResourceFetcher re-fetches a resource the page has already loaded,
// carrying the page session's credentials.
type ResourceFetcher interface {
	// FetchResource returns the response body and its content type.
	FetchResource(ctx context.Context, url string) (body []byte, contentType string, err error)
}

// ResponseDecoder converts a non-JSON response body into the generic
// map/slice shape produced by encoding/json.
type ResponseDecoder interface {
	// Accepts reports whether the decoder understands the content.
	Accepts(contentType string, body []byte) bool

	// Decode converts the body into map[string]any / []any values.
	Decode(body []byte) (any, error)
}
