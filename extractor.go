package voygen

// ExtractResult holds the main content of a page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// Excerpt is a short description, when the page metadata offers one.
	Excerpt string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// The generic fact fallback uses it to describe pages nothing else matched.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(pageURL string, html string) (*ExtractResult, error)
}
