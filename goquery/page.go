// Package goquery builds page snapshots from markup and scrapes hotel
// result cards using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure Parser implements voygen.PageParser at compile time.
var _ voygen.PageParser = (*Parser)(nil)

// Parser derives titles, headings, script blocks, external sources and
// visible text from HTML.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse builds a Page from markup.
func (p *Parser) Parse(pageURL string, html string) (*voygen.Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, voygen.Errorf(voygen.EINVALID, "failed to parse HTML: %v", err)
	}

	page := &voygen.Page{
		URL:     pageURL,
		HTML:    html,
		Title:   voygen.CollapseSpace(doc.Find("title").First().Text()),
		Heading: voygen.CollapseSpace(doc.Find("h1").First().Text()),
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && strings.TrimSpace(src) != "" {
			page.ScriptSources = append(page.ScriptSources, strings.TrimSpace(src))
			return
		}
		typ, _ := s.Attr("type")
		id, _ := s.Attr("id")
		page.Scripts = append(page.Scripts, voygen.Script{
			ID:   id,
			Type: strings.TrimSpace(typ),
			Body: s.Text(),
		})
	})

	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href = strings.TrimSpace(href); href != "" {
			page.LinkHrefs = append(page.LinkHrefs, href)
		}
	})

	page.Text = VisibleText(doc)

	return page, nil
}

// invisibleSelectors are removed before reading visible text.
const invisibleSelectors = "script, style, noscript, template, svg, head"

// VisibleText returns the document's visible text with whitespace collapsed.
// The document is not modified.
func VisibleText(doc *goquery.Document) string {
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	clone := root.Clone()
	clone.Find(invisibleSelectors).Remove()

	// Separate block-level text so adjacent cells don't run together.
	var b strings.Builder
	clone.Contents().Each(func(_ int, s *goquery.Selection) {
		writeText(&b, s)
	})
	return voygen.CollapseSpace(b.String())
}

func writeText(b *strings.Builder, s *goquery.Selection) {
	if goquery.NodeName(s) == "#text" {
		b.WriteString(s.Text())
		return
	}
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		writeText(b, c)
	})
	b.WriteByte(' ')
}
