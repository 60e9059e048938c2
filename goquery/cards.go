package goquery

import (
	"context"
	"net/url"
	"runtime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure CardScraper implements voygen.HotelStrategy at compile time.
var _ voygen.HotelStrategy = (*CardScraper)(nil)

// HotelCardSelector matches elements that are unambiguously one hotel or
// property. It is tried before DefaultCardSelector.
const HotelCardSelector = `[class*="hotel-card"], [class*="hotelCard"], [class*="property-card"], ` +
	`[class*="propertyCard"], [data-hotel-id], [data-property-id], [data-testid*="property"]`

// DefaultCardSelector adds the broad class patterns result pages commonly
// use for cards, rows and results.
const DefaultCardSelector = HotelCardSelector + `, [class*="result-card"], [class*="resultCard"], ` +
	`[class*="search-result"], [class*="result-item"], [class*="listing"], [class*="card"], ` +
	`[class*="result"], [class*="row"], article`

// DefaultBatchSize is the number of cards mapped between yield points.
const DefaultBatchSize = 25

// Field selectors, most specific first. The first selector with a match wins.
var (
	nameSelectors = []string{
		`[class*="hotel-name"], [class*="hotelName"], [class*="property-name"], [class*="propertyName"]`,
		`[itemprop="name"], [data-testid*="title"]`,
		`h2, h3, h4`,
		`[class*="name"], [class*="title"]`,
	}
	priceSelectors        = []string{`[class*="price"], [class*="Price"], [data-price], [itemprop="price"]`, `[class*="rate"]`}
	currencySelectors     = []string{`[itemprop="priceCurrency"], [data-currency]`}
	starSelectors         = []string{`[data-stars]`, `[class*="star"], [class*="Star"], [aria-label*="star"]`}
	reviewSelectors       = []string{`[class*="review-score"], [class*="reviewScore"], [itemprop="ratingValue"]`, `[class*="score"]`, `[class*="review"]`}
	addressSelectors      = []string{`[itemprop="address"], address`, `[class*="address"]`, `[class*="location"]`}
	brandSelectors        = []string{`[data-brand]`, `[class*="brand"]`}
	taxesSelectors        = []string{`[class*="tax"]`, `[class*="fee"]`}
	cancellationSelectors = []string{`[class*="cancel"], [class*="refund"]`, `[class*="policy"]`}
	packageSelectors      = []string{`[data-package-type]`, `[class*="package"]`}
	linkSelectors         = []string{`a[class*="name"][href], a[class*="title"][href]`, `a[href*="hotel"], a[href*="property"]`, `a[href]`}
	imageSelectors        = []string{`img[src], img[data-src]`}
)

// idAttributes hold site-assigned identifiers on card elements.
var idAttributes = []string{"data-hotel-id", "data-property-id", "data-hotelid", "data-id", "data-code", "id"}

// CardScraper implements the DOM tier: it maps result cards to rows using
// best-effort selector lookups. Cards are processed in batches with a
// yield point between batches.
type CardScraper struct {
	// BatchSize is the number of cards mapped between yields.
	BatchSize int

	// Yield is called between batches. It defaults to runtime.Gosched
	// followed by a context check.
	Yield func(ctx context.Context) error
}

// NewCardScraper creates a CardScraper with default batching.
func NewCardScraper() *CardScraper {
	return &CardScraper{
		BatchSize: DefaultBatchSize,
		Yield:     defaultYield,
	}
}

func defaultYield(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
}

// Route returns voygen.RouteDOM.
func (c *CardScraper) Route() voygen.HotelRoute {
	return voygen.RouteDOM
}

// ExtractRows queries the request's selector and maps up to limit named
// cards to rows. Without one it tries HotelCardSelector, then
// DefaultCardSelector.
func (c *CardScraper) ExtractRows(ctx context.Context, page *voygen.Page, req voygen.HotelRequest, limit int) ([]voygen.HotelRow, map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, nil, voygen.Errorf(voygen.EINVALID, "failed to parse HTML: %v", err)
	}
	base, _ := url.Parse(page.URL)

	selector := strings.TrimSpace(req.DOMSelector)
	var cards []*goquery.Selection
	if selector != "" {
		cards = namedMatches(doc, selector)
	} else {
		for _, sel := range []string{HotelCardSelector, DefaultCardSelector} {
			selector = sel
			if cards = recordCards(doc, sel); len(cards) > 0 {
				break
			}
		}
	}
	candidates := len(cards)
	if len(cards) > limit {
		cards = cards[:limit]
	}

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	yield := c.Yield
	if yield == nil {
		yield = defaultYield
	}

	rows := make([]voygen.HotelRow, 0, len(cards))
	batches := 0
	for start := 0; start < len(cards); start += batchSize {
		if start > 0 {
			if err := yield(ctx); err != nil {
				return nil, nil, err
			}
		}
		end := min(start+batchSize, len(cards))
		for _, card := range cards[start:end] {
			if row, ok := mapCard(card, base); ok {
				rows = append(rows, row)
			}
		}
		batches++
	}

	meta := map[string]any{
		"selector":   selector,
		"candidates": candidates,
		"batches":    batches,
	}
	return rows, meta, nil
}

// namedMatches returns every element matching selector that has a name.
func namedMatches(doc *goquery.Document, selector string) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if cardName(s) != "" {
			out = append(out, s)
		}
	})
	return out
}

// recordCards narrows broad selector matches down to one element per result.
// A list container, one holding repeated candidates, is dropped; a
// candidate nested inside a kept one is dropped in favor of its ancestor.
func recordCards(doc *goquery.Document, selector string) []*goquery.Selection {
	named := namedMatches(doc, selector)
	if len(named) == 0 {
		return nil
	}

	nodes := make([]*goquery.Selection, 0, len(named))
	for _, s := range named {
		if !isList(s, named) {
			nodes = append(nodes, s)
		}
	}

	var out []*goquery.Selection
	for _, s := range nodes {
		nested := false
		for _, other := range nodes {
			if other.Get(0) != s.Get(0) && contains(other, s) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, s)
		}
	}
	return out
}

// isList reports whether s holds two or more candidates with the same
// signature. Distinct blocks such as a card header and body are parts of
// one record.
func isList(s *goquery.Selection, named []*goquery.Selection) bool {
	seen := make(map[string]bool)
	for _, other := range named {
		if other.Get(0) == s.Get(0) || !contains(s, other) {
			continue
		}
		sig := signature(other)
		if seen[sig] {
			return true
		}
		seen[sig] = true
	}
	return false
}

// signature is the tag name plus the first class token.
func signature(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return goquery.NodeName(s)
	}
	return goquery.NodeName(s) + "." + fields[0]
}

// contains reports whether inner is a descendant of outer.
func contains(outer, inner *goquery.Selection) bool {
	o, i := outer.Get(0), inner.Get(0)
	if o == nil || i == nil {
		return false
	}
	for n := i.Parent; n != nil; n = n.Parent {
		if n == o {
			return true
		}
	}
	return false
}

func mapCard(card *goquery.Selection, base *url.URL) (voygen.HotelRow, bool) {
	name := cardName(card)
	if name == "" {
		return voygen.HotelRow{}, false
	}

	row := voygen.HotelRow{
		ID:               cardID(card),
		Name:             name,
		Brand:            firstText(card, brandSelectors),
		Address:          firstText(card, addressSelectors),
		StarRating:       firstValue(card, starSelectors, "data-stars", "aria-label", "content", "title"),
		ReviewScore:      firstValue(card, reviewSelectors, "data-score", "content", "aria-label"),
		PriceText:        firstValue(card, priceSelectors, "data-price", "content"),
		TaxesFeesText:    firstText(card, taxesSelectors),
		CancellationText: firstText(card, cancellationSelectors),
		PackageType:      firstValue(card, packageSelectors, "data-package-type"),
	}

	row.Currency = firstValue(card, currencySelectors, "content", "data-currency")
	if row.Currency == "" {
		row.Currency = voygen.CurrencyFromText(row.PriceText)
	}
	row.Refundable = voygen.RefundableFromText(row.CancellationText)

	if href, ok := firstMatch(card, linkSelectors).Attr("href"); ok {
		row.DetailURL = resolve(base, href)
	} else if href, ok := card.Attr("href"); ok {
		row.DetailURL = resolve(base, href)
	}

	img := firstMatch(card, imageSelectors)
	if src, ok := img.Attr("src"); ok && !strings.HasPrefix(src, "data:") {
		row.ImageURL = resolve(base, src)
	} else if src, ok := img.Attr("data-src"); ok {
		row.ImageURL = resolve(base, src)
	}

	if lat, ok := card.Attr("data-lat"); ok {
		row.Lat = voygen.NumberPtr(lat)
	}
	if lng, ok := card.Attr("data-lng"); ok {
		row.Lng = voygen.NumberPtr(lng)
	}

	return row, true
}

func cardName(card *goquery.Selection) string {
	s := firstMatch(card, nameSelectors)
	if s.Length() == 0 {
		return ""
	}
	if name := voygen.CollapseSpace(s.Text()); name != "" {
		return name
	}
	title, _ := s.Attr("title")
	return voygen.CollapseSpace(title)
}

func cardID(card *goquery.Selection) string {
	for _, attr := range idAttributes {
		if v, ok := card.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstMatch returns the first element matched by the earliest selector
// that matches anything.
func firstMatch(card *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := card.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return card.Slice(0, 0)
}

// firstText returns the collapsed text of the first match.
func firstText(card *goquery.Selection, selectors []string) string {
	return voygen.CollapseSpace(firstMatch(card, selectors).Text())
}

// firstValue returns the text of the first match, falling back to the
// listed attributes when the element has no text.
func firstValue(card *goquery.Selection, selectors []string, attrs ...string) string {
	s := firstMatch(card, selectors)
	if s.Length() == 0 {
		for _, attr := range attrs {
			if v, ok := card.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return voygen.CollapseSpace(v)
			}
		}
		return ""
	}
	if text := voygen.CollapseSpace(s.Text()); text != "" {
		return text
	}
	for _, attr := range attrs {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return voygen.CollapseSpace(v)
		}
	}
	return ""
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(strings.ToLower(ref), "javascript:") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
