package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/gzip"
)

var _ voygen.FactExtractor = (*FactExtractor)(nil)

// ExcerptChars is the length of the excerpt carried by a generic fact.
const ExcerptChars = 280

// FactExtractor runs the facts methods in fixed order: JSON-LD, inline JSON,
// then regex over visible text. The first method that yields facts wins.
// When nothing matches, a generic fact describes the page. The request's
// hint and preferred kinds narrow only the regex pass.
type FactExtractor struct {
	// Extractor and Converter, when set, improve the generic fact's title
	// and excerpt using main-content extraction.
	Extractor voygen.Extractor
	Converter voygen.Converter

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewFactExtractor creates a FactExtractor.
func NewFactExtractor(extractor voygen.Extractor, converter voygen.Converter) *FactExtractor {
	return &FactExtractor{
		Extractor: extractor,
		Converter: converter,
		Now:       time.Now,
	}
}

// ExtractFacts returns an envelope holding the facts found on the page.
func (e *FactExtractor) ExtractFacts(ctx context.Context, page *voygen.Page, req voygen.FactRequest) *voygen.Envelope {
	if page == nil {
		return voygen.Failed(voygen.EnvelopeFacts, "no page snapshot", nil)
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	start := now()
	kinds := req.Kinds()
	kindNames := make([]string, len(kinds))
	for i, k := range kinds {
		kindNames[i] = string(k)
	}
	meta := map[string]any{"kinds": kindNames}

	var route voygen.FactRoute
	var facts []voygen.TravelFact
	var tried []string

	methods := []struct {
		route voygen.FactRoute
		run   func() []voygen.TravelFact
	}{
		{voygen.RouteJSONLD, func() []voygen.TravelFact { return JSONLDFacts(page, voygen.FactKinds) }},
		{voygen.RouteInlineJSON, func() []voygen.TravelFact { return InlineJSONFacts(page, voygen.FactKinds) }},
		{voygen.RouteRegex, func() []voygen.TravelFact {
			text := voygen.Truncate(page.Text, req.CharLimit())
			meta["chars_scanned"] = len(text)
			return RegexFacts(page, text, kinds)
		}},
	}
	for _, m := range methods {
		if err := ctx.Err(); err != nil {
			meta["tried"] = tried
			return voygen.Failed(voygen.EnvelopeFacts, err.Error(), meta)
		}
		tried = append(tried, string(m.route))
		if facts = m.run(); len(facts) > 0 {
			route = m.route
			break
		}
	}
	meta["tried"] = tried

	if len(facts) == 0 {
		fact, ok := e.genericFact(page)
		if !ok {
			return voygen.Failed(voygen.EnvelopeFacts, "page is blank", meta)
		}
		facts = []voygen.TravelFact{fact}
		route = voygen.RouteRegex
		meta["fallback"] = true
	}
	meta["duration_ms"] = now().Sub(start).Milliseconds()

	return factEnvelope(route, facts, meta)
}

// genericFact describes the page by title and excerpt. It reports false
// only for a blank page.
func (e *FactExtractor) genericFact(page *voygen.Page) (voygen.TravelFact, bool) {
	title := page.Title
	if title == "" {
		title = page.Heading
	}
	var excerpt string

	if e.Extractor != nil && strings.TrimSpace(page.HTML) != "" {
		if res, err := e.Extractor.Extract(page.URL, page.HTML); err == nil {
			if title == "" {
				title = res.Title
			}
			excerpt = res.Excerpt
			if excerpt == "" && e.Converter != nil && res.ContentHTML != "" {
				if md, err := e.Converter.Convert(res.ContentHTML); err == nil {
					excerpt = md
				}
			}
		}
	}
	if strings.TrimSpace(excerpt) == "" {
		excerpt = page.Text
	}
	excerpt = voygen.Truncate(voygen.CollapseSpace(excerpt), ExcerptChars)
	title = voygen.CollapseSpace(title)

	if title == "" && excerpt == "" {
		return voygen.TravelFact{}, false
	}
	return voygen.TravelFact{
		Kind:       voygen.KindGeneric,
		Confidence: Confidence("", 0),
		Source:     voygen.FactSource{Route: voygen.RouteRegex, Hints: []string{"fallback"}},
		Title:      title,
		Excerpt:    excerpt,
		URL:        page.URL,
	}, true
}

func factEnvelope(route voygen.FactRoute, facts []voygen.TravelFact, meta map[string]any) *voygen.Envelope {
	payload, err := gzip.EncodeJSON(facts)
	if err != nil {
		return voygen.Failed(voygen.EnvelopeFacts, fmt.Sprintf("failed to encode facts: %v", err), meta)
	}
	sample, err := json.Marshal(facts[:min(len(facts), voygen.FactSampleSize)])
	if err != nil {
		return voygen.Failed(voygen.EnvelopeFacts, fmt.Sprintf("failed to encode sample: %v", err), meta)
	}
	return &voygen.Envelope{
		OK:              true,
		Kind:            voygen.EnvelopeFacts,
		Route:           string(route),
		Count:           len(facts),
		Sample:          sample,
		FactsGzipBase64: payload,
		Meta:            meta,
	}
}
