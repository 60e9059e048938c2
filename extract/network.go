package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"path"
	"sort"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.HotelStrategy = (*NetworkSampler)(nil)

// DefaultMaxRefetches is how many sampled endpoints are re-fetched, one at
// a time, before the tier gives up.
const DefaultMaxRefetches = 3

// staticExtensions mark resources that never carry result data.
var staticExtensions = map[string]bool{
	".js": true, ".mjs": true, ".css": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".svg": true, ".webp": true, ".avif": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".mp4": true, ".map": true,
}

// dataInitiators are resource initiator types that fetch data.
var dataInitiators = map[string]bool{"xmlhttprequest": true, "fetch": true, "other": true, "": true}

// apiMarkers make a URL look like a travel API endpoint.
var apiMarkers = []string{"/api/", "/graphql", "/rest/", "/ajax", "/services/", "/ws/", "/v1/", "/v2/", "/v3/", ".json", ".xml", "/soap"}

// resultMarkers weight a URL by how hotel/search/result-shaped it is.
var resultMarkers = []struct {
	marker string
	weight int
}{
	{"hotel", 4},
	{"propert", 3},
	{"lodging", 3},
	{"accommodation", 3},
	{"avail", 2},
	{"search", 2},
	{"result", 2},
	{"offer", 1},
	{"rate", 1},
	{"list", 1},
}

// Endpoint is a sampled resource URL with its shape score.
type Endpoint struct {
	URL   string
	Score int
}

// RankEndpoints returns the page's data resources that are same-origin or
// API-shaped, most result-shaped first. Ties keep page load order.
func RankEndpoints(page *voygen.Page) []Endpoint {
	base, _ := url.Parse(page.URL)
	seen := make(map[string]bool)
	var out []Endpoint
	for _, r := range page.Resources {
		if !dataInitiators[strings.ToLower(r.InitiatorType)] || seen[r.URL] {
			continue
		}
		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if staticExtensions[strings.ToLower(path.Ext(u.Path))] {
			continue
		}
		seen[r.URL] = true

		lower := strings.ToLower(u.Host + u.Path + "?" + u.RawQuery)
		sameOrigin := base != nil && strings.EqualFold(u.Host, base.Host)
		api := containsAny(lower, apiMarkers)
		if !sameOrigin && !api {
			continue
		}

		score := 0
		if api {
			score += 2
		}
		if sameOrigin {
			score++
		}
		for _, m := range resultMarkers {
			if strings.Contains(lower, m.marker) {
				score += m.weight
			}
		}
		out = append(out, Endpoint{URL: r.URL, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// NetworkSampler implements the xhr tier: it re-fetches endpoints the page
// already called and searches their bodies for hotel arrays. Re-fetches run
// one at a time.
type NetworkSampler struct {
	Fetcher      voygen.ResourceFetcher
	Decoders     []voygen.ResponseDecoder
	MaxRefetches int
}

// NewNetworkSampler creates a NetworkSampler using fetcher for re-fetches and
// decoders for non-JSON bodies.
func NewNetworkSampler(fetcher voygen.ResourceFetcher, decoders ...voygen.ResponseDecoder) *NetworkSampler {
	return &NetworkSampler{
		Fetcher:      fetcher,
		Decoders:     decoders,
		MaxRefetches: DefaultMaxRefetches,
	}
}

// Route returns voygen.RouteXHR.
func (n *NetworkSampler) Route() voygen.HotelRoute {
	return voygen.RouteXHR
}

// ExtractRows re-fetches the best-ranked endpoints until one yields rows.
func (n *NetworkSampler) ExtractRows(ctx context.Context, page *voygen.Page, req voygen.HotelRequest, limit int) ([]voygen.HotelRow, map[string]any, error) {
	endpoints := RankEndpoints(page)
	meta := map[string]any{"endpoints": len(endpoints)}
	if len(endpoints) == 0 {
		return nil, meta, nil
	}
	if n.Fetcher == nil {
		return nil, meta, voygen.Errorf(voygen.EINVALID, "no resource fetcher configured")
	}

	base, _ := url.Parse(page.URL)
	maxRefetches := n.MaxRefetches
	if maxRefetches <= 0 {
		maxRefetches = DefaultMaxRefetches
	}

	var lastErr error
	sampled := 0
	for _, ep := range endpoints {
		if sampled >= maxRefetches {
			break
		}
		sampled++
		meta["sampled"] = sampled

		body, contentType, err := n.Fetcher.FetchResource(ctx, ep.URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, meta, ctx.Err()
			}
			lastErr = err
			continue
		}
		v, err := n.decode(contentType, body)
		if err != nil {
			lastErr = err
			continue
		}
		arr, ok := FindHotelArray(v)
		if !ok {
			continue
		}
		if rows := RowsFromArray(arr, base, limit); len(rows) > 0 {
			meta["endpoint"] = ep.URL
			meta["content_type"] = contentType
			meta["path"] = arr.Path
			return rows, meta, nil
		}
	}
	return nil, meta, lastErr
}

// decode parses a JSON body, or hands it to the first decoder that accepts it.
func (n *NetworkSampler) decode(contentType string, body []byte) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if strings.Contains(strings.ToLower(contentType), "json") ||
		bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, voygen.Errorf(voygen.EINVALID, "invalid JSON response: %v", err)
		}
		return v, nil
	}
	for _, d := range n.Decoders {
		if d.Accepts(contentType, body) {
			return d.Decode(body)
		}
	}
	return nil, voygen.Errorf(voygen.EINVALID, "unsupported response type %q", contentType)
}
