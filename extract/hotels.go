package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/gzip"
)

var _ voygen.HotelExtractor = (*HotelExtractor)(nil)

// HotelExtractor runs the hotel tiers in platform order and packs the first
// non-empty row set into an envelope.
type HotelExtractor struct {
	Classifier voygen.PlatformClassifier
	Orders     voygen.StrategyOrder
	strategies map[voygen.HotelRoute]voygen.HotelStrategy

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewHotelExtractor creates a HotelExtractor. Each strategy is registered
// under its route; a later strategy replaces an earlier one with the same route.
func NewHotelExtractor(classifier voygen.PlatformClassifier, orders voygen.StrategyOrder, strategies ...voygen.HotelStrategy) *HotelExtractor {
	e := &HotelExtractor{
		Classifier: classifier,
		Orders:     orders,
		strategies: make(map[voygen.HotelRoute]voygen.HotelStrategy),
		Now:        time.Now,
	}
	for _, s := range strategies {
		e.strategies[s.Route()] = s
	}
	return e
}

// ExtractHotels classifies the page, tries each tier in order and returns an
// envelope. Tier errors and misses fall through to the next tier; a fully
// failed chain returns a failure envelope.
func (e *HotelExtractor) ExtractHotels(ctx context.Context, page *voygen.Page, req voygen.HotelRequest) *voygen.Envelope {
	if page == nil {
		return voygen.Failed(voygen.EnvelopeHotels, "no page snapshot", nil)
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	start := now()
	limit := req.RowLimit()
	platform := e.Classifier.Classify(page, req.PageTypeHint)

	var attempted []string
	tierErrors := make(map[string]string)
	for _, route := range e.Orders.Order(platform) {
		s, ok := e.strategies[route]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			tierErrors[string(route)] = err.Error()
			break
		}
		attempted = append(attempted, string(route))

		rows, tierMeta, err := runTier(ctx, s, page, req, limit)
		if err != nil {
			tierErrors[string(route)] = err.Error()
			continue
		}
		rows = namedRows(rows, limit)
		if len(rows) == 0 {
			continue
		}

		meta := make(map[string]any, len(tierMeta)+6)
		for k, v := range tierMeta {
			meta[k] = v
		}
		meta["platform"] = string(platform)
		meta["attempted"] = attempted
		meta["max_rows"] = limit
		meta["duration_ms"] = now().Sub(start).Milliseconds()
		if len(tierErrors) > 0 {
			meta["tier_errors"] = tierErrors
		}
		return hotelEnvelope(route, rows, meta)
	}

	meta := map[string]any{
		"platform":    string(platform),
		"attempted":   attempted,
		"duration_ms": now().Sub(start).Milliseconds(),
	}
	if len(tierErrors) > 0 {
		meta["tier_errors"] = tierErrors
	}
	return voygen.Failed(voygen.EnvelopeHotels, "no hotel rows found", meta)
}

// runTier calls the strategy, converting a panic into an error.
func runTier(ctx context.Context, s voygen.HotelStrategy, page *voygen.Page, req voygen.HotelRequest, limit int) (rows []voygen.HotelRow, meta map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, meta = nil, nil
			err = voygen.Errorf(voygen.EINTERNAL, "%s tier panicked: %v", s.Route(), r)
		}
	}()
	return s.ExtractRows(ctx, page, req, limit)
}

// namedRows drops rows without a name and caps the result at limit.
func namedRows(rows []voygen.HotelRow, limit int) []voygen.HotelRow {
	out := make([]voygen.HotelRow, 0, min(len(rows), limit))
	for _, r := range rows {
		if len(out) >= limit {
			break
		}
		if r.Name != "" {
			out = append(out, r)
		}
	}
	return out
}

func hotelEnvelope(route voygen.HotelRoute, rows []voygen.HotelRow, meta map[string]any) *voygen.Envelope {
	payload, err := gzip.EncodeNDJSON(rows)
	if err != nil {
		return voygen.Failed(voygen.EnvelopeHotels, fmt.Sprintf("failed to encode rows: %v", err), meta)
	}
	sample, err := json.Marshal(rows[:min(len(rows), voygen.HotelSampleSize)])
	if err != nil {
		return voygen.Failed(voygen.EnvelopeHotels, fmt.Sprintf("failed to encode sample: %v", err), meta)
	}
	return &voygen.Envelope{
		OK:               true,
		Kind:             voygen.EnvelopeHotels,
		Route:            string(route),
		Count:            len(rows),
		Sample:           sample,
		NDJSONGzipBase64: payload,
		Meta:             meta,
	}
}
