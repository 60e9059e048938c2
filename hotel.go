package voygen

import (
	"context"
	"strings"
)

// HotelRoute names the tier that produced a set of hotel rows.
type HotelRoute string

// Hotel extraction tiers.
const (
	RouteHydration HotelRoute = "hydration"
	RouteXHR       HotelRoute = "xhr"
	RouteDOM       HotelRoute = "dom"
)

// Row limits for hotel extraction.
const (
	DefaultMaxRows = 200
	MinMaxRows     = 1
	MaxMaxRows     = 1000

	HotelSampleSize = 5
)

// HotelRow is the canonical list-result record every tier populates.
// All fields except Name are best-effort.
type HotelRow struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Brand            string   `json:"brand,omitempty"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
	Address          string   `json:"address,omitempty"`
	StarRating       string   `json:"star_rating,omitempty"`
	ReviewScore      string   `json:"review_score,omitempty"`
	PriceText        string   `json:"price_text,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	TaxesFeesText    string   `json:"taxes_fees_text,omitempty"`
	CancellationText string   `json:"cancellation_text,omitempty"`
	Refundable       *bool    `json:"refundable,omitempty"`
	PackageType      string   `json:"package_type,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
	DetailURL        string   `json:"detail_url,omitempty"`
}

// HotelDTO is the outward-facing hotel record handed to downstream consumers.
// ID is always set: it falls back to the detail URL, then the name.
type HotelDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Brand            string   `json:"brand,omitempty"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
	Address          string   `json:"address,omitempty"`
	StarRating       *float64 `json:"star_rating,omitempty"`
	ReviewScore      *float64 `json:"review_score,omitempty"`
	PriceText        string   `json:"price_text,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	TaxesFeesText    string   `json:"taxes_fees_text,omitempty"`
	CancellationText string   `json:"cancellation_text,omitempty"`
	Refundable       *bool    `json:"refundable,omitempty"`
	PackageType      string   `json:"package_type,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
	DetailURL        string   `json:"detail_url,omitempty"`
}

// HotelRequest holds the arguments of a hotel extraction call.
type HotelRequest struct {
	URL          string `json:"url,omitempty"`
	PageTypeHint string `json:"pageTypeHint,omitempty"`
	MaxRows      int    `json:"maxRows,omitempty"`
	DOMSelector  string `json:"domSelector,omitempty"`
}

// RowLimit returns MaxRows clamped into [MinMaxRows, MaxMaxRows].
// An unset (zero) MaxRows uses DefaultMaxRows.
func (r HotelRequest) RowLimit() int {
	switch {
	case r.MaxRows == 0:
		return DefaultMaxRows
	case r.MaxRows < MinMaxRows:
		return MinMaxRows
	case r.MaxRows > MaxMaxRows:
		return MaxMaxRows
	}
	return r.MaxRows
}

// HotelStrategy is one tier of the hotel extraction chain.
type HotelStrategy interface {
	// Route identifies the tier.
	Route() HotelRoute

	// ExtractRows returns up to limit rows found on the page. Zero rows is a
	// miss. The returned meta describes what the tier found (keys, endpoints,
	// selectors) and is merged into the envelope.
	ExtractRows(ctx context.Context, page *Page, req HotelRequest, limit int) (rows []HotelRow, meta map[string]any, err error)
}

// HotelExtractor runs the hotel strategy chain against a page snapshot.
type HotelExtractor interface {
	// ExtractHotels never returns an error: failures are reported in the envelope.
	ExtractHotels(ctx context.Context, page *Page, req HotelRequest) *Envelope
}

// Key identifies a row across result pages: the id, else the detail URL,
// else the lower-cased name. A row with none of them has an empty key.
func (r HotelRow) Key() string {
	switch {
	case r.ID != "":
		return "id:" + r.ID
	case r.DetailURL != "":
		return "url:" + r.DetailURL
	case r.Name != "":
		return "name:" + strings.ToLower(CollapseSpace(r.Name))
	}
	return ""
}
