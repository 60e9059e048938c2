package voygen

import (
	"context"
	"sort"
)

// FactKind classifies a travel fact.
type FactKind string

// Fact kinds.
const (
	KindFlight      FactKind = "flight"
	KindHotel       FactKind = "hotel"
	KindReservation FactKind = "reservation"
	KindEvent       FactKind = "event"
	KindPlace       FactKind = "place"
	KindGeneric     FactKind = "generic"
)

// FactKinds lists the specific kinds in the order the text pass tries them.
var FactKinds = []FactKind{KindFlight, KindHotel, KindReservation, KindEvent, KindPlace}

// ParseFactKind returns the kind named by s, or false for unknown names.
func ParseFactKind(s string) (FactKind, bool) {
	switch k := FactKind(s); k {
	case KindFlight, KindHotel, KindReservation, KindEvent, KindPlace, KindGeneric:
		return k, true
	}
	return "", false
}

// FactRoute names the method that produced a fact.
type FactRoute string

// Fact extraction methods, most reliable first.
const (
	RouteJSONLD     FactRoute = "jsonld"
	RouteInlineJSON FactRoute = "inlineJson"
	RouteRegex      FactRoute = "regex"
)

// Confidence bounds.
const (
	MinConfidence = 0.0
	MaxConfidence = 0.99
)

// Character budget for the text pass.
const (
	DefaultMaxChars = 50000
	MinMaxChars     = 1000
	MaxMaxChars     = 500000

	FactSampleSize = 3
)

// FactSource records how a fact was produced.
type FactSource struct {
	Route      FactRoute `json:"route"`
	Hints      []string  `json:"hints,omitempty"`
	SchemaType string    `json:"schema_type,omitempty"`
}

// TravelFact is a generic travel record. Only the fields relevant to its
// kind are populated.
type TravelFact struct {
	Kind       FactKind   `json:"kind"`
	Confidence float64    `json:"confidence"`
	Source     FactSource `json:"source"`

	// Flights.
	Airline          string `json:"airline,omitempty"`
	FlightNumber     string `json:"flight_number,omitempty"`
	DepartureAirport string `json:"departure_airport,omitempty"`
	ArrivalAirport   string `json:"arrival_airport,omitempty"`
	DepartureTime    string `json:"departure_time,omitempty"`
	ArrivalTime      string `json:"arrival_time,omitempty"`
	RecordLocator    string `json:"record_locator,omitempty"`

	// Hotels.
	HotelName          string `json:"hotel_name,omitempty"`
	CheckIn            string `json:"check_in,omitempty"`
	CheckOut           string `json:"check_out,omitempty"`
	ConfirmationNumber string `json:"confirmation_number,omitempty"`

	// Events, places, reservations.
	Name      string   `json:"name,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Venue     string   `json:"venue,omitempty"`
	Address   string   `json:"address,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`

	Price    string `json:"price,omitempty"`
	Currency string `json:"currency,omitempty"`

	// Generic fallback.
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	URL     string `json:"url,omitempty"`
}

// CanonicalFacts returns the highest-confidence fact per kind, ordered by
// descending confidence. Ties keep the earliest fact.
func CanonicalFacts(facts []TravelFact) []TravelFact {
	best := make(map[FactKind]int)
	var order []FactKind
	for i, f := range facts {
		j, ok := best[f.Kind]
		if !ok {
			best[f.Kind] = i
			order = append(order, f.Kind)
			continue
		}
		if f.Confidence > facts[j].Confidence {
			best[f.Kind] = i
		}
	}

	out := make([]TravelFact, 0, len(order))
	for _, k := range order {
		out = append(out, facts[best[k]])
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Confidence > out[b].Confidence
	})
	return out
}

// FactRequest holds the arguments of a generic facts extraction call.
type FactRequest struct {
	URL        string   `json:"url,omitempty"`
	Hint       string   `json:"hint,omitempty"`
	MaxChars   int      `json:"maxChars,omitempty"`
	PreferKind []string `json:"preferKind,omitempty"`
}

// CharLimit returns MaxChars clamped into [MinMaxChars, MaxMaxChars].
// An unset (zero) MaxChars uses DefaultMaxChars.
func (r FactRequest) CharLimit() int {
	switch {
	case r.MaxChars == 0:
		return DefaultMaxChars
	case r.MaxChars < MinMaxChars:
		return MinMaxChars
	case r.MaxChars > MaxMaxChars:
		return MaxMaxChars
	}
	return r.MaxChars
}

// Kinds returns the kinds the text pass should look for: the hint when it
// names a specific kind, otherwise the preferred kinds, otherwise all kinds.
// Unknown names are ignored.
func (r FactRequest) Kinds() []FactKind {
	if k, ok := ParseFactKind(r.Hint); ok && k != KindGeneric {
		return []FactKind{k}
	}
	var kinds []FactKind
	seen := make(map[FactKind]bool)
	for _, s := range r.PreferKind {
		k, ok := ParseFactKind(s)
		if !ok || k == KindGeneric || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		return FactKinds
	}
	return kinds
}

// FactExtractor runs the generic facts chain against a page snapshot.
type FactExtractor interface {
	// ExtractFacts never returns an error: failures are reported in the envelope.
	ExtractFacts(ctx context.Context, page *Page, req FactRequest) *Envelope
}
