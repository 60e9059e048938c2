package extract

import (
	"encoding/json"
	"sort"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// minInlineFields is the number of populated fields an inline JSON object
// needs before it is reported as a fact.
const minInlineFields = 2

// KindMarkers are lower-cased substrings that make an inline JSON blob worth
// mapping for a kind.
var KindMarkers = map[voygen.FactKind][]string{
	voygen.KindFlight:      {"flightnumber", "flight_number", "\"flight\"", "departureairport", "departure_airport", "airline", "recordlocator", "record_locator", "pnr"},
	voygen.KindHotel:       {"hotel", "checkin", "check_in", "checkindate", "lodging", "propertyname"},
	voygen.KindEvent:       {"\"event\"", "eventname", "venue", "startdate", "ticket"},
	voygen.KindReservation: {"reservation", "confirmationnumber", "confirmation_number", "bookingnumber", "bookingreference", "itinerary"},
	voygen.KindPlace:       {"latitude", "formattedaddress", "\"place\"", "placeid", "geo"},
}

// InlineJSONFacts scans inline application/json scripts for the wanted kinds.
// A blob is mapped for a kind only when it contains one of the kind's
// markers; the best-populated object in the blob becomes the fact.
func InlineJSONFacts(page *voygen.Page, kinds []voygen.FactKind) []voygen.TravelFact {
	var facts []voygen.TravelFact
	for _, s := range page.ScriptsOfType("application/json") {
		lower := strings.ToLower(s.Body)
		var v any
		parsed := false
		for _, kind := range kinds {
			hints := markersIn(lower, KindMarkers[kind])
			if len(hints) == 0 {
				continue
			}
			if !parsed {
				if err := json.Unmarshal([]byte(s.Body), &v); err != nil {
					break
				}
				parsed = true
			}
			fact, n := bestObject(kind, v)
			if n < minInlineFields {
				continue
			}
			fact.Confidence = Confidence(voygen.RouteInlineJSON, n)
			fact.Source = voygen.FactSource{Route: voygen.RouteInlineJSON, Hints: hints}
			facts = append(facts, fact)
		}
	}
	return facts
}

func markersIn(lower string, markers []string) []string {
	var hits []string
	for _, m := range markers {
		if strings.Contains(lower, m) {
			hits = append(hits, strings.Trim(m, `"`))
		}
	}
	return hits
}

// bestObject maps every object in the tree as kind and returns the one with
// the most populated fields. Ties keep the first object in key order.
func bestObject(kind voygen.FactKind, v any) (voygen.TravelFact, int) {
	var best voygen.TravelFact
	bestN := 0
	var visit func(v any, depth int)
	visit = func(v any, depth int) {
		if depth > maxSearchDepth {
			return
		}
		switch x := v.(type) {
		case map[string]any:
			if fact, n := mapFact(kind, x); n > bestN {
				best, bestN = fact, n
			}
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				visit(x[k], depth+1)
			}
		case []any:
			for _, item := range x {
				visit(item, depth+1)
			}
		}
	}
	visit(v, 0)
	return best, bestN
}
