package extract

import (
	"encoding/json"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// SchemaKinds maps schema.org types to fact kinds. Types not listed are ignored.
var SchemaKinds = map[string]voygen.FactKind{
	"FlightReservation": voygen.KindFlight,
	"Flight":            voygen.KindFlight,

	"LodgingReservation": voygen.KindHotel,
	"Hotel":              voygen.KindHotel,
	"LodgingBusiness":    voygen.KindHotel,
	"Resort":             voygen.KindHotel,
	"Motel":              voygen.KindHotel,
	"Hostel":             voygen.KindHotel,
	"BedAndBreakfast":    voygen.KindHotel,
	"VacationRental":     voygen.KindHotel,

	"EventReservation": voygen.KindEvent,
	"Event":            voygen.KindEvent,
	"MusicEvent":       voygen.KindEvent,
	"SportsEvent":      voygen.KindEvent,
	"TheaterEvent":     voygen.KindEvent,
	"Festival":         voygen.KindEvent,
	"ExhibitionEvent":  voygen.KindEvent,
	"ComedyEvent":      voygen.KindEvent,
	"FoodEvent":        voygen.KindEvent,

	"Reservation":                  voygen.KindReservation,
	"RentalCarReservation":         voygen.KindReservation,
	"TrainReservation":             voygen.KindReservation,
	"BusReservation":               voygen.KindReservation,
	"BoatReservation":              voygen.KindReservation,
	"TaxiReservation":              voygen.KindReservation,
	"FoodEstablishmentReservation": voygen.KindReservation,

	"Place":                          voygen.KindPlace,
	"TouristAttraction":              voygen.KindPlace,
	"TouristDestination":             voygen.KindPlace,
	"LandmarksOrHistoricalBuildings": voygen.KindPlace,
	"Museum":                         voygen.KindPlace,
	"Park":                           voygen.KindPlace,
	"Beach":                          voygen.KindPlace,
	"Restaurant":                     voygen.KindPlace,
}

// schemaKind returns the first mapped type of a node's @type.
func schemaKind(node map[string]any) (voygen.FactKind, string, bool) {
	var types []string
	switch t := node["@type"].(type) {
	case string:
		types = []string{t}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
	}
	for _, t := range types {
		if i := strings.LastIndexAny(t, "/#:"); i >= 0 {
			t = t[i+1:]
		}
		if k, ok := SchemaKinds[t]; ok {
			return k, t, true
		}
	}
	return "", "", false
}

// JSONLDFacts maps the page's JSON-LD nodes of known schema types to facts
// of the wanted kinds. Top-level arrays and @graph containers are flattened.
func JSONLDFacts(page *voygen.Page, kinds []voygen.FactKind) []voygen.TravelFact {
	want := kindSet(kinds)
	var facts []voygen.TravelFact
	for _, s := range page.ScriptsOfType("application/ld+json") {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Body)), &v); err != nil {
			continue
		}
		for _, node := range jsonLDNodes(v) {
			kind, schemaType, ok := schemaKind(node)
			if !ok || !want[kind] {
				continue
			}
			fact, n := mapFact(kind, node)
			if n == 0 {
				continue
			}
			fact.Confidence = Confidence(voygen.RouteJSONLD, n)
			fact.Source = voygen.FactSource{Route: voygen.RouteJSONLD, SchemaType: schemaType}
			facts = append(facts, fact)
		}
	}
	return facts
}

func jsonLDNodes(v any) []map[string]any {
	var out []map[string]any
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			out = append(out, jsonLDNodes(item)...)
		}
	case map[string]any:
		if graph, ok := x["@graph"]; ok {
			out = append(out, jsonLDNodes(graph)...)
		}
		if _, ok := x["@type"]; ok {
			out = append(out, x)
		}
	}
	return out
}

func kindSet(kinds []voygen.FactKind) map[voygen.FactKind]bool {
	set := make(map[voygen.FactKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}
