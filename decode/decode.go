// Package decode inflates extraction envelopes and maps their payloads into
// outward-facing records. It is the single place where malformed upstream
// records are filtered out.
package decode

import (
	"encoding/json"
	"strconv"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/gzip"
)

// HotelRows decompresses a hotels envelope and maps each NDJSON row into a
// HotelDTO. Rows that are not objects or have no name are dropped and
// counted in the returned stats. A failed envelope decodes to no rows.
// A corrupt payload returns an EDECODE error.
func HotelRows(env *voygen.Envelope) ([]voygen.HotelDTO, voygen.DecodeStats, error) {
	var stats voygen.DecodeStats
	payload, err := payloadOf(env, voygen.EnvelopeHotels)
	if err != nil || payload == "" {
		return []voygen.HotelDTO{}, stats, err
	}

	dtos := make([]voygen.HotelDTO, 0)
	for _, line := range gzip.SplitNDJSON(payload) {
		stats.Total++
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			stats.Dropped++
			continue
		}
		dto, ok := HotelDTO(raw)
		if !ok {
			stats.Dropped++
			continue
		}
		dtos = append(dtos, dto)
	}
	return dtos, stats, nil
}

// HotelDTO maps a raw row into a DTO. It reports false for a row without a
// name. The id falls back to the detail URL, then to the name.
func HotelDTO(raw map[string]any) (voygen.HotelDTO, bool) {
	name := stringField(raw, "name")
	if name == "" {
		return voygen.HotelDTO{}, false
	}
	dto := voygen.HotelDTO{
		ID:               idField(raw, "id"),
		Name:             name,
		Brand:            stringField(raw, "brand"),
		Lat:              coordinate(raw["lat"], 90),
		Lng:              coordinate(raw["lng"], 180),
		Address:          stringField(raw, "address"),
		StarRating:       voygen.NumberPtr(raw["star_rating"]),
		ReviewScore:      voygen.NumberPtr(raw["review_score"]),
		PriceText:        stringField(raw, "price_text"),
		Currency:         stringField(raw, "currency"),
		TaxesFeesText:    stringField(raw, "taxes_fees_text"),
		CancellationText: stringField(raw, "cancellation_text"),
		Refundable:       boolField(raw["refundable"]),
		PackageType:      stringField(raw, "package_type"),
		ImageURL:         stringField(raw, "image_url"),
		DetailURL:        stringField(raw, "detail_url"),
	}
	if dto.ID == "" {
		dto.ID = dto.DetailURL
	}
	if dto.ID == "" {
		dto.ID = dto.Name
	}
	return dto, true
}

// TravelFacts decompresses a facts envelope and returns its facts. The
// payload is a JSON array; NDJSON is accepted as well. Facts without a known
// kind or a numeric confidence are dropped and counted. Confidence is
// clamped into the valid range.
func TravelFacts(env *voygen.Envelope) ([]voygen.TravelFact, voygen.DecodeStats, error) {
	var stats voygen.DecodeStats
	payload, err := payloadOf(env, voygen.EnvelopeFacts)
	if err != nil || payload == "" {
		return []voygen.TravelFact{}, stats, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		if strings.HasPrefix(strings.TrimSpace(payload), "[") {
			return nil, stats, voygen.Errorf(voygen.EDECODE, "invalid facts payload: %v", err)
		}
		for _, line := range gzip.SplitNDJSON(payload) {
			records = append(records, json.RawMessage(line))
		}
	}

	facts := make([]voygen.TravelFact, 0, len(records))
	for _, rec := range records {
		stats.Total++
		fact, ok := travelFact(rec)
		if !ok {
			stats.Dropped++
			continue
		}
		facts = append(facts, fact)
	}
	return facts, stats, nil
}

func travelFact(rec json.RawMessage) (voygen.TravelFact, bool) {
	var raw map[string]any
	if err := json.Unmarshal(rec, &raw); err != nil {
		return voygen.TravelFact{}, false
	}
	kindName, _ := raw["kind"].(string)
	kind, ok := voygen.ParseFactKind(kindName)
	if !ok {
		return voygen.TravelFact{}, false
	}
	confidence, ok := voygen.ParseNumber(raw["confidence"])
	if !ok {
		return voygen.TravelFact{}, false
	}

	// Optional fields are coerced one by one so a loosely typed value never
	// rejects the whole record.
	return voygen.TravelFact{
		Kind:               kind,
		Confidence:         min(max(confidence, voygen.MinConfidence), voygen.MaxConfidence),
		Source:             factSource(raw["source"]),
		Airline:            stringField(raw, "airline"),
		FlightNumber:       stringField(raw, "flight_number"),
		DepartureAirport:   stringField(raw, "departure_airport"),
		ArrivalAirport:     stringField(raw, "arrival_airport"),
		DepartureTime:      stringField(raw, "departure_time"),
		ArrivalTime:        stringField(raw, "arrival_time"),
		RecordLocator:      stringField(raw, "record_locator"),
		HotelName:          stringField(raw, "hotel_name"),
		CheckIn:            stringField(raw, "check_in"),
		CheckOut:           stringField(raw, "check_out"),
		ConfirmationNumber: stringField(raw, "confirmation_number"),
		Name:               stringField(raw, "name"),
		StartDate:          stringField(raw, "start_date"),
		EndDate:            stringField(raw, "end_date"),
		Venue:              stringField(raw, "venue"),
		Address:            stringField(raw, "address"),
		Lat:                coordinate(raw["lat"], 90),
		Lng:                coordinate(raw["lng"], 180),
		Price:              stringField(raw, "price"),
		Currency:           stringField(raw, "currency"),
		Title:              stringField(raw, "title"),
		Excerpt:            stringField(raw, "excerpt"),
		URL:                stringField(raw, "url"),
	}, true
}

// factSource reads the provenance object. Anything else yields an empty source.
func factSource(v any) voygen.FactSource {
	obj, ok := v.(map[string]any)
	if !ok {
		return voygen.FactSource{}
	}
	src := voygen.FactSource{
		Route:      voygen.FactRoute(stringField(obj, "route")),
		SchemaType: stringField(obj, "schema_type"),
	}
	if hints, ok := obj["hints"].([]any); ok {
		for _, h := range hints {
			if s, ok := h.(string); ok && s != "" {
				src.Hints = append(src.Hints, s)
			}
		}
	}
	return src
}

// payloadOf checks the envelope and returns its decompressed payload.
func payloadOf(env *voygen.Envelope, kind voygen.EnvelopeKind) (string, error) {
	if env == nil {
		return "", voygen.Errorf(voygen.EINVALID, "envelope required")
	}
	encoded := env.NDJSONGzipBase64
	if kind == voygen.EnvelopeFacts {
		encoded = env.FactsGzipBase64
	}
	if env.Kind != "" && env.Kind != kind {
		return "", voygen.Errorf(voygen.EINVALID, "expected %s envelope, got %s", kind, env.Kind)
	}
	if !env.OK {
		return "", nil
	}
	if strings.TrimSpace(encoded) == "" {
		if env.Count > 0 {
			return "", voygen.Errorf(voygen.EDECODE, "envelope reports %d records but carries no payload", env.Count)
		}
		return "", nil
	}
	return gzip.Decode(encoded)
}

// stringField returns the collapsed text of a string, number or boolean.
func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return voygen.CollapseSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func idField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func coordinate(v any, limit float64) *float64 {
	f, ok := voygen.ParseNumber(v)
	if !ok || f < -limit || f > limit {
		return nil
	}
	return &f
}

func boolField(v any) *bool {
	switch x := v.(type) {
	case bool:
		return &x
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
			return &b
		}
	}
	return nil
}
