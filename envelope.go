package voygen

import "encoding/json"

// EnvelopeKind names the pipeline that produced an envelope.
type EnvelopeKind string

// Envelope kinds.
const (
	EnvelopeHotels EnvelopeKind = "hotels"
	EnvelopeFacts  EnvelopeKind = "facts"
)

// Envelope is the wire record returned by one extraction call. It is built
// once and consumed exactly once by a decoder.
type Envelope struct {
	OK    bool         `json:"ok"`
	Kind  EnvelopeKind `json:"kind,omitempty"`
	Route string       `json:"route,omitempty"`
	Count int          `json:"count,omitempty"`

	// Sample holds the first few records uncompressed.
	Sample json.RawMessage `json:"sample,omitempty"`

	// Exactly one payload is set, depending on Kind.
	NDJSONGzipBase64 string `json:"ndjson_gz_base64,omitempty"`
	FactsGzipBase64  string `json:"facts_gz_base64,omitempty"`

	Meta  map[string]any `json:"meta,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Failed returns a failure envelope carrying a diagnostic message.
func Failed(kind EnvelopeKind, msg string, meta map[string]any) *Envelope {
	return &Envelope{
		OK:    false,
		Kind:  kind,
		Meta:  meta,
		Error: msg,
	}
}

// HotelSample decodes the uncompressed sample of a hotels envelope.
func (e *Envelope) HotelSample() ([]HotelRow, error) {
	var rows []HotelRow
	if len(e.Sample) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(e.Sample, &rows); err != nil {
		return nil, Errorf(EDECODE, "invalid hotel sample: %v", err)
	}
	return rows, nil
}

// FactSample decodes the uncompressed sample of a facts envelope.
func (e *Envelope) FactSample() ([]TravelFact, error) {
	var facts []TravelFact
	if len(e.Sample) == 0 {
		return facts, nil
	}
	if err := json.Unmarshal(e.Sample, &facts); err != nil {
		return nil, Errorf(EDECODE, "invalid fact sample: %v", err)
	}
	return facts, nil
}

// DecodeStats summarizes a decode pass. Dropped records are counted but
// not reported individually.
type DecodeStats struct {
	Total   int `json:"total"`
	Dropped int `json:"dropped"`
}
