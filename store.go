package voygen

import (
	"context"
	"time"
)

// StoredHotel is a decoded hotel persisted for a source page.
type StoredHotel struct {
	HotelDTO
	RecordID  string    `json:"record_id"`
	SourceURL string    `json:"source_url"`
	Position  int       `json:"position"`
	Hash      string    `json:"hash"`
	StoredAt  time.Time `json:"stored_at"`
}

// HotelFilter selects stored hotels. Nil fields match everything.
type HotelFilter struct {
	SourceURL *string
	Name      *string
	Currency  *string

	Limit  int
	Offset int
}

// HotelService persists decoded hotel results per source page.
type HotelService interface {
	// ReplaceHotels stores hotels for sourceURL, replacing any earlier set.
	ReplaceHotels(ctx context.Context, sourceURL string, hotels []HotelDTO) error

	// FindHotels returns stored hotels ordered by source URL and position.
	FindHotels(ctx context.Context, filter HotelFilter) ([]*StoredHotel, error)

	// DeleteHotels removes every hotel stored for sourceURL.
	DeleteHotels(ctx context.Context, sourceURL string) error
}

// StoredFact is a travel fact persisted for a source page.
type StoredFact struct {
	TravelFact
	RecordID  string    `json:"record_id"`
	SourceURL string    `json:"source_url"`
	StoredAt  time.Time `json:"stored_at"`
}

// FactFilter selects stored facts. Nil fields match everything.
type FactFilter struct {
	SourceURL     *string
	Kind          *FactKind
	MinConfidence *float64

	Limit  int
	Offset int
}

// FactService persists travel facts per source page.
type FactService interface {
	// ReplaceFacts stores facts for sourceURL, replacing any earlier set.
	ReplaceFacts(ctx context.Context, sourceURL string, facts []TravelFact) error

	// FindFacts returns stored facts ordered by descending confidence.
	FindFacts(ctx context.Context, filter FactFilter) ([]*StoredFact, error)

	// DeleteFacts removes every fact stored for sourceURL.
	DeleteFacts(ctx context.Context, sourceURL string) error
}

// EnvelopeStore saves envelopes under a name.
type EnvelopeStore interface {
	Save(ctx context.Context, name string, env *Envelope) error

	// Load returns ENOTFOUND when nothing is stored under name.
	Load(ctx context.Context, name string) (*Envelope, error)
}

// EnvelopeCache holds recent envelopes keyed by request.
type EnvelopeCache interface {
	// Get returns ENOTFOUND on a miss.
	Get(ctx context.Context, key string) (*Envelope, error)
	Set(ctx context.Context, key string, env *Envelope) error
}

// DomainLimiter rate-limits requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}

// RowSet remembers row keys. It may report false positives but never
// false negatives.
type RowSet interface {
	Add(key string)
	Test(key string) bool
}
