package mock

import (
	"context"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.HotelService = (*HotelService)(nil)

// HotelService is a mock implementation of voygen.HotelService.
type HotelService struct {
	ReplaceHotelsFn func(ctx context.Context, sourceURL string, hotels []voygen.HotelDTO) error
	FindHotelsFn    func(ctx context.Context, filter voygen.HotelFilter) ([]*voygen.StoredHotel, error)
	DeleteHotelsFn  func(ctx context.Context, sourceURL string) error
}

func (s *HotelService) ReplaceHotels(ctx context.Context, sourceURL string, hotels []voygen.HotelDTO) error {
	return s.ReplaceHotelsFn(ctx, sourceURL, hotels)
}

func (s *HotelService) FindHotels(ctx context.Context, filter voygen.HotelFilter) ([]*voygen.StoredHotel, error) {
	return s.FindHotelsFn(ctx, filter)
}

func (s *HotelService) DeleteHotels(ctx context.Context, sourceURL string) error {
	return s.DeleteHotelsFn(ctx, sourceURL)
}

var _ voygen.FactService = (*FactService)(nil)

// FactService is a mock implementation of voygen.FactService.
type FactService struct {
	ReplaceFactsFn func(ctx context.Context, sourceURL string, facts []voygen.TravelFact) error
	FindFactsFn    func(ctx context.Context, filter voygen.FactFilter) ([]*voygen.StoredFact, error)
	DeleteFactsFn  func(ctx context.Context, sourceURL string) error
}

func (s *FactService) ReplaceFacts(ctx context.Context, sourceURL string, facts []voygen.TravelFact) error {
	return s.ReplaceFactsFn(ctx, sourceURL, facts)
}

func (s *FactService) FindFacts(ctx context.Context, filter voygen.FactFilter) ([]*voygen.StoredFact, error) {
	return s.FindFactsFn(ctx, filter)
}

func (s *FactService) DeleteFacts(ctx context.Context, sourceURL string) error {
	return s.DeleteFactsFn(ctx, sourceURL)
}

var _ voygen.EnvelopeStore = (*EnvelopeStore)(nil)

// EnvelopeStore is a mock implementation of voygen.EnvelopeStore.
type EnvelopeStore struct {
	SaveFn func(ctx context.Context, name string, env *voygen.Envelope) error
	LoadFn func(ctx context.Context, name string) (*voygen.Envelope, error)
}

func (s *EnvelopeStore) Save(ctx context.Context, name string, env *voygen.Envelope) error {
	return s.SaveFn(ctx, name, env)
}

func (s *EnvelopeStore) Load(ctx context.Context, name string) (*voygen.Envelope, error) {
	return s.LoadFn(ctx, name)
}

var _ voygen.EnvelopeCache = (*EnvelopeCache)(nil)

// EnvelopeCache is a mock implementation of voygen.EnvelopeCache.
type EnvelopeCache struct {
	GetFn func(ctx context.Context, key string) (*voygen.Envelope, error)
	SetFn func(ctx context.Context, key string, env *voygen.Envelope) error
}

func (c *EnvelopeCache) Get(ctx context.Context, key string) (*voygen.Envelope, error) {
	return c.GetFn(ctx, key)
}

func (c *EnvelopeCache) Set(ctx context.Context, key string, env *voygen.Envelope) error {
	return c.SetFn(ctx, key, env)
}

var _ voygen.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of voygen.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
