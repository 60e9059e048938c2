package mock

import (
	"context"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var (
	_ voygen.HotelStrategy      = (*HotelStrategy)(nil)
	_ voygen.HotelExtractor     = (*HotelExtractor)(nil)
	_ voygen.PlatformClassifier = (*PlatformClassifier)(nil)
	_ voygen.StrategyOrder      = (*StrategyOrder)(nil)
)

// HotelStrategy is a mock implementation of voygen.HotelStrategy.
type HotelStrategy struct {
	RouteFn       func() voygen.HotelRoute
	ExtractRowsFn func(ctx context.Context, page *voygen.Page, req voygen.HotelRequest, limit int) ([]voygen.HotelRow, map[string]any, error)
}

func (s *HotelStrategy) Route() voygen.HotelRoute {
	return s.RouteFn()
}

func (s *HotelStrategy) ExtractRows(ctx context.Context, page *voygen.Page, req voygen.HotelRequest, limit int) ([]voygen.HotelRow, map[string]any, error) {
	return s.ExtractRowsFn(ctx, page, req, limit)
}

// HotelExtractor is a mock implementation of voygen.HotelExtractor.
type HotelExtractor struct {
	ExtractHotelsFn func(ctx context.Context, page *voygen.Page, req voygen.HotelRequest) *voygen.Envelope
}

func (e *HotelExtractor) ExtractHotels(ctx context.Context, page *voygen.Page, req voygen.HotelRequest) *voygen.Envelope {
	return e.ExtractHotelsFn(ctx, page, req)
}

// PlatformClassifier is a mock implementation of voygen.PlatformClassifier.
type PlatformClassifier struct {
	ClassifyFn func(page *voygen.Page, hint string) voygen.Platform
}

func (c *PlatformClassifier) Classify(page *voygen.Page, hint string) voygen.Platform {
	return c.ClassifyFn(page, hint)
}

// StrategyOrder is a mock implementation of voygen.StrategyOrder.
type StrategyOrder struct {
	OrderFn func(platform voygen.Platform) []voygen.HotelRoute
}

func (o *StrategyOrder) Order(platform voygen.Platform) []voygen.HotelRoute {
	return o.OrderFn(platform)
}
