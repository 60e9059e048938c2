package mock

import (
	"context"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.FactExtractor = (*FactExtractor)(nil)

// FactExtractor is a mock implementation of voygen.FactExtractor.
type FactExtractor struct {
	ExtractFactsFn func(ctx context.Context, page *voygen.Page, req voygen.FactRequest) *voygen.Envelope
}

func (e *FactExtractor) ExtractFacts(ctx context.Context, page *voygen.Page, req voygen.FactRequest) *voygen.Envelope {
	return e.ExtractFactsFn(ctx, page, req)
}
