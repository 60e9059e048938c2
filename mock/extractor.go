package mock

import voygen "github.com/iamneilroberts/voygen-sub008"

var _ voygen.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of voygen.Extractor.
type Extractor struct {
	ExtractFn func(pageURL, html string) (*voygen.ExtractResult, error)
}

func (e *Extractor) Extract(pageURL, html string) (*voygen.ExtractResult, error) {
	return e.ExtractFn(pageURL, html)
}
