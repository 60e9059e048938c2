package mock

import voygen "github.com/iamneilroberts/voygen-sub008"

var _ voygen.Converter = (*Converter)(nil)

// Converter is a mock implementation of voygen.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
