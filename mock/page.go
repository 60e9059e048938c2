package mock

import (
	"context"
	"encoding/json"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var (
	_ voygen.PageSource      = (*PageSource)(nil)
	_ voygen.PageParser      = (*PageParser)(nil)
	_ voygen.Injector        = (*Injector)(nil)
	_ voygen.ResourceFetcher = (*ResourceFetcher)(nil)
	_ voygen.ResponseDecoder = (*ResponseDecoder)(nil)
)

// PageSource is a mock implementation of voygen.PageSource.
type PageSource struct {
	PageFn func(ctx context.Context, url string) (*voygen.Page, error)
}

func (s *PageSource) Page(ctx context.Context, url string) (*voygen.Page, error) {
	return s.PageFn(ctx, url)
}

// PageParser is a mock implementation of voygen.PageParser.
type PageParser struct {
	ParseFn func(pageURL, html string) (*voygen.Page, error)
}

func (p *PageParser) Parse(pageURL, html string) (*voygen.Page, error) {
	return p.ParseFn(pageURL, html)
}

// Injector is a mock implementation of voygen.Injector.
type Injector struct {
	InjectFn func(ctx context.Context, script string, args ...any) (json.RawMessage, error)
}

func (i *Injector) Inject(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	return i.InjectFn(ctx, script, args...)
}

// ResourceFetcher is a mock implementation of voygen.ResourceFetcher.
type ResourceFetcher struct {
	FetchResourceFn func(ctx context.Context, url string) ([]byte, string, error)
}

func (f *ResourceFetcher) FetchResource(ctx context.Context, url string) ([]byte, string, error) {
	return f.FetchResourceFn(ctx, url)
}

// ResponseDecoder is a mock implementation of voygen.ResponseDecoder.
type ResponseDecoder struct {
	AcceptsFn func(contentType string, body []byte) bool
	DecodeFn  func(body []byte) (any, error)
}

func (d *ResponseDecoder) Accepts(contentType string, body []byte) bool {
	return d.AcceptsFn(contentType, body)
}

func (d *ResponseDecoder) Decode(body []byte) (any, error) {
	return d.DecodeFn(body)
}
