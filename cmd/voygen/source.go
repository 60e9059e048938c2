package main

import (
	"context"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/fs"
)

var _ voygen.PageSource = (*RoutingSource)(nil)

// RoutingSource reads local files from disk and everything else from the web.
type RoutingSource struct {
	Files voygen.PageSource
	Web   voygen.PageSource
}

// Page dispatches location to the file or web source.
func (s *RoutingSource) Page(ctx context.Context, location string) (*voygen.Page, error) {
	if fs.IsFile(location) {
		return s.Files.Page(ctx, location)
	}
	return s.Web.Page(ctx, location)
}

func isLocal(location string) bool {
	return fs.IsFile(location)
}
