package fs

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.PageSource = (*PageSource)(nil)

// PageSource snapshots saved HTML files, such as reservation e-mails or
// pages saved from a browser. Snapshots have no resources or globals.
type PageSource struct {
	Parser voygen.PageParser
}

// NewPageSource creates a PageSource that parses files with parser.
func NewPageSource(parser voygen.PageParser) *PageSource {
	return &PageSource{Parser: parser}
}

// Page reads a file path or file:// URL and parses it. The snapshot URL is
// the file:// URL of the absolute path.
func (s *PageSource) Page(ctx context.Context, location string) (*voygen.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := FilePath(location)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, voygen.Errorf(voygen.ENOTFOUND, "file not found: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return s.Parser.Parse((&url.URL{Scheme: "file", Path: path}).String(), string(data))
}

// FilePath resolves a file path or file:// URL to an absolute path.
func FilePath(location string) (string, error) {
	p := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", voygen.Errorf(voygen.EINVALID, "invalid file URL %q", location)
		}
		p = u.Path
	}
	if strings.TrimSpace(p) == "" {
		return "", voygen.Errorf(voygen.EINVALID, "file path required")
	}
	return filepath.Abs(p)
}

// IsFile reports whether location names a local file rather than a web page.
func IsFile(location string) bool {
	if strings.HasPrefix(location, "file://") {
		return true
	}
	u, err := url.Parse(location)
	return err != nil || (u.Scheme != "http" && u.Scheme != "https")
}
