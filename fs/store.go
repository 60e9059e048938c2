// Package fs provides file-based envelope storage and page snapshots.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Ensure EnvelopeStore implements voygen.EnvelopeStore at compile time.
var _ voygen.EnvelopeStore = (*EnvelopeStore)(nil)

// EnvelopeStore writes envelopes as JSON files in a directory. Each save
// goes to a temporary file that is renamed into place, so readers never
// see a partial envelope.
type EnvelopeStore struct {
	baseDir string
}

// NewEnvelopeStore creates an EnvelopeStore rooted at baseDir.
func NewEnvelopeStore(baseDir string) *EnvelopeStore {
	return &EnvelopeStore{baseDir: baseDir}
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName converts a name such as a page URL into a safe file name.
// Example: https://example.com/hotels?page=2 → example.com_hotels_page_2.json
func FileName(name string) (string, error) {
	n := name
	if i := strings.Index(n, "://"); i >= 0 {
		n = n[i+3:]
	}
	n = strings.Trim(unsafeName.ReplaceAllString(n, "_"), "_.")
	if n == "" {
		return "", voygen.Errorf(voygen.EINVALID, "invalid envelope name %q", name)
	}
	return n + ".json", nil
}

func (s *EnvelopeStore) path(name string) (string, error) {
	file, err := FileName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, file), nil
}

// Save writes the envelope under name, replacing any earlier one.
func (s *EnvelopeStore) Save(ctx context.Context, name string, env *voygen.Envelope) error {
	if env == nil {
		return voygen.Errorf(voygen.EINVALID, "envelope required")
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.baseDir, ".envelope-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads the envelope saved under name.
func (s *EnvelopeStore) Load(ctx context.Context, name string) (*voygen.Envelope, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return ReadEnvelope(path)
}

// ReadEnvelope reads an envelope JSON file.
func ReadEnvelope(path string) (*voygen.Envelope, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, voygen.Errorf(voygen.ENOTFOUND, "no envelope at %s", path)
	}
	if err != nil {
		return nil, err
	}
	var env voygen.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, voygen.Errorf(voygen.EDECODE, "invalid envelope file %s: %v", path, err)
	}
	return &env, nil
}
