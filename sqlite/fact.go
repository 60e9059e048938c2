package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.FactService = (*FactService)(nil)

// FactService implements voygen.FactService using SQLite.
type FactService struct {
	db *DB
}

// NewFactService creates a new FactService.
func NewFactService(db *DB) *FactService {
	return &FactService{db: db}
}

// ReplaceFacts stores facts for sourceURL, replacing any stored earlier.
func (s *FactService) ReplaceFacts(ctx context.Context, sourceURL string, facts []voygen.TravelFact) error {
	if strings.TrimSpace(sourceURL) == "" {
		return voygen.Errorf(voygen.EINVALID, "source URL required")
	}
	for i, f := range facts {
		if _, ok := voygen.ParseFactKind(string(f.Kind)); !ok {
			return voygen.Errorf(voygen.EINVALID, "fact %d has unknown kind %q", i, f.Kind)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM facts WHERE source_url = ?", sourceURL); err != nil {
		return err
	}

	storedAt := time.Now().UTC().Format(time.RFC3339)
	for _, f := range facts {
		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO facts (id, source_url, kind, confidence, data, stored_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), sourceURL, string(f.Kind), f.Confidence, string(data), storedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindFacts retrieves facts matching the filter, most confident first.
func (s *FactService) FindFacts(ctx context.Context, filter voygen.FactFilter) ([]*voygen.StoredFact, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, data, stored_at FROM facts WHERE 1=1")

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.MinConfidence != nil {
		query.WriteString(" AND confidence >= ?")
		args = append(args, *filter.MinConfidence)
	}

	query.WriteString(" ORDER BY confidence DESC, source_url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []*voygen.StoredFact
	for rows.Next() {
		var f voygen.StoredFact
		var data, storedAt string
		if err := rows.Scan(&f.RecordID, &f.SourceURL, &data, &storedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &f.TravelFact); err != nil {
			return nil, voygen.Errorf(voygen.EDECODE, "stored fact %s: %v", f.RecordID, err)
		}
		if f.StoredAt, err = parseRFC3339(storedAt, "stored_at"); err != nil {
			return nil, err
		}
		facts = append(facts, &f)
	}

	return facts, rows.Err()
}

// DeleteFacts removes every fact stored for sourceURL.
func (s *FactService) DeleteFacts(ctx context.Context, sourceURL string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM facts WHERE source_url = ?", sourceURL)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return voygen.Errorf(voygen.ENOTFOUND, "no facts stored for %s", sourceURL)
	}
	return nil
}
