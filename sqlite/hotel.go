package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	voygen "github.com/iamneilroberts/voygen-sub008"
)

// Compile-time interface verification.
var _ voygen.HotelService = (*HotelService)(nil)

// HotelService implements voygen.HotelService using SQLite.
type HotelService struct {
	db *DB
}

// NewHotelService creates a new HotelService.
func NewHotelService(db *DB) *HotelService {
	return &HotelService{db: db}
}

// ReplaceHotels stores hotels for sourceURL in one transaction, replacing
// any hotels stored earlier for the same page. Positions follow slice order.
func (s *HotelService) ReplaceHotels(ctx context.Context, sourceURL string, hotels []voygen.HotelDTO) error {
	if strings.TrimSpace(sourceURL) == "" {
		return voygen.Errorf(voygen.EINVALID, "source URL required")
	}
	for i, h := range hotels {
		if h.Name == "" {
			return voygen.Errorf(voygen.EINVALID, "hotel %d has no name", i)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM hotels WHERE source_url = ?", sourceURL); err != nil {
		return err
	}

	storedAt := time.Now().UTC().Format(time.RFC3339)
	for i, h := range hotels {
		data, err := json.Marshal(h)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO hotels (id, source_url, position, hotel_id, name, currency, data, hash, stored_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), sourceURL, i, h.ID, h.Name, h.Currency, string(data), hashContent(data), storedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindHotels retrieves hotels matching the filter. The name filter matches
// case-insensitive substrings.
func (s *HotelService) FindHotels(ctx context.Context, filter voygen.HotelFilter) ([]*voygen.StoredHotel, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, position, data, hash, stored_at FROM hotels WHERE 1=1")

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.Name != nil {
		query.WriteString(" AND name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(*filter.Name)+"%")
	}
	if filter.Currency != nil {
		query.WriteString(" AND currency = ?")
		args = append(args, *filter.Currency)
	}

	query.WriteString(" ORDER BY source_url ASC, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []*voygen.StoredHotel
	for rows.Next() {
		var h voygen.StoredHotel
		var data, storedAt string
		if err := rows.Scan(&h.RecordID, &h.SourceURL, &h.Position, &data, &h.Hash, &storedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &h.HotelDTO); err != nil {
			return nil, voygen.Errorf(voygen.EDECODE, "stored hotel %s: %v", h.RecordID, err)
		}
		if h.StoredAt, err = parseRFC3339(storedAt, "stored_at"); err != nil {
			return nil, err
		}
		hotels = append(hotels, &h)
	}

	return hotels, rows.Err()
}

// DeleteHotels removes every hotel stored for sourceURL.
func (s *HotelService) DeleteHotels(ctx context.Context, sourceURL string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM hotels WHERE source_url = ?", sourceURL)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return voygen.Errorf(voygen.ENOTFOUND, "no hotels stored for %s", sourceURL)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
