package sqlite_test

import (
	"context"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func lisbonHotels() []voygen.HotelDTO {
	return []voygen.HotelDTO{
		{ID: "h1", Name: "Hotel Lisboa", Currency: "EUR", StarRating: ptr(4.0), Refundable: ptr(true)},
		{ID: "h2", Name: "Casa 100% Azul", Currency: "EUR"},
		{ID: "h3", Name: "Bairro Inn", Currency: "USD", Lat: ptr(38.71), Lng: ptr(-9.14)},
	}
}

func TestHotelService_ReplaceHotels(t *testing.T) {
	t.Parallel()

	const page = "https://trips.example.com/hotels?page=1"

	t.Run("stores hotels in order with typed fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHotelService(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, svc.ReplaceHotels(ctx, page, lisbonHotels()))

		got, err := svc.FindHotels(ctx, voygen.HotelFilter{SourceURL: ptr(page)})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Hotel Lisboa", got[0].Name)
		assert.Equal(t, 0, got[0].Position)
		assert.Equal(t, 4.0, *got[0].StarRating)
		assert.True(t, *got[0].Refundable)
		assert.InDelta(t, -9.14, *got[2].Lng, 1e-9)
		assert.NotEmpty(t, got[0].RecordID)
		assert.Len(t, got[0].Hash, 16)
		assert.False(t, got[0].StoredAt.IsZero())
	})

	t.Run("replaces the earlier set for a page", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHotelService(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, svc.ReplaceHotels(ctx, page, lisbonHotels()))
		require.NoError(t, svc.ReplaceHotels(ctx, page, []voygen.HotelDTO{{ID: "h9", Name: "Pousada Sol"}}))

		got, err := svc.FindHotels(ctx, voygen.HotelFilter{SourceURL: ptr(page)})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Pousada Sol", got[0].Name)
	})

	t.Run("identical hotels hash identically", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHotelService(setupTestDB(t))
		ctx := context.Background()
		h := voygen.HotelDTO{ID: "h1", Name: "Hotel Lisboa"}

		require.NoError(t, svc.ReplaceHotels(ctx, "https://a.example.com", []voygen.HotelDTO{h}))
		require.NoError(t, svc.ReplaceHotels(ctx, "https://b.example.com", []voygen.HotelDTO{h}))

		got, err := svc.FindHotels(ctx, voygen.HotelFilter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, got[0].Hash, got[1].Hash)
	})

	t.Run("rejects a nameless hotel without writing", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHotelService(setupTestDB(t))
		ctx := context.Background()

		err := svc.ReplaceHotels(ctx, page, []voygen.HotelDTO{{ID: "h1", Name: "ok"}, {ID: "h2"}})

		assert.Equal(t, voygen.EINVALID, voygen.ErrorCode(err))
		got, err := svc.FindHotels(ctx, voygen.HotelFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects an empty source URL", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewHotelService(setupTestDB(t)).ReplaceHotels(context.Background(), " ", lisbonHotels())

		assert.Equal(t, voygen.EINVALID, voygen.ErrorCode(err))
	})
}

func TestHotelService_FindHotels(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewHotelService(db)
	ctx := context.Background()
	require.NoError(t, svc.ReplaceHotels(ctx, "https://trips.example.com/p1", lisbonHotels()))
	require.NoError(t, svc.ReplaceHotels(ctx, "https://trips.example.com/p2", []voygen.HotelDTO{{ID: "h4", Name: "Hotel Porto", Currency: "EUR"}}))

	tests := []struct {
		name   string
		filter voygen.HotelFilter
		want   []string
	}{
		{"all in page order", voygen.HotelFilter{}, []string{"Hotel Lisboa", "Casa 100% Azul", "Bairro Inn", "Hotel Porto"}},
		{"name substring", voygen.HotelFilter{Name: ptr("hotel")}, []string{"Hotel Lisboa", "Hotel Porto"}},
		{"literal percent", voygen.HotelFilter{Name: ptr("100%")}, []string{"Casa 100% Azul"}},
		{"currency", voygen.HotelFilter{Currency: ptr("USD")}, []string{"Bairro Inn"}},
		{"limit", voygen.HotelFilter{Limit: 2}, []string{"Hotel Lisboa", "Casa 100% Azul"}},
		{"offset only", voygen.HotelFilter{Offset: 3}, []string{"Hotel Porto"}},
		{"limit and offset", voygen.HotelFilter{Limit: 1, Offset: 1}, []string{"Casa 100% Azul"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.FindHotels(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, h := range got {
				names[i] = h.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestHotelService_DeleteHotels(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewHotelService(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, svc.ReplaceHotels(ctx, "https://trips.example.com/p1", lisbonHotels()))

	require.NoError(t, svc.DeleteHotels(ctx, "https://trips.example.com/p1"))
	err := svc.DeleteHotels(ctx, "https://trips.example.com/p1")

	assert.Equal(t, voygen.ENOTFOUND, voygen.ErrorCode(err))
}
