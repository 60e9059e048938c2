package sqlite_test

import (
	"context"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itineraryFacts() []voygen.TravelFact {
	return []voygen.TravelFact{
		{
			Kind: voygen.KindFlight, Confidence: 0.9,
			Airline: "AA", FlightNumber: "123", DepartureAirport: "JFK", ArrivalAirport: "LAX",
			Source: voygen.FactSource{Route: voygen.RouteJSONLD, SchemaType: "FlightReservation"},
		},
		{
			Kind: voygen.KindHotel, Confidence: 0.6, HotelName: "Casa Azul",
			Source: voygen.FactSource{Route: voygen.RouteRegex, Hints: []string{"hotel_vocabulary", "date"}},
		},
		{
			Kind: voygen.KindPlace, Confidence: 0.55, Lat: ptr(51.5237), Lng: ptr(-0.1585),
			Source: voygen.FactSource{Route: voygen.RouteRegex, Hints: []string{"coordinates"}},
		},
	}
}

func TestFactService(t *testing.T) {
	t.Parallel()

	const page = "https://mail.example.com/itinerary/42"

	t.Run("stores and finds facts by confidence", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewFactService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.ReplaceFacts(ctx, page, itineraryFacts()))

		got, err := svc.FindFacts(ctx, voygen.FactFilter{SourceURL: ptr(page)})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, voygen.KindFlight, got[0].Kind)
		assert.Equal(t, "FlightReservation", got[0].Source.SchemaType)
		assert.Equal(t, voygen.KindPlace, got[2].Kind)
		assert.InDelta(t, 51.5237, *got[2].Lat, 1e-9)
		assert.Equal(t, page, got[2].SourceURL)
	})

	t.Run("filters by kind and minimum confidence", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewFactService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.ReplaceFacts(ctx, page, itineraryFacts()))

		hotels, err := svc.FindFacts(ctx, voygen.FactFilter{Kind: ptr(voygen.KindHotel)})
		require.NoError(t, err)
		require.Len(t, hotels, 1)
		assert.Equal(t, "Casa Azul", hotels[0].HotelName)

		confident, err := svc.FindFacts(ctx, voygen.FactFilter{MinConfidence: ptr(0.58)})
		require.NoError(t, err)
		assert.Len(t, confident, 2)

		paged, err := svc.FindFacts(ctx, voygen.FactFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, paged, 1)
		assert.Equal(t, voygen.KindHotel, paged[0].Kind)
	})

	t.Run("replace drops earlier facts", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewFactService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.ReplaceFacts(ctx, page, itineraryFacts()))
		require.NoError(t, svc.ReplaceFacts(ctx, page, nil))

		got, err := svc.FindFacts(ctx, voygen.FactFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewFactService(setupTestDB(t))
		err := svc.ReplaceFacts(context.Background(), page, []voygen.TravelFact{{Kind: "cruise", Confidence: 0.5}})

		assert.Equal(t, voygen.EINVALID, voygen.ErrorCode(err))
	})

	t.Run("delete reports missing pages", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewFactService(setupTestDB(t))
		err := svc.DeleteFacts(context.Background(), page)

		assert.Equal(t, voygen.ENOTFOUND, voygen.ErrorCode(err))
	})
}
