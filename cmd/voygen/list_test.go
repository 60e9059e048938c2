package main_test

import (
	"bytes"
	"context"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	main "github.com/iamneilroberts/voygen-sub008/cmd/voygen"
	"github.com/iamneilroberts/voygen-sub008/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists hotels with filters", func(t *testing.T) {
		t.Parallel()

		var got voygen.HotelFilter
		hotels := &mock.HotelService{
			FindHotelsFn: func(_ context.Context, filter voygen.HotelFilter) ([]*voygen.StoredHotel, error) {
				got = filter
				return []*voygen.StoredHotel{
					{HotelDTO: voygen.HotelDTO{ID: "lx1", Name: "Hotel Lisboa Plaza", PriceText: "€180"}},
					{HotelDTO: voygen.HotelDTO{ID: "lx2", Name: "Casa Azul Alfama", PriceText: "€95"}},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, HotelStore: hotels}

		cmd := &main.ListCmd{Kind: "hotels", SourceURL: "https://book.example.com/results", Currency: "EUR", Limit: 5}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.SourceURL)
		assert.Equal(t, "https://book.example.com/results", *got.SourceURL)
		require.NotNil(t, got.Currency)
		assert.Equal(t, "EUR", *got.Currency)
		assert.Nil(t, got.Name)
		assert.Equal(t, 5, got.Limit)
		assert.Contains(t, stdout.String(), "lx1  Hotel Lisboa Plaza  €180")
		assert.Contains(t, stdout.String(), "lx2  Casa Azul Alfama  €95")
	})

	t.Run("no hotels", func(t *testing.T) {
		t.Parallel()

		hotels := &mock.HotelService{
			FindHotelsFn: func(context.Context, voygen.HotelFilter) ([]*voygen.StoredHotel, error) {
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, HotelStore: hotels}

		err := (&main.ListCmd{Kind: "hotels"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No hotels found")
	})

	t.Run("lists facts by kind and confidence", func(t *testing.T) {
		t.Parallel()

		var got voygen.FactFilter
		facts := &mock.FactService{
			FindFactsFn: func(_ context.Context, filter voygen.FactFilter) ([]*voygen.StoredFact, error) {
				got = filter
				return []*voygen.StoredFact{
					{TravelFact: voygen.TravelFact{Kind: voygen.KindFlight, Confidence: 0.92, FlightNumber: "412"}},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, FactStore: facts}

		err := (&main.ListCmd{Kind: "facts", FactKind: "flight", MinConfidence: 0.5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Kind)
		assert.Equal(t, voygen.KindFlight, *got.Kind)
		require.NotNil(t, got.MinConfidence)
		assert.InDelta(t, 0.5, *got.MinConfidence, 0.0001)
		assert.Contains(t, stdout.String(), "flight  0.92  412")
	})

	t.Run("rejects unknown fact kind", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, FactStore: &mock.FactService{}}

		err := (&main.ListCmd{Kind: "facts", FactKind: "cruise"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, voygen.EINVALID, voygen.ErrorCode(err))
		assert.Contains(t, stderr.String(), `unknown fact kind "cruise"`)
	})
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes hotels", func(t *testing.T) {
		t.Parallel()

		var deleted string
		hotels := &mock.HotelService{
			DeleteHotelsFn: func(_ context.Context, sourceURL string) error {
				deleted = sourceURL
				return nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, HotelStore: hotels}

		err := (&main.DeleteCmd{Kind: "hotels", SourceURL: "https://book.example.com/results"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://book.example.com/results", deleted)
		assert.Contains(t, stdout.String(), "Deleted hotels")
	})

	t.Run("reports missing facts", func(t *testing.T) {
		t.Parallel()

		facts := &mock.FactService{
			DeleteFactsFn: func(_ context.Context, sourceURL string) error {
				return voygen.Errorf(voygen.ENOTFOUND, "no facts stored for %s", sourceURL)
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, FactStore: facts}

		err := (&main.DeleteCmd{Kind: "facts", SourceURL: "https://mail.example.com/x"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: no facts stored for https://mail.example.com/x")
	})
}
