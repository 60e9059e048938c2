package extract_test

import (
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineJSONFacts(t *testing.T) {
	t.Parallel()

	t.Run("maps the best populated object", func(t *testing.T) {
		t.Parallel()

		page := &voygen.Page{Scripts: []voygen.Script{{
			Type: "application/json",
			Body: `{"booking":{
				"summary":{"hotelName":"Casa Azul"},
				"stay":{"hotelName":"Casa Azul Alfama","checkInDate":"2026-11-03","checkOutDate":"2026-11-06",
				        "confirmationNumber":"CA-88213","totalPrice":"€285"}
			}}`,
		}}}

		facts := extract.InlineJSONFacts(page, []voygen.FactKind{voygen.KindHotel})

		require.Len(t, facts, 1)
		f := facts[0]
		assert.Equal(t, voygen.KindHotel, f.Kind)
		assert.Equal(t, "Casa Azul Alfama", f.HotelName)
		assert.Equal(t, "2026-11-03T00:00:00Z", f.CheckIn)
		assert.Equal(t, "2026-11-06T00:00:00Z", f.CheckOut)
		assert.Equal(t, "CA-88213", f.ConfirmationNumber)
		assert.Equal(t, "EUR", f.Currency)
		assert.Equal(t, voygen.RouteInlineJSON, f.Source.Route)
		assert.Contains(t, f.Source.Hints, "hotel")
		assert.InDelta(t, extract.InlineBase+extract.InlineMaxBonus, f.Confidence, 0.0001)
	})

	t.Run("ignores blobs without kind markers", func(t *testing.T) {
		t.Parallel()

		page := &voygen.Page{Scripts: []voygen.Script{{
			Type: "application/json",
			Body: `{"user":{"name":"Ana","locale":"pt-PT"}}`,
		}}}

		assert.Empty(t, extract.InlineJSONFacts(page, voygen.FactKinds))
	})

	t.Run("requires more than one field", func(t *testing.T) {
		t.Parallel()

		page := &voygen.Page{Scripts: []voygen.Script{{
			Type: "application/json",
			Body: `{"hotel":{"hotelName":"Casa Azul"}}`,
		}}}

		assert.Empty(t, extract.InlineJSONFacts(page, []voygen.FactKind{voygen.KindHotel}))
	})

	t.Run("skips invalid json", func(t *testing.T) {
		t.Parallel()

		page := &voygen.Page{Scripts: []voygen.Script{{Type: "application/json", Body: `{"hotel": `}}}

		assert.Empty(t, extract.InlineJSONFacts(page, voygen.FactKinds))
	})
}
