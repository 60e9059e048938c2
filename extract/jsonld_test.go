package extract_test

import (
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ldConfirmation(bodies ...string) *voygen.Page {
	page := &voygen.Page{URL: "https://mail.example.com/confirmation"}
	for _, b := range bodies {
		page.Scripts = append(page.Scripts, voygen.Script{Type: "application/ld+json", Body: b})
	}
	return page
}

func TestJSONLDFacts(t *testing.T) {
	t.Parallel()

	t.Run("flight reservation", func(t *testing.T) {
		t.Parallel()

		page := ldConfirmation(`{
			"@context": "http://schema.org",
			"@type": "FlightReservation",
			"reservationNumber": "RXJ34P",
			"reservationFor": {
				"@type": "Flight",
				"flightNumber": "212",
				"airline": {"@type": "Airline", "iataCode": "TP"},
				"departureAirport": {"@type": "Airport", "iataCode": "JFK"},
				"arrivalAirport": {"@type": "Airport", "iataCode": "LIS"},
				"departureTime": "2026-11-03T19:40:00-05:00"
			}
		}`)

		facts := extract.JSONLDFacts(page, voygen.FactKinds)

		require.Len(t, facts, 1)
		f := facts[0]
		assert.Equal(t, voygen.KindFlight, f.Kind)
		assert.Equal(t, "TP", f.Airline)
		assert.Equal(t, "212", f.FlightNumber)
		assert.Equal(t, "JFK", f.DepartureAirport)
		assert.Equal(t, "LIS", f.ArrivalAirport)
		assert.Equal(t, "2026-11-04T00:40:00Z", f.DepartureTime)
		assert.Equal(t, "RXJ34P", f.RecordLocator)
		assert.Equal(t, voygen.RouteJSONLD, f.Source.Route)
		assert.Equal(t, "FlightReservation", f.Source.SchemaType)
		assert.InDelta(t, extract.JSONLDBase+extract.JSONLDMaxBonus, f.Confidence, 0.0001)
	})

	t.Run("flight with plain carrier and airport codes", func(t *testing.T) {
		t.Parallel()

		page := ldConfirmation(`{"@type":"FlightReservation","reservationNumber":"RXJ34P","reservationFor":{
			"@type":"Flight","flightNumber":"123","airline":"AA","departureAirport":"JFK","arrivalAirport":"LAX"}}`)

		facts := extract.JSONLDFacts(page, voygen.FactKinds)

		require.Len(t, facts, 1)
		assert.Equal(t, "AA", facts[0].Airline)
		assert.Equal(t, "123", facts[0].FlightNumber)
		assert.Equal(t, "JFK", facts[0].DepartureAirport)
		assert.Equal(t, "LAX", facts[0].ArrivalAirport)
		assert.Equal(t, "RXJ34P", facts[0].RecordLocator)
	})

	t.Run("graph container with several kinds", func(t *testing.T) {
		t.Parallel()

		page := ldConfirmation(`{"@context":"https://schema.org","@graph":[
			{"@type":"WebPage","name":"Lisbon guide"},
			{"@type":"Hotel","name":"Hotel Lisboa Plaza","address":{"streetAddress":"Travessa do Salitre 7","addressLocality":"Lisboa"},
			 "geo":{"latitude":38.7202,"longitude":-9.1459}},
			{"@type":"https://schema.org/TouristAttraction","name":"Torre de Belém","geo":{"latitude":"38.6916","longitude":"-9.2160"}}
		]}`)

		facts := extract.JSONLDFacts(page, voygen.FactKinds)

		require.Len(t, facts, 2)
		assert.Equal(t, voygen.KindHotel, facts[0].Kind)
		assert.Equal(t, "Hotel Lisboa Plaza", facts[0].HotelName)
		assert.Contains(t, facts[0].Address, "Travessa do Salitre 7")
		require.NotNil(t, facts[0].Lat)
		assert.InDelta(t, 38.7202, *facts[0].Lat, 0.0001)

		assert.Equal(t, voygen.KindPlace, facts[1].Kind)
		assert.Equal(t, "TouristAttraction", facts[1].Source.SchemaType)
		require.NotNil(t, facts[1].Lng)
		assert.InDelta(t, -9.2160, *facts[1].Lng, 0.0001)
	})

	t.Run("filters by wanted kinds", func(t *testing.T) {
		t.Parallel()

		page := ldConfirmation(
			`{"@type":"Event","name":"Fado night","startDate":"2026-11-05T21:00:00Z","location":{"name":"Clube de Fado"}}`,
			`[{"@type":"Hotel","name":"Casa Azul"}]`,
		)

		facts := extract.JSONLDFacts(page, []voygen.FactKind{voygen.KindEvent})

		require.Len(t, facts, 1)
		assert.Equal(t, "Fado night", facts[0].Name)
		assert.Equal(t, "Clube de Fado", facts[0].Venue)
		assert.Equal(t, "2026-11-05T21:00:00Z", facts[0].StartDate)
	})

	t.Run("skips malformed and unmapped nodes", func(t *testing.T) {
		t.Parallel()

		page := ldConfirmation(`{not json`, `{"@type":"Organization","name":"Example Travel"}`, `{"@type":"Hotel"}`)

		assert.Empty(t, extract.JSONLDFacts(page, voygen.FactKinds))
	})
}
