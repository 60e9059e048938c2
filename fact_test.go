package voygen_test

import (
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFactKind(t *testing.T) {
	t.Parallel()

	for _, kind := range append(voygen.FactKinds, voygen.KindGeneric) {
		got, ok := voygen.ParseFactKind(string(kind))
		assert.True(t, ok, kind)
		assert.Equal(t, kind, got)
	}

	_, ok := voygen.ParseFactKind("cruise")
	assert.False(t, ok)
}

func TestFactRequest_CharLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, voygen.DefaultMaxChars, voygen.FactRequest{}.CharLimit())
	assert.Equal(t, voygen.MinMaxChars, voygen.FactRequest{MaxChars: 10}.CharLimit())
	assert.Equal(t, voygen.MaxMaxChars, voygen.FactRequest{MaxChars: 10_000_000}.CharLimit())
	assert.Equal(t, 20000, voygen.FactRequest{MaxChars: 20000}.CharLimit())
}

func TestFactRequest_Kinds(t *testing.T) {
	t.Parallel()

	t.Run("specific hint", func(t *testing.T) {
		t.Parallel()

		got := voygen.FactRequest{Hint: "flight", PreferKind: []string{"hotel"}}.Kinds()

		assert.Equal(t, []voygen.FactKind{voygen.KindFlight}, got)
	})

	t.Run("preferred kinds without duplicates or unknowns", func(t *testing.T) {
		t.Parallel()

		got := voygen.FactRequest{Hint: "generic", PreferKind: []string{"hotel", "cruise", "place", "hotel"}}.Kinds()

		assert.Equal(t, []voygen.FactKind{voygen.KindHotel, voygen.KindPlace}, got)
	})

	t.Run("all kinds by default", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, voygen.FactKinds, voygen.FactRequest{}.Kinds())
	})
}

func TestCanonicalFacts(t *testing.T) {
	t.Parallel()

	facts := []voygen.TravelFact{
		{Kind: voygen.KindHotel, Confidence: 0.7, HotelName: "Hotel Lisboa"},
		{Kind: voygen.KindPlace, Confidence: 0.55, Address: "12 Rua Augusta"},
		{Kind: voygen.KindHotel, Confidence: 0.9, HotelName: "Casa Azul"},
		{Kind: voygen.KindHotel, Confidence: 0.9, HotelName: "Pousada Sol"},
		{Kind: voygen.KindFlight, Confidence: 0.95, FlightNumber: "412"},
	}

	got := voygen.CanonicalFacts(facts)

	require.Len(t, got, 3)
	assert.Equal(t, voygen.KindFlight, got[0].Kind)
	assert.Equal(t, "Casa Azul", got[1].HotelName, "ties keep the earliest fact")
	assert.Equal(t, voygen.KindPlace, got[2].Kind)
}
