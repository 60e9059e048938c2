package voygen_test

import (
	"encoding/json"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailed(t *testing.T) {
	t.Parallel()

	env := voygen.Failed(voygen.EnvelopeHotels, "no hotel rows found", map[string]any{"platform": "vax"})

	assert.False(t, env.OK)
	assert.Equal(t, voygen.EnvelopeHotels, env.Kind)
	assert.Equal(t, "no hotel rows found", env.Error)
	assert.Equal(t, "vax", env.Meta["platform"])
	assert.Empty(t, env.NDJSONGzipBase64)
}

func TestEnvelope_JSON(t *testing.T) {
	t.Parallel()

	env := &voygen.Envelope{OK: true, Kind: voygen.EnvelopeHotels, Route: "xhr", Count: 2, NDJSONGzipBase64: "H4sI"}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, true, raw["ok"])
	assert.Equal(t, "xhr", raw["route"])
	assert.Equal(t, "H4sI", raw["ndjson_gz_base64"])
	assert.NotContains(t, raw, "facts_gz_base64")
	assert.NotContains(t, raw, "error")
}

func TestEnvelope_Samples(t *testing.T) {
	t.Parallel()

	t.Run("hotel sample", func(t *testing.T) {
		t.Parallel()

		env := &voygen.Envelope{Sample: json.RawMessage(`[{"name":"Hotel Lisboa","price_text":"€180"}]`)}

		rows, err := env.HotelSample()

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "€180", rows[0].PriceText)
	})

	t.Run("fact sample", func(t *testing.T) {
		t.Parallel()

		env := &voygen.Envelope{Sample: json.RawMessage(`[{"kind":"flight","confidence":0.9,"flight_number":"412"}]`)}

		facts, err := env.FactSample()

		require.NoError(t, err)
		require.Len(t, facts, 1)
		assert.Equal(t, voygen.KindFlight, facts[0].Kind)
	})

	t.Run("empty sample", func(t *testing.T) {
		t.Parallel()

		rows, err := (&voygen.Envelope{}).HotelSample()

		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("corrupt sample", func(t *testing.T) {
		t.Parallel()

		_, err := (&voygen.Envelope{Sample: json.RawMessage(`{`)}).FactSample()

		assert.Equal(t, voygen.EDECODE, voygen.ErrorCode(err))
	})
}
