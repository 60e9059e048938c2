package gzip_test

import (
	"encoding/base64"
	"strings"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/iamneilroberts/voygen-sub008/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"json document", `{"kind":"flight","confidence":0.95,"airline":"AA"}`},
		{"ndjson", "{\"name\":\"Hotel A\"}\n{\"name\":\"Hotel B\"}"},
		{"unicode", `{"name":"Hôtel Élysée ☀"}`},
		{"large", strings.Repeat(`{"name":"Grand Palace","price_text":"$199"}`+"\n", 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoded, err := gzip.Encode(tt.payload)
			require.NoError(t, err)

			decoded, err := gzip.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, decoded)
		})
	}
}

func TestDecode_InvalidBase64(t *testing.T) {
	t.Parallel()

	_, err := gzip.Decode("not base64!!")

	require.Error(t, err)
	assert.Equal(t, voygen.EDECODE, voygen.ErrorCode(err))
}

func TestDecode_NotGzip(t *testing.T) {
	t.Parallel()

	_, err := gzip.Decode(base64.StdEncoding.EncodeToString([]byte("plain text")))

	require.Error(t, err)
	assert.Equal(t, voygen.EDECODE, voygen.ErrorCode(err))
}

func TestDecode_Truncated(t *testing.T) {
	t.Parallel()

	encoded, err := gzip.Encode(strings.Repeat("hotel row ", 500))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	truncated := base64.StdEncoding.EncodeToString(raw[:len(raw)/2])

	_, err = gzip.Decode(truncated)

	require.Error(t, err)
	assert.Equal(t, voygen.EDECODE, voygen.ErrorCode(err))
}

func TestJoinNDJSON(t *testing.T) {
	t.Parallel()

	t.Run("single separators without trailing newline", func(t *testing.T) {
		t.Parallel()

		rows := []voygen.HotelRow{{Name: "A"}, {Name: "B"}}

		payload, err := gzip.JoinNDJSON(rows)

		require.NoError(t, err)
		assert.Equal(t, "{\"name\":\"A\"}\n{\"name\":\"B\"}", payload)
	})

	t.Run("empty input yields empty payload", func(t *testing.T) {
		t.Parallel()

		payload, err := gzip.JoinNDJSON([]voygen.HotelRow{})

		require.NoError(t, err)
		assert.Empty(t, payload)
	})
}

func TestSplitNDJSON_ToleratesBlankLines(t *testing.T) {
	t.Parallel()

	lines := gzip.SplitNDJSON("\n{\"name\":\"A\"}\r\n\n  \n{\"name\":\"B\"}  \n")

	assert.Equal(t, []string{`{"name":"A"}`, `{"name":"B"}`}, lines)
}

func TestEncodeNDJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	rows := []voygen.HotelRow{
		{ID: "h1", Name: "Harbor Inn", PriceText: "$120"},
		{ID: "h2", Name: "Bay Suites", StarRating: "4.5"},
	}

	encoded, err := gzip.EncodeNDJSON(rows)
	require.NoError(t, err)

	decoded, err := gzip.Decode(encoded)
	require.NoError(t, err)

	lines := gzip.SplitNDJSON(decoded)
	require.Len(t, lines, 2)
	assert.Equal(t, `{"id":"h1","name":"Harbor Inn","price_text":"$120"}`, lines[0])
	assert.Equal(t, `{"id":"h2","name":"Bay Suites","star_rating":"4.5"}`, lines[1])
}
