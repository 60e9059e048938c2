package voygen_test

import (
	"encoding/json"
	"math"
	"testing"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 4.5, 4.5, true},
		{"int", 3, 3, true},
		{"json number", json.Number("38.7223"), 38.7223, true},
		{"numeric string", " -9.1393 ", -9.1393, true},
		{"rating text", "8/10", 8, true},
		{"stars text", "4.5 stars", 4.5, true},
		{"decimal comma", "8,7 Fabulous", 8.7, true},
		{"empty string", "  ", 0, false},
		{"no digits", "excellent", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"infinity", math.Inf(1), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := voygen.ParseNumber(tt.in)

			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 0.00001)
		})
	}
}

func TestNumberPtr(t *testing.T) {
	t.Parallel()

	t.Run("numeric", func(t *testing.T) {
		t.Parallel()

		p := voygen.NumberPtr("120.50")

		require.NotNil(t, p)
		assert.InDelta(t, 120.5, *p, 0.00001)
	})

	t.Run("non-numeric", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, voygen.NumberPtr("n/a"))
	})
}
