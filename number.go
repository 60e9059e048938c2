package voygen

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

// ParseNumber coerces v into a finite float64. Numbers pass through,
// numeric strings are parsed, and strings such as "8/10" or "4.5 stars"
// yield the first number they contain. Anything else, including NaN and
// infinities, reports false.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		return ParseNumber(string(n))
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if p, err := strconv.ParseFloat(s, 64); err == nil {
			f = p
			break
		}
		m := numberRe.FindString(s)
		if m == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberPtr is ParseNumber returning nil for non-numeric input.
func NumberPtr(v any) *float64 {
	f, ok := ParseNumber(v)
	if !ok {
		return nil
	}
	return &f
}
