package voygen

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseSpace trims s and collapses internal whitespace runs to one space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

// RefundableFromText reads a refundability flag from free text such as a
// cancellation policy. It returns nil when the text says nothing either way.
func RefundableFromText(s string) *bool {
	t := strings.ToLower(s)
	var v bool
	switch {
	case t == "":
		return nil
	case strings.Contains(t, "non-refundable"), strings.Contains(t, "nonrefundable"),
		strings.Contains(t, "non refundable"), strings.Contains(t, "no refund"):
		v = false
	case strings.Contains(t, "free cancellation"), strings.Contains(t, "fully refundable"),
		strings.Contains(t, "refundable"):
		v = true
	default:
		return nil
	}
	return &v
}

var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"US$", "USD"},
	{"CA$", "CAD"},
	{"A$", "AUD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
	{"$", "USD"},
}

var currencyCodeRe = regexp.MustCompile(`\b(USD|EUR|GBP|CAD|AUD|MXN|JPY|CHF|NZD|INR)\b`)

// CurrencyFromText guesses an ISO currency code from a price string.
func CurrencyFromText(s string) string {
	if m := currencyCodeRe.FindString(s); m != "" {
		return m
	}
	for _, c := range currencySymbols {
		if strings.Contains(s, c.symbol) {
			return c.code
		}
	}
	return ""
}
