package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Date patterns recognized in free text: ISO, slash/dot numeric and
// month-name forms, each with an optional time of day.
var (
	timeSuffix = `(?:,?\s+(?:at\s+)?\d{1,2}:\d{2}(?::\d{2})?\s?(?i:am|pm)?)?`
	monthName  = `(?i:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

	dateRe = regexp.MustCompile(
		`\b\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?)?` +
			`|\b\d{1,2}[/.]\d{1,2}[/.]\d{2,4}\b` + timeSuffix +
			`|\b` + monthName + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b` + timeSuffix +
			`|\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthName + `,?\s+\d{4}\b` + timeSuffix)

	ordinalRe = regexp.MustCompile(`(\d)(?:st|nd|rd|th)\b`)
	atRe      = regexp.MustCompile(`(?i)\s+at\s+`)
)

// NormalizeDate parses a date in any supported format and returns it as an
// RFC 3339 UTC timestamp. Unparsable input reports false; nothing is guessed.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = atRe.ReplaceAllString(s, " ")
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.IsZero() {
		return "", false
	}
	return t.UTC().Format(time.RFC3339), true
}

// normalizeValue normalizes a decoded JSON date value.
func normalizeValue(v any) string {
	d, _ := NormalizeDate(textOf(v))
	return d
}

// FindDates returns the normalized dates found in text, in order of
// appearance. Matches that do not parse are skipped.
func FindDates(text string) []string {
	var out []string
	for _, m := range dateRe.FindAllString(text, -1) {
		if d, ok := NormalizeDate(m); ok {
			out = append(out, d)
		}
	}
	return out
}

// dateAfter returns the first parsable date within window bytes after a
// match of label.
func dateAfter(text string, label *regexp.Regexp, window int) (string, bool) {
	loc := label.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	end := min(loc[1]+window, len(text))
	for _, m := range dateRe.FindAllString(text[loc[1]:end], -1) {
		if d, ok := NormalizeDate(m); ok {
			return d, true
		}
	}
	return "", false
}
