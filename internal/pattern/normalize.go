package pattern

import (
	"strings"
	"time"
	"unicode"
)

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeAmount canonicalizes a currency amount: currency markers, commas
// and spaces are removed, and a zero fractional part is dropped, so
// "Rs. 4,500.00" becomes "4500".
func NormalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"rs.", "rs", "inr", "₹"} {
		lower := strings.ToLower(s)
		if strings.HasPrefix(lower, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := s[i+1:]
		if strings.Trim(frac, "0") == "" {
			s = s[:i]
		}
	}
	return s
}

// dateLayouts are tried in order. Two-digit year layouts rely on Go's
// 1969-2068 expansion.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 January 2006",
	"2 January 2006",
	"02/01/06",
	"02-01-06",
	"2 Jan 06",
	"02-Jan-06",
	"2-Jan-06",
}

var monthYearLayouts = []string{
	"January 2006",
	"Jan 2006",
	"January, 2006",
}

// NormalizeDate canonicalizes a date to DD/MM/YYYY, or to "Month YYYY" when
// the day is absent. Already-canonical values pass through unchanged.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	for _, layout := range monthYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2006")
		}
	}

	return ""
}

// NormalizeTime canonicalizes a clock time to HH:MM, expanding 12-hour
// values using their am/pm suffix.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, ".", ":")

	for _, layout := range []string{"15:04", "3:04 PM", "3:04PM", "3 PM", "3PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return ""
}

// NormalizeCode uppercases an identifier and strips separator runes.
func NormalizeCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// TitleCase capitalizes the first letter of every word, lowercasing the rest.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// NormalizeDurationUnit canonicalizes validity units: min/mins become
// minutes, sec/secs seconds, hr/hrs hours.
func NormalizeDurationUnit(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min", "mins", "minute", "minutes":
		return "minutes"
	case "sec", "secs", "second", "seconds":
		return "seconds"
	case "hr", "hrs", "hour", "hours":
		return "hours"
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// TrimURL removes trailing punctuation a sentence may glue onto a URL, plus
// any trailing slash.
func TrimURL(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".,;:)!/")
}
