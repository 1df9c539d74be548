package pattern

import (
	"strconv"
	"strings"
	"unicode"
)

// NumericCode returns a validator accepting all-digit values of the given
// length range.
func NumericCode(minLen, maxLen int) Validator {
	return func(s string) bool {
		if len(s) < minLen || len(s) > maxLen {
			return false
		}
		return DigitsOnly(s) == s
	}
}

// AmountBetween returns a validator accepting amounts in [lo, hi].
func AmountBetween(lo, hi float64) Validator {
	return func(s string) bool {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		return v >= lo && v <= hi
	}
}

// ValidDate accepts any value NormalizeDate produced.
func ValidDate(s string) bool {
	return s != ""
}

// IsAccountRef accepts loan or account references: 6-20 characters of
// letters, digits and mask runes, containing at least one digit.
func IsAccountRef(s string) bool {
	if len(s) < 6 || len(s) > 20 {
		return false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r), r == 'X', r == 'x', r == '*':
		default:
			return false
		}
	}
	return hasDigit
}

func countClasses(s string) (letters, digits, other int) {
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		default:
			other++
		}
	}
	return letters, digits, other
}

// IsChallanNumber accepts challan identifiers in any of four formats:
// 16-20 character state-prefixed, 12-20 character alphanumeric, 8-12 digit
// numeric, or 8+ character mixed alphanumeric. Branches are checked in that
// order.
func IsChallanNumber(s string) bool {
	letters, digits, other := countClasses(s)
	if other > 0 {
		return false
	}
	n := len(s)

	// State-prefixed: two letters then mostly digits, e.g. DL116709240411110024.
	if n >= 16 && n <= 20 && letters >= 2 && digits >= n-4 &&
		unicode.IsLetter(rune(s[0])) && unicode.IsLetter(rune(s[1])) {
		return true
	}
	// Medium alphanumeric.
	if n >= 12 && n <= 20 && digits > 0 {
		return true
	}
	// Purely numeric.
	if n >= 8 && n <= 12 && letters == 0 {
		return true
	}
	// Mixed alphanumeric needs both character classes.
	if n >= 8 && letters > 0 && digits > 0 {
		return true
	}
	return false
}

// IsVehiclePlate accepts the standard plate grammar: two-letter state code,
// one or two district digits, one or two series letters, four digits.
func IsVehiclePlate(s string) bool {
	return plateShape(s, 1, 2)
}

// IsLooseVehiclePlate accepts the relaxed grammar used by the fallback plate
// pattern: up to three series letters and three or four trailing digits.
func IsLooseVehiclePlate(s string) bool {
	return plateShape(s, 0, 3)
}

func plateShape(s string, minSeries, maxSeries int) bool {
	i, n := 0, len(s)

	take := func(pred func(rune) bool, lo, hi int) bool {
		count := 0
		for i < n && count < hi && pred(rune(s[i])) {
			i++
			count++
		}
		return count >= lo
	}
	isUpper := func(r rune) bool { return r >= 'A' && r <= 'Z' }
	isDigit := func(r rune) bool { return r >= '0' && r <= '9' }

	if !take(isUpper, 2, 2) {
		return false
	}
	if !take(isDigit, 1, 2) {
		return false
	}
	if !take(isUpper, minSeries, maxSeries) {
		return false
	}
	digitsStart := i
	if !take(isDigit, 3, 4) {
		return false
	}
	return i == n && i-digitsStart >= 3
}

// IsTrainCode accepts 10-digit train reservation codes. A leading zero marks
// a non-PNR digit run.
func IsTrainCode(s string) bool {
	return len(s) == 10 && DigitsOnly(s) == s && s[0] != '0'
}

// IsFlightCode accepts 6-character alphanumeric flight reservation codes
// containing at least one letter.
func IsFlightCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	letters, digits, other := countClasses(s)
	return other == 0 && letters > 0 && letters+digits == 6
}

// IsBusCode accepts 8-12 character alphanumeric bus booking references with
// both letters and digits.
func IsBusCode(s string) bool {
	if len(s) < 8 || len(s) > 12 {
		return false
	}
	letters, digits, other := countClasses(s)
	return other == 0 && letters > 0 && digits > 0
}

// IsReservationCode accepts any of the three reservation grammars.
func IsReservationCode(s string) bool {
	return IsTrainCode(s) || IsFlightCode(s) || IsBusCode(s)
}

// IsHTTPURL accepts http and https URLs.
func IsHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
