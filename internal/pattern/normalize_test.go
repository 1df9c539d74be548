package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "4500", want: "4500"},
		{name: "commas removed", input: "4,500", want: "4500"},
		{name: "zero fraction dropped", input: "4,500.00", want: "4500"},
		{name: "nonzero fraction kept", input: "4500.50", want: "4500.50"},
		{name: "rs prefix", input: "Rs. 4,500.00", want: "4500"},
		{name: "inr prefix", input: "INR 1250", want: "1250"},
		{name: "rupee sign", input: "₹999", want: "999"},
		{name: "internal spaces", input: "1 250", want: "1250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAmount(tt.input))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "slash numeric", input: "05/08/2025", want: "05/08/2025"},
		{name: "dash numeric", input: "5-8-2025", want: "05/08/2025"},
		{name: "dot numeric", input: "05.08.2025", want: "05/08/2025"},
		{name: "day month name", input: "5 Aug 2025", want: "05/08/2025"},
		{name: "full month name", input: "5 August 2025", want: "05/08/2025"},
		{name: "dashed month name", input: "05-Aug-25", want: "05/08/2025"},
		{name: "two digit year", input: "05/08/25", want: "05/08/2025"},
		{name: "month year only", input: "August 2025", want: "August 2025"},
		{name: "abbreviated month year", input: "Aug 2025", want: "August 2025"},
		{name: "garbage", input: "tomorrow", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	for _, canonical := range []string{"05/08/2025", "August 2025"} {
		assert.Equal(t, canonical, NormalizeDate(canonical))
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "16:30", want: "16:30"},
		{input: "4:30 pm", want: "16:30"},
		{input: "4:30PM", want: "16:30"},
		{input: "9:05 am", want: "09:05"},
		{input: "16.30", want: "16:30"},
		{input: "noonish", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.input))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizeCode(" abc-123 "))
	assert.Equal(t, "MH12AB1234", NormalizeCode("MH 12 AB 1234"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "New Delhi", TitleCase("NEW DELHI"))
	assert.Equal(t, "Mumbai Central", TitleCase("mumbai central"))
	assert.Equal(t, "", TitleCase("  "))
}

func TestNormalizeDurationUnit(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "min", want: "minutes"},
		{input: "mins", want: "minutes"},
		{input: "Minutes", want: "minutes"},
		{input: "sec", want: "seconds"},
		{input: "hrs", want: "hours"},
		{input: "days", want: "days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDurationUnit(tt.input))
	}
}

func TestTrimURL(t *testing.T) {
	assert.Equal(t, "https://echallan.parivahan.gov.in/pay", TrimURL("https://echallan.parivahan.gov.in/pay."))
	assert.Equal(t, "http://example.com", TrimURL("http://example.com),"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "1234567890", DigitsOnly("123-456 7890"))
	assert.Equal(t, "", DigitsOnly("abc"))
}
