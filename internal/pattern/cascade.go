// Package pattern provides ordered regex cascades with per-field
// normalization and validation.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalizer turns a raw captured substring into its canonical value.
type Normalizer func(string) string

// Validator rejects syntactically implausible captures.
type Validator func(string) bool

// FieldPattern is one entry in a field's cascade.
type FieldPattern struct {
	Regex     string
	Group     int // capture group index; 0 means group 1
	Normalize Normalizer
	Validate  Validator

	// CaseSensitive disables the default case-insensitive compilation,
	// for grammars where letter case is the signal (codes, plates).
	CaseSensitive bool
}

type compiledField struct {
	re *regexp.Regexp
	FieldPattern
}

// Cascade is an ordered list of candidate patterns for one field. The first
// pattern that matches and survives validation wins; later entries are never
// consulted once one succeeds.
type Cascade struct {
	field    string
	patterns []compiledField
}

// NewCascade compiles the given patterns for a field.
func NewCascade(field string, patterns []FieldPattern) (*Cascade, error) {
	compiled := make([]compiledField, 0, len(patterns))

	for _, p := range patterns {
		regexStr := p.Regex
		if !p.CaseSensitive && !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr // Case-insensitive by default
		}

		re, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s pattern %q: %w", field, p.Regex, err)
		}

		if p.Group == 0 {
			p.Group = 1
		}

		compiled = append(compiled, compiledField{re: re, FieldPattern: p})
	}

	return &Cascade{field: field, patterns: compiled}, nil
}

// Field returns the name of the field this cascade extracts.
func (c *Cascade) Field() string {
	return c.field
}

// Extract runs the cascade against text. Absence is a normal outcome, not an
// error: ok is false when no pattern matched and validated.
func (c *Cascade) Extract(text string) (string, bool) {
	for _, p := range c.patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil || p.Group >= len(m) {
			continue
		}

		value := m[p.Group]
		if p.Normalize != nil {
			value = p.Normalize(value)
		}
		if value == "" {
			continue
		}
		if p.Validate != nil && !p.Validate(value) {
			continue
		}

		return value, true
	}

	return "", false
}

// PairPattern captures two related values, such as the two ends of a route.
type PairPattern struct {
	Regex       string
	FirstGroup  int
	SecondGroup int
	Normalize   Normalizer
	Validate    Validator

	CaseSensitive bool
}

type compiledPair struct {
	re *regexp.Regexp
	PairPattern
}

// PairCascade is an ordered cascade producing two values per match. Ordering
// carries precedence just like Cascade: high-precision code-to-code patterns
// are listed before keyword-anchored fallbacks.
type PairCascade struct {
	field    string
	patterns []compiledPair
}

// NewPairCascade compiles the given pair patterns for a field.
func NewPairCascade(field string, patterns []PairPattern) (*PairCascade, error) {
	compiled := make([]compiledPair, 0, len(patterns))

	for _, p := range patterns {
		regexStr := p.Regex
		if !p.CaseSensitive && !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}

		re, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s pattern %q: %w", field, p.Regex, err)
		}

		if p.FirstGroup == 0 {
			p.FirstGroup = 1
		}
		if p.SecondGroup == 0 {
			p.SecondGroup = 2
		}

		compiled = append(compiled, compiledPair{re: re, PairPattern: p})
	}

	return &PairCascade{field: field, patterns: compiled}, nil
}

// Extract returns both captured values of the first pattern whose captures
// normalize and validate.
func (c *PairCascade) Extract(text string) (first, second string, ok bool) {
	for _, p := range c.patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil || p.FirstGroup >= len(m) || p.SecondGroup >= len(m) {
			continue
		}

		a, b := m[p.FirstGroup], m[p.SecondGroup]
		if p.Normalize != nil {
			a, b = p.Normalize(a), p.Normalize(b)
		}
		if a == "" || b == "" {
			continue
		}
		if p.Validate != nil && (!p.Validate(a) || !p.Validate(b)) {
			continue
		}

		return a, b, true
	}

	return "", "", false
}
