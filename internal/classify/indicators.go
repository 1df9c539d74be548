// Package classify implements the pattern-cascade classification engine:
// per-category indicator scanning, exclusion filtering, confidence scoring
// and field extraction behind a single Parse entry point.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Indicator is a keyword or phrase contributing scoring evidence for a
// category without itself producing an extracted value.
type Indicator struct {
	Name  string
	Regex string
}

// IndicatorSet scans text for a category's indicators. Each indicator counts
// at most once regardless of how often it repeats in the text.
type IndicatorSet struct {
	indicators []Indicator
	compiled   []*regexp.Regexp
}

// NewIndicatorSet compiles the given indicators.
func NewIndicatorSet(indicators []Indicator) (*IndicatorSet, error) {
	compiled := make([]*regexp.Regexp, 0, len(indicators))

	for _, ind := range indicators {
		regexStr := ind.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}

		re, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile indicator %s: %w", ind.Name, err)
		}
		compiled = append(compiled, re)
	}

	return &IndicatorSet{indicators: indicators, compiled: compiled}, nil
}

// Count returns how many distinct indicators match the text.
func (s *IndicatorSet) Count(text string) int {
	return len(s.Matches(text))
}

// Matches returns the names of the indicators that match the text, in
// definition order.
func (s *IndicatorSet) Matches(text string) []string {
	var names []string
	for i, re := range s.compiled {
		if re.MatchString(text) {
			names = append(names, s.indicators[i].Name)
		}
	}
	return names
}

// ExclusionFilter holds a category's negative patterns. Any match is
// absolute: the category scores zero and the outcome is Rejected no matter
// what positive evidence is present.
type ExclusionFilter struct {
	compiled []*regexp.Regexp
}

// NewExclusionFilter compiles the given negative patterns.
func NewExclusionFilter(patterns []string) (*ExclusionFilter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		regexStr := p
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}

		re, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile exclusion %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return &ExclusionFilter{compiled: compiled}, nil
}

// Excluded reports whether any negative pattern matches the text.
func (f *ExclusionFilter) Excluded(text string) bool {
	for _, re := range f.compiled {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
