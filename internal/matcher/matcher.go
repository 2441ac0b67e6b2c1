// Package matcher filters item ids with glob or regex patterns, such as
// "T4_*" or "^T[4-6]_BAG(@\d)?$".
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto attempts to detect the pattern type.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher checks item ids against one pattern.
type Matcher interface {
	// Match checks if the input matches the pattern
	Match(input string) bool
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// Options configures the matcher behavior.
type Options struct {
	// CaseSensitive disables the default case-insensitive matching
	CaseSensitive bool
}

type matcher struct {
	pattern       string
	patternType   PatternType
	compiled      *regexp.Regexp
	globPattern   string
	caseSensitive bool
}

// New creates a new Matcher with the specified pattern and type.
func New(patternType PatternType, pattern string, opts ...*Options) (Matcher, error) {
	options := &Options{}
	if len(opts) > 0 && opts[0] != nil {
		options = opts[0]
	}

	m := &matcher{
		pattern:       pattern,
		patternType:   patternType,
		caseSensitive: options.CaseSensitive,
	}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}
	return m, nil
}

func (m *matcher) compile() error {
	switch m.patternType {
	case Glob:
		m.globPattern = m.pattern
		if !m.caseSensitive {
			m.globPattern = strings.ToUpper(m.globPattern)
		}
		if _, err := path.Match(m.globPattern, ""); err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
	case Regex:
		pattern := m.pattern
		if !m.caseSensitive && !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		m.compiled = compiled
	default:
		return fmt.Errorf("unsupported pattern type: %v", m.patternType)
	}
	return nil
}

// Match checks if the input matches the pattern.
func (m *matcher) Match(input string) bool {
	switch m.patternType {
	case Glob:
		if !m.caseSensitive {
			input = strings.ToUpper(input)
		}
		matched, _ := path.Match(m.globPattern, input)
		return matched
	case Regex:
		return m.compiled.MatchString(input)
	default:
		return false
	}
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType treats a pattern as regex when it uses regex-only syntax.
func detectPatternType(pattern string) PatternType {
	regexIndicators := []string{
		"^", "$", "\\d", "\\w", "\\s", "(?", "{", "}", "+", "|", "(", ")", ".*",
	}
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}

// Any matches when at least one of its matchers does. An empty Any matches everything.
type Any []Matcher

// NewAny compiles each pattern with auto-detection.
func NewAny(patterns []string, opts ...*Options) (Any, error) {
	matchers := make(Any, 0, len(patterns))
	for _, pattern := range patterns {
		m, err := New(Auto, pattern, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create matcher for pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// Match returns true if any pattern matches.
func (a Any) Match(input string) bool {
	if len(a) == 0 {
		return true
	}
	for _, m := range a {
		if m.Match(input) {
			return true
		}
	}
	return false
}
