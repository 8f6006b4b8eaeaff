// Package split partitions extracted document text into sections at
// detected heading boundaries.
package split

import "regexp"

// Matcher reports whether the text beginning at a line start opens a new
// section. Matchers are checked in order; the first hit wins.
type Matcher interface {
	MatchesLineStart(text string) bool
}

// regexpMatcher matches when its anchored pattern matches the start of the text.
type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) MatchesLineStart(text string) bool {
	return m.re.MatchString(text)
}

// NewRegexpMatcher builds a Matcher from a pattern. The pattern is anchored
// to the start of the remaining text.
func NewRegexpMatcher(pattern string) Matcher {
	return regexpMatcher{re: regexp.MustCompile(`\A(?:` + pattern + `)`)}
}

// DefaultMatchers recognize numbered headings ("1. "), "Chapter N" and
// "Section N" lines.
func DefaultMatchers() []Matcher {
	return []Matcher{
		NewRegexpMatcher(`\d+\.\s`),
		NewRegexpMatcher(`Chapter\s+\d+`),
		NewRegexpMatcher(`Section\s+\d+`),
	}
}

// Split partitions text into sections using DefaultMatchers.
func Split(text string) []string {
	return SplitWith(text, DefaultMatchers())
}

// SplitWith scans text for newlines followed by a heading line and splits
// immediately before each such line. The newline acting as boundary is
// consumed; the heading line itself stays with the following section.
// Whatever precedes the first boundary is the first section, so text with
// no heading at all yields exactly one section.
func SplitWith(text string, matchers []Matcher) []string {
	var sections []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		rest := text[i+1:]
		if !matchesAny(rest, matchers) {
			continue
		}
		sections = append(sections, text[start:i])
		start = i + 1
	}
	sections = append(sections, text[start:])
	return sections
}

func matchesAny(text string, matchers []Matcher) bool {
	for _, m := range matchers {
		if m.MatchesLineStart(text) {
			return true
		}
	}
	return false
}
