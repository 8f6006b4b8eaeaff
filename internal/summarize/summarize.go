// Package summarize produces per-section summaries with length bounds
// adapted to each section's size, and aggregates them into the context
// string used for question answering.
package summarize

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer is the summarization capability. Implementations must honor
// the supplied length bounds and decode deterministically.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// QuestionAnswerer is the extractive question-answering capability.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// Kind classifies a per-section outcome.
type Kind string

const (
	KindSummary Kind = "summary"
	KindSkipped Kind = "skipped"
	KindError   Kind = "error"
)

// SectionSummary is the outcome for one section. Text holds the summary,
// the skip placeholder, or the error placeholder depending on Kind.
type SectionSummary struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Kind  Kind   `json:"kind"`
}

// SkippedMessage is recorded for sections too short to summarize.
const SkippedMessage = "Section too short to summarize."

const (
	// Sections at or below this many words are skipped.
	skipWordLimit = 20
	// Hard cap on characters handed to the capability per section.
	shortTextLimit = 1000

	maxLenFloor   = 13
	maxLenCeiling = 150
	minLenFloor   = 10
)

// lengthBounds computes the summary length budget for a section.
// wordCount is the full trimmed section's word count, shortWords the word
// count of the truncated input actually sent to the capability. The
// returned bounds satisfy 1 <= min < max whenever max > 1, and max == 1
// implies min == 1.
func lengthBounds(wordCount, shortWords int) (maxLen, minLen int) {
	maxLen = wordCount / 2
	if maxLen < maxLenFloor {
		maxLen = maxLenFloor
	}
	if maxLen > maxLenCeiling {
		maxLen = maxLenCeiling
	}
	minLen = maxLen * 6 / 10
	if minLen < minLenFloor {
		minLen = minLenFloor
	}

	// A summary cannot be longer than the truncated input it is drawn from.
	if shortWords < maxLen {
		maxLen = shortWords
	}
	if maxLen > 1 {
		if minLen > maxLen-1 {
			minLen = maxLen - 1
		}
	} else {
		minLen = 1
	}
	return maxLen, minLen
}

// truncate returns the first limit characters of s.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// BySections summarizes each section in document order, one capability
// call at a time. Labels are positional ("Section 1", "Section 2", ...)
// and are assigned whether or not the section was summarized. A failure
// on one section is recorded in place and does not stop the loop.
func BySections(ctx context.Context, s Summarizer, sections []string) []SectionSummary {
	results := make([]SectionSummary, 0, len(sections))
	for i, sec := range sections {
		label := fmt.Sprintf("Section %d", i+1)
		sec = strings.TrimSpace(sec)
		wordCount := len(strings.Fields(sec))

		if wordCount <= skipWordLimit {
			results = append(results, SectionSummary{Label: label, Text: SkippedMessage, Kind: KindSkipped})
			continue
		}

		shortText := truncate(sec, shortTextLimit)
		maxLen, minLen := lengthBounds(wordCount, len(strings.Fields(shortText)))

		summary, err := s.Summarize(ctx, shortText, maxLen, minLen)
		if err != nil {
			results = append(results, SectionSummary{
				Label: label,
				Text:  fmt.Sprintf("Error: %s", err),
				Kind:  KindError,
			})
			continue
		}
		results = append(results, SectionSummary{Label: label, Text: summary, Kind: KindSummary})
	}
	return results
}

// Context joins every section outcome into the single string used as
// question-answering context. Skip and error placeholders are included
// as their literal text.
func Context(results []SectionSummary) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, " ")
}
