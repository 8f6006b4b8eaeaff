package summarize

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// fakeSummarizer records calls and delegates to fn, or echoes a
// deterministic digest of its input when fn is nil.
type fakeSummarizer struct {
	calls []fakeCall
	fn    func(text string, maxLen, minLen int) (string, error)
}

type fakeCall struct {
	text   string
	maxLen int
	minLen int
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, maxLen, minLen int) (string, error) {
	f.calls = append(f.calls, fakeCall{text: text, maxLen: maxLen, minLen: minLen})
	if f.fn != nil {
		return f.fn(text, maxLen, minLen)
	}
	return fmt.Sprintf("summary(%d words, max=%d, min=%d)", len(strings.Fields(text)), maxLen, minLen), nil
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "alpha"
	}
	return strings.Join(parts, " ")
}

func TestBySections_ShortSectionSkippedWithoutCapabilityCall(t *testing.T) {
	fake := &fakeSummarizer{}
	results := BySections(context.Background(), fake, []string{words(20)})

	if len(fake.calls) != 0 {
		t.Fatalf("expected no capability calls, got %d", len(fake.calls))
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Kind != KindSkipped {
		t.Errorf("expected skipped kind, got %q", results[0].Kind)
	}
	if results[0].Text != SkippedMessage {
		t.Errorf("expected %q, got %q", SkippedMessage, results[0].Text)
	}
	if results[0].Label != "Section 1" {
		t.Errorf("expected label %q, got %q", "Section 1", results[0].Label)
	}
}

func TestBySections_TwentyOneWordsInvokesCapability(t *testing.T) {
	fake := &fakeSummarizer{}
	results := BySections(context.Background(), fake, []string{words(21)})

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 capability call, got %d", len(fake.calls))
	}
	if results[0].Kind != KindSummary {
		t.Errorf("expected summary kind, got %q", results[0].Kind)
	}
}

func TestBySections_LengthBoundsForSmallSection(t *testing.T) {
	// 25 words: maxLen clamps up to 13, minLen stays at its floor of 10.
	fake := &fakeSummarizer{}
	BySections(context.Background(), fake, []string{words(25)})

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fake.calls))
	}
	call := fake.calls[0]
	if call.maxLen != 13 {
		t.Errorf("expected maxLen=13, got %d", call.maxLen)
	}
	if call.minLen != 10 {
		t.Errorf("expected minLen=10, got %d", call.minLen)
	}
}

func TestBySections_LongSectionTruncatedAndCapped(t *testing.T) {
	// 400 words of "alpha" is well past the 1000 character cap.
	fake := &fakeSummarizer{}
	BySections(context.Background(), fake, []string{words(400)})

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fake.calls))
	}
	call := fake.calls[0]
	if len(call.text) > 1000 {
		t.Errorf("expected input capped at 1000 chars, got %d", len(call.text))
	}
	if call.maxLen != 150 {
		t.Errorf("expected maxLen=150, got %d", call.maxLen)
	}
	if call.minLen != 90 {
		t.Errorf("expected minLen=90, got %d", call.minLen)
	}
}

func TestLengthBounds_Invariants(t *testing.T) {
	for wordCount := 21; wordCount <= 600; wordCount++ {
		for _, shortWords := range []int{1, 2, 5, 13, 50, 150, 200, wordCount} {
			maxLen, minLen := lengthBounds(wordCount, shortWords)

			if maxLen == 1 {
				if minLen != 1 {
					t.Fatalf("wc=%d sw=%d: maxLen=1 requires minLen=1, got %d", wordCount, shortWords, minLen)
				}
				continue
			}
			if minLen < 1 || minLen >= maxLen {
				t.Fatalf("wc=%d sw=%d: want 1 <= min < max, got min=%d max=%d", wordCount, shortWords, minLen, maxLen)
			}
			if maxLen > 150 {
				t.Fatalf("wc=%d sw=%d: maxLen=%d exceeds ceiling", wordCount, shortWords, maxLen)
			}
			if maxLen > shortWords {
				t.Fatalf("wc=%d sw=%d: maxLen=%d exceeds truncated input words", wordCount, shortWords, maxLen)
			}
		}
	}
}

func TestBySections_Idempotent(t *testing.T) {
	sections := []string{words(30), words(10), words(120)}

	run := func() []SectionSummary {
		return BySections(context.Background(), &fakeSummarizer{}, sections)
	}
	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results across runs:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestBySections_FailureIsLocalToSection(t *testing.T) {
	n := 0
	fake := &fakeSummarizer{
		fn: func(text string, maxLen, minLen int) (string, error) {
			n++
			if n == 2 {
				return "", fmt.Errorf("backend unavailable")
			}
			return "ok summary", nil
		},
	}
	results := BySections(context.Background(), fake, []string{words(30), words(30), words(30)})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantKinds := []Kind{KindSummary, KindError, KindSummary}
	for i, k := range wantKinds {
		if results[i].Kind != k {
			t.Errorf("result[%d]: expected kind %q, got %q", i, k, results[i].Kind)
		}
	}
	if results[1].Text != "Error: backend unavailable" {
		t.Errorf("unexpected error placeholder: %q", results[1].Text)
	}

	// The context carries all three values, placeholder included.
	ctx := Context(results)
	if ctx != "ok summary Error: backend unavailable ok summary" {
		t.Errorf("unexpected context: %q", ctx)
	}
}

func TestBySections_LabelsAreOrderedAndAssignedThroughSkips(t *testing.T) {
	fake := &fakeSummarizer{}
	results := BySections(context.Background(), fake, []string{words(30), words(5), words(30), words(2)})

	want := []string{"Section 1", "Section 2", "Section 3", "Section 4"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, label := range want {
		if results[i].Label != label {
			t.Errorf("result[%d]: expected label %q, got %q", i, label, results[i].Label)
		}
	}
	if results[1].Kind != KindSkipped || results[3].Kind != KindSkipped {
		t.Errorf("expected sections 2 and 4 skipped, got %q and %q", results[1].Kind, results[3].Kind)
	}
	if len(fake.calls) != 2 {
		t.Errorf("expected 2 capability calls, got %d", len(fake.calls))
	}
}

func TestContext_IncludesPlaceholders(t *testing.T) {
	results := []SectionSummary{
		{Label: "Section 1", Text: "first summary", Kind: KindSummary},
		{Label: "Section 2", Text: SkippedMessage, Kind: KindSkipped},
		{Label: "Section 3", Text: "third summary", Kind: KindSummary},
	}
	got := Context(results)
	want := "first summary " + SkippedMessage + " third summary"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	s := strings.Repeat("é", 1200)
	got := truncate(s, 1000)
	if n := len([]rune(got)); n != 1000 {
		t.Errorf("expected 1000 runes, got %d", n)
	}
	if !strings.HasPrefix(s, got) {
		t.Errorf("truncation must be a prefix of the input")
	}
}
