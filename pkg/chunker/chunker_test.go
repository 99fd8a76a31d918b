package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitShortText(t *testing.T) {
	chunks := Split("One sentence only.", DefaultOptions())
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != "One sentence only." {
		t.Errorf("content = %q", chunks[0].Content)
	}
}

func TestSplitEmpty(t *testing.T) {
	if chunks := Split("   \n ", DefaultOptions()); chunks != nil {
		t.Errorf("got %d chunks for whitespace input, want none", len(chunks))
	}
}

func TestSplitRespectsSentenceBoundaries(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."
	chunks := Split(text, Options{MaxRunes: 25})

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if utf8.RuneCountInString(c.Content) > 25 {
			t.Errorf("chunk %d too long: %d runes", i, utf8.RuneCountInString(c.Content))
		}
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
	}

	joined := strings.Join([]string{chunks[0].Content, chunks[1].Content, chunks[2].Content}, " ")
	if joined != text {
		t.Errorf("chunks do not reassemble input: %q", joined)
	}
}

func TestSplitHardCutsOversizedSentence(t *testing.T) {
	long := strings.Repeat("a", 95) // no sentence boundary at all
	chunks := Split(long, Options{MaxRunes: 30})

	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	var total int
	for _, c := range chunks {
		if utf8.RuneCountInString(c.Content) > 30 {
			t.Errorf("chunk too long: %d runes", utf8.RuneCountInString(c.Content))
		}
		total += utf8.RuneCountInString(c.Content)
	}
	if total != 95 {
		t.Errorf("total runes = %d, want 95", total)
	}
}

func TestSplitZeroOptionFallsBack(t *testing.T) {
	chunks := Split("Some text.", Options{})
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
}
