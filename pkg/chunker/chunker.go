// Package chunker splits long document text into pieces small enough
// to embed, preferring sentence boundaries over hard cuts.
package chunker

import (
	"strings"
	"unicode/utf8"
)

type Chunk struct {
	Content string
	Index   int
}

type Options struct {
	// MaxRunes is the target chunk size. Sentences longer than this
	// are cut mid-sentence.
	MaxRunes int
}

func DefaultOptions() Options {
	return Options{MaxRunes: 2000}
}

// Split breaks text into sentence-aligned chunks of at most
// opts.MaxRunes runes. Whitespace-only pieces are dropped.
func Split(text string, opts Options) []Chunk {
	if opts.MaxRunes <= 0 {
		opts.MaxRunes = DefaultOptions().MaxRunes
	}

	var chunks []Chunk
	var current strings.Builder

	flush := func() {
		piece := strings.TrimSpace(current.String())
		current.Reset()
		if piece != "" {
			chunks = append(chunks, Chunk{Content: piece, Index: len(chunks)})
		}
	}

	for _, sentence := range sentences(text) {
		if utf8.RuneCountInString(sentence) > opts.MaxRunes {
			flush()
			for _, piece := range hardCut(sentence, opts.MaxRunes) {
				current.WriteString(piece)
				flush()
			}
			continue
		}
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(sentence) > opts.MaxRunes {
			flush()
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}

// sentences splits on sentence-ending punctuation followed by a space.
// The terminator stays with its sentence.
func sentences(text string) []string {
	var result []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			result = append(result, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

func hardCut(text string, maxRunes int) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); start += maxRunes {
		end := start + maxRunes
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
