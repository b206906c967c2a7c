// Package lyrics prepares caller-supplied song lyrics for synthesis.
package lyrics

import (
	"errors"
	"strings"
	"unicode"
)

// minWords is the word count below which input is padded. Very short
// prompts tend to produce near-silent output, so they are repeated and
// wrapped in musical note markers instead.
const minWords = 5

// ErrEmpty is returned when the input is empty or whitespace-only.
var ErrEmpty = errors.New("lyrics are empty")

// Prepare normalizes raw lyrics for the synthesis request:
//  1. Trim surrounding whitespace; empty input is rejected with ErrEmpty.
//  2. Input with fewer than minWords words becomes two repetitions of
//     "♪ <text> ♪" on separate lines. Longer input passes through
//     unchanged.
//
// Prepare is a pure function of its input.
func Prepare(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmpty
	}

	if len(splitWords(trimmed)) < minWords {
		line := "♪ " + trimmed + " ♪\n"
		return line + line, nil
	}

	return trimmed, nil
}

// splitWords splits text into non-empty word tokens on whitespace boundaries.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, unicode.IsSpace)
}
