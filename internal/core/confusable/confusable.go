// Package confusable detects Cyrillic letters hidden in Latin identifiers.
//
// Detection works on single code points. Combining sequences are not
// composed first, so a Latin letter followed by a combining mark is never
// reported even when it renders like a Cyrillic letter.
package confusable

import (
	"golang.org/x/text/unicode/runenames"

	"github.com/jidcheck/jidcheck/internal/core"
)

// IsFlagged reports whether r belongs to the watched Cyrillic set.
func IsFlagged(r rune) bool {
	switch {
	case r >= upperFirst && r <= upperLast:
		return true
	case r >= lowerFirst && r <= lowerLast:
		return true
	case r == upperYo, r == lowerYo:
		return true
	default:
		return false
	}
}

// Lookalike returns the Latin letter r is commonly confused with.
func Lookalike(r rune) (string, bool) {
	latin, ok := lookalikes[r]
	return latin, ok
}

// Name returns the Unicode character name of r, or an empty string when unknown.
func Name(r rune) string {
	return runenames.Name(r)
}

// Check scans input code point by code point and records every watched
// character with its offset and lookalike hint.
func Check(input string) core.CheckResult {
	var flagged []core.FlaggedCharacter

	position := 0
	for _, r := range input {
		if IsFlagged(r) {
			latin, _ := Lookalike(r)
			flagged = append(flagged, core.FlaggedCharacter{
				Character: r,
				Position:  position,
				Lookalike: latin,
			})
		}
		position++
	}

	return core.NewCheckResult(input, flagged)
}
