package core

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the longest identifier, in code points, accepted by callers.
const DefaultMaxLength = 500

var (
	// ErrEmptyInput is returned for empty or whitespace-only identifiers.
	ErrEmptyInput = errors.New("identifier is empty")
	// ErrInputTooLong is returned when an identifier exceeds the configured maximum length.
	ErrInputTooLong = errors.New("identifier is too long")
)

// NormalizeInput trims surrounding whitespace and applies the caller-side
// input policy. A maxLength of zero or less disables the length check.
func NormalizeInput(raw string, maxLength int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	if maxLength > 0 && utf8.RuneCountInString(trimmed) > maxLength {
		return "", ErrInputTooLong
	}
	return trimmed, nil
}
