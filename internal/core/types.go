package core

// FlaggedCharacter is a watched-script character found in an identifier.
type FlaggedCharacter struct {
	// Character is the flagged code point.
	Character rune
	// Position is the zero-based code-point offset within the input.
	Position int
	// Lookalike is the Latin letter the character is mistaken for, empty if none is known.
	Lookalike string
}

// HasLookalike reports whether a Latin lookalike is known for the character.
func (f FlaggedCharacter) HasLookalike() bool {
	return f.Lookalike != ""
}

// CheckResult is the outcome of scanning a single identifier.
//
// Flagged is never nil and is ordered by ascending Position.
// HasFlagged is true exactly when Flagged is non-empty.
type CheckResult struct {
	Input      string
	HasFlagged bool
	Flagged    []FlaggedCharacter
}

// NewCheckResult builds a CheckResult that upholds the result invariants.
func NewCheckResult(input string, flagged []FlaggedCharacter) CheckResult {
	if flagged == nil {
		flagged = []FlaggedCharacter{}
	}
	return CheckResult{
		Input:      input,
		HasFlagged: len(flagged) > 0,
		Flagged:    flagged,
	}
}

// Positions returns the zero-based offsets of all flagged characters.
func (r CheckResult) Positions() map[int]struct{} {
	positions := make(map[int]struct{}, len(r.Flagged))
	for _, f := range r.Flagged {
		positions[f.Position] = struct{}{}
	}
	return positions
}
