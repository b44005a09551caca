package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		maxLength int
		want      string
		wantErr   error
	}{
		{name: "trims whitespace", raw: "  user@jabber.ru\n", maxLength: DefaultMaxLength, want: "user@jabber.ru"},
		{name: "empty", raw: "", maxLength: DefaultMaxLength, wantErr: ErrEmptyInput},
		{name: "whitespace only", raw: " \t\n", maxLength: DefaultMaxLength, wantErr: ErrEmptyInput},
		{name: "exactly at limit", raw: strings.Repeat("a", 500), maxLength: 500, want: strings.Repeat("a", 500)},
		{name: "over limit", raw: strings.Repeat("a", 501), maxLength: 500, wantErr: ErrInputTooLong},
		{name: "limit counts code points", raw: strings.Repeat("я", 500), maxLength: 500, want: strings.Repeat("я", 500)},
		{name: "limit disabled", raw: strings.Repeat("a", 2000), maxLength: 0, want: strings.Repeat("a", 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeInput(tt.raw, tt.maxLength)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewCheckResultInvariants(t *testing.T) {
	empty := NewCheckResult("", nil)
	require.NotNil(t, empty.Flagged)
	require.Empty(t, empty.Flagged)
	require.False(t, empty.HasFlagged)

	flagged := NewCheckResult("е", []FlaggedCharacter{{Character: 'е', Position: 0, Lookalike: "e"}})
	require.True(t, flagged.HasFlagged)
	require.Contains(t, flagged.Positions(), 0)
	require.True(t, flagged.Flagged[0].HasLookalike())
}
