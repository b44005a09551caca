package output

import (
	"fmt"

	"github.com/jidcheck/jidcheck/internal/core"
	"github.com/jidcheck/jidcheck/internal/core/confusable"
	"github.com/jidcheck/jidcheck/internal/core/engine"
)

// FlaggedView is the serialized form of a flagged character.
type FlaggedView struct {
	Character string `json:"character" yaml:"character"`
	Codepoint string `json:"codepoint" yaml:"codepoint"`
	Name      string `json:"name" yaml:"name"`
	Position  int    `json:"position" yaml:"position"`
	Lookalike string `json:"lookalike" yaml:"lookalike"`
}

// CheckView is the serialized form of one check, shared by the CLI and the API.
type CheckView struct {
	Input      string        `json:"input" yaml:"input"`
	HasFlagged bool          `json:"has_flagged" yaml:"has_flagged"`
	Flagged    []FlaggedView `json:"flagged" yaml:"flagged"`
	Report     string        `json:"report,omitempty" yaml:"report,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Codepoint formats r as U+XXXX.
func Codepoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// NewCheckView converts a result. An empty report is omitted.
func NewCheckView(result core.CheckResult, report string) CheckView {
	flagged := make([]FlaggedView, 0, len(result.Flagged))
	for _, f := range result.Flagged {
		flagged = append(flagged, FlaggedView{
			Character: string(f.Character),
			Codepoint: Codepoint(f.Character),
			Name:      confusable.Name(f.Character),
			Position:  f.Position,
			Lookalike: f.Lookalike,
		})
	}
	return CheckView{
		Input:      result.Input,
		HasFlagged: result.HasFlagged,
		Flagged:    flagged,
		Report:     report,
	}
}

func itemView(item engine.Item, report string) CheckView {
	if item.Rejected() {
		return CheckView{
			Input:   item.Raw,
			Flagged: []FlaggedView{},
			Report:  report,
			Error:   item.Err.Error(),
		}
	}
	return NewCheckView(item.Result, report)
}

// BatchView is the serialized form of a whole run.
type BatchView struct {
	Summary engine.Summary `json:"summary" yaml:"summary"`
	Results []CheckView    `json:"results" yaml:"results"`
}
