package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jidcheck/jidcheck/internal/core/confusable"
	"github.com/jidcheck/jidcheck/internal/core/engine"
)

// TableFormatter renders one row per flagged character.
type TableFormatter struct{}

// FormatItems renders items as an ASCII table.
func (f *TableFormatter) FormatItems(items []engine.Item) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	// Keep header and footer as written; the summary is case-sensitive.
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Input", "Status", "Offset", "Char", "Codepoint", "Name", "Looks like"})

	for _, item := range items {
		switch {
		case item.Rejected():
			t.AppendRow(table.Row{item.Raw, "rejected", "", "", "", "", item.Err.Error()})
		case !item.Result.HasFlagged:
			t.AppendRow(table.Row{item.Input, "clean", "", "", "", "", ""})
		default:
			for idx, flagged := range item.Result.Flagged {
				input := ""
				if idx == 0 {
					input = item.Input
				}
				t.AppendRow(table.Row{
					input,
					"flagged",
					flagged.Position,
					string(flagged.Character),
					Codepoint(flagged.Character),
					strings.ToLower(confusable.Name(flagged.Character)),
					flagged.Lookalike,
				})
			}
		}
	}

	summary := engine.Summarize(items)
	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d/%d flagged", summary.Flagged, summary.Total),
		"",
		"",
		"",
		"",
		rejectedNote(summary),
	})

	return t.Render(), nil
}

func rejectedNote(summary engine.Summary) string {
	if summary.Rejected == 0 {
		return ""
	}
	return fmt.Sprintf("%d rejected", summary.Rejected)
}
