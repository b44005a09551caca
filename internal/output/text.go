package output

import (
	"strings"

	"github.com/jidcheck/jidcheck/internal/core/engine"
	"github.com/jidcheck/jidcheck/internal/core/report"
)

// TextFormatter prints one plain report per item separated by blank lines.
type TextFormatter struct {
	Reporter  *report.Reporter
	MaxLength int
}

// FormatItems renders items as plain text reports.
func (f *TextFormatter) FormatItems(items []engine.Item) (string, error) {
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, renderItem(f.Reporter, item, f.MaxLength))
	}
	return strings.Join(rendered, "\n\n"), nil
}
