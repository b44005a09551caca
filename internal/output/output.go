// Package output renders batches of identifier checks in CLI formats.
package output

import (
	"fmt"
	"strings"

	"github.com/jidcheck/jidcheck/internal/core/engine"
	"github.com/jidcheck/jidcheck/internal/core/report"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// Formatter renders checked items.
type Formatter interface {
	FormatItems(items []engine.Item) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	}
	for _, format := range Formats {
		if normalized == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", value)
}

// NewFormatter returns a formatter for format. Report text uses the
// messages of locale and a markup dialect suited to the format.
func NewFormatter(format Format, messages report.Messages, maxLength int) Formatter {
	switch format {
	case FormatTable:
		return &TableFormatter{}
	case FormatJSON:
		return &JSONFormatter{Indent: true, Reporter: report.New(report.Plain, messages), MaxLength: maxLength}
	case FormatYAML:
		return &YAMLFormatter{Reporter: report.New(report.Plain, messages), MaxLength: maxLength}
	case FormatMarkdown:
		return &MarkdownFormatter{Reporter: report.New(report.Markdown, messages), MaxLength: maxLength}
	case FormatHTML:
		return &HTMLFormatter{Reporter: report.New(report.HTML, messages), MaxLength: maxLength}
	default:
		return &TextFormatter{Reporter: report.New(report.Plain, messages), MaxLength: maxLength}
	}
}

// renderItem formats the report or the rejection notice for item.
func renderItem(r *report.Reporter, item engine.Item, maxLength int) string {
	if item.Rejected() {
		if msg, ok := r.Rejection(item.Err, maxLength); ok {
			return msg
		}
		return r.Markup.Escape(item.Err.Error())
	}
	return r.Format(item.Input, item.Result)
}

func batchView(r *report.Reporter, items []engine.Item, maxLength int) BatchView {
	views := make([]CheckView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView(item, renderItem(r, item, maxLength)))
	}
	return BatchView{Summary: engine.Summarize(items), Results: views}
}
