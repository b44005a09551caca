package report

import (
	"fmt"
	"strings"
)

// Markup renders the inline presentation markers used in reports.
type Markup interface {
	// Name identifies the dialect.
	Name() string
	// Bold emphasizes a label.
	Bold(s string) string
	// Underline emphasizes a span.
	Underline(s string) string
	// Code renders s as verbatim monospace text.
	Code(s string) string
	// Escape makes literal text safe to embed.
	Escape(s string) string
}

// Supported markup dialect names.
const (
	MarkupHTML     = "html"
	MarkupMarkdown = "markdown"
	MarkupPlain    = "plain"
)

var (
	// HTML is the Telegram HTML dialect.
	HTML Markup = htmlMarkup{}
	// Markdown is CommonMark with inline HTML for underline and code spans.
	Markdown Markup = markdownMarkup{}
	// Plain emits no markup; emphasized spans are bracketed.
	Plain Markup = plainMarkup{}
)

// ParseMarkup resolves a dialect by name. An empty name selects HTML.
func ParseMarkup(name string) (Markup, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MarkupHTML:
		return HTML, nil
	case MarkupMarkdown, "md":
		return Markdown, nil
	case MarkupPlain, "text":
		return Plain, nil
	default:
		return nil, fmt.Errorf("unsupported markup: %s", name)
	}
}

// Telegram only requires these three entities to be escaped.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

type htmlMarkup struct{}

func (htmlMarkup) Name() string { return MarkupHTML }
func (htmlMarkup) Bold(s string) string { return "<b>" + s + "</b>" }
func (htmlMarkup) Underline(s string) string { return "<u>" + s + "</u>" }
func (htmlMarkup) Code(s string) string { return "<code>" + s + "</code>" }
func (htmlMarkup) Escape(s string) string { return htmlEscaper.Replace(s) }

var markdownEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;",
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
)

type markdownMarkup struct{}

func (markdownMarkup) Name() string { return MarkupMarkdown }
func (markdownMarkup) Bold(s string) string { return "**" + s + "**" }
func (markdownMarkup) Underline(s string) string { return "<ins>" + s + "</ins>" }
func (markdownMarkup) Code(s string) string { return "<code>" + s + "</code>" }
func (markdownMarkup) Escape(s string) string { return markdownEscaper.Replace(s) }

type plainMarkup struct{}

func (plainMarkup) Name() string { return MarkupPlain }
func (plainMarkup) Bold(s string) string { return s }
func (plainMarkup) Underline(s string) string { return "[" + s + "]" }
func (plainMarkup) Code(s string) string { return s }
func (plainMarkup) Escape(s string) string { return s }
