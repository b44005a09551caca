package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/jidcheck/jidcheck/internal/core/engine"
	"github.com/jidcheck/jidcheck/internal/core/report"
)

// MarkdownFormatter renders a Markdown document with a summary table and
// one section per item.
type MarkdownFormatter struct {
	Reporter  *report.Reporter
	MaxLength int
}

// FormatItems renders items as Markdown.
func (f *MarkdownFormatter) FormatItems(items []engine.Item) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	summary := engine.Summarize(items)
	md.H1("Identifier check")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Total", "Clean", "Flagged", "Rejected"},
		Rows: [][]string{{
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Clean),
			strconv.Itoa(summary.Flagged),
			strconv.Itoa(summary.Rejected),
		}},
	})
	md.PlainText("")

	for idx, item := range items {
		title := item.Input
		if item.Rejected() {
			title = item.Raw
		}
		md.H2(fmt.Sprintf("%d. %s", idx+1, escapeMarkdownCell(title)))
		md.PlainText("")
		md.PlainText(markdownParagraphs(renderItem(f.Reporter, item, f.MaxLength)))
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// markdownParagraphs keeps report line breaks visible in rendered Markdown.
func markdownParagraphs(text string) string {
	lines := strings.Split(text, "\n")
	for idx, line := range lines {
		if line != "" && idx < len(lines)-1 && lines[idx+1] != "" {
			lines[idx] = line + "  "
		}
	}
	return strings.Join(lines, "\n")
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	return strings.ReplaceAll(value, "\n", " ")
}
