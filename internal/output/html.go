package output

import (
	"bytes"
	htmltemplate "html/template"
	"strings"

	"github.com/jidcheck/jidcheck/internal/core/engine"
	"github.com/jidcheck/jidcheck/internal/core/report"
)

const htmlDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Identifier check</title>
</head>
<body>
<h1>Identifier check</h1>
<p>{{ .Summary.Flagged }}/{{ .Summary.Total }} flagged, {{ .Summary.Rejected }} rejected</p>
{{- range .Reports }}
<section>
<p>{{ . }}</p>
</section>
{{- end }}
</body>
</html>
`

var htmlDocument = htmltemplate.Must(htmltemplate.New("report").Parse(htmlDocumentTemplate))

// HTMLFormatter wraps the HTML reports in a standalone document.
type HTMLFormatter struct {
	Reporter  *report.Reporter
	MaxLength int
}

type htmlDocumentData struct {
	Summary engine.Summary
	Reports []htmltemplate.HTML
}

// FormatItems renders items as an HTML document.
func (f *HTMLFormatter) FormatItems(items []engine.Item) (string, error) {
	data := htmlDocumentData{
		Summary: engine.Summarize(items),
		Reports: make([]htmltemplate.HTML, 0, len(items)),
	}
	for _, item := range items {
		// The HTML reporter escapes user input itself.
		rendered := renderItem(f.Reporter, item, f.MaxLength)
		data.Reports = append(data.Reports, htmltemplate.HTML(strings.ReplaceAll(rendered, "\n", "<br>\n")))
	}

	var buf bytes.Buffer
	if err := htmlDocument.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
