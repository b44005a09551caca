package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/jidcheck/jidcheck/internal/core/engine"
	"github.com/jidcheck/jidcheck/internal/core/report"
)

// JSONFormatter renders items as a JSON batch document.
type JSONFormatter struct {
	Indent    bool
	Reporter  *report.Reporter
	MaxLength int
}

// FormatItems renders items as JSON.
func (f *JSONFormatter) FormatItems(items []engine.Item) (string, error) {
	view := batchView(f.Reporter, items, f.MaxLength)

	var (
		data []byte
		err  error
	)
	if f.Indent {
		data, err = json.MarshalIndent(view, "", "  ")
	} else {
		data, err = json.Marshal(view)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// YAMLFormatter renders items as a YAML batch document.
type YAMLFormatter struct {
	Reporter  *report.Reporter
	MaxLength int
}

// FormatItems renders items as YAML.
func (f *YAMLFormatter) FormatItems(items []engine.Item) (string, error) {
	data, err := yaml.Marshal(batchView(f.Reporter, items, f.MaxLength))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
