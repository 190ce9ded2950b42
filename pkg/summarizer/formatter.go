package summarizer

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Formatter renders a Summary as text.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc adapts a function to Formatter.
type FormatFunc func(summary *Summary) string

func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// JSONFormatter renders the summary as indented JSON for tooling.
var JSONFormatter = FormatFunc(func(s *Summary) string {
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data) + "\n"
})

// ForPath picks JSONFormatter for a .json path and fallback otherwise.
func ForPath(path string, fallback Formatter) Formatter {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONFormatter
	}
	return fallback
}
