package export

import (
	"encoding/json"
	"io"

	"github.com/chrisyu-uiuc/uibackup/internal"
)

// JSONExporter writes chat detail records as pretty-printed JSON, the
// format the mailer and dashboard consume.
type JSONExporter struct{}

// Export writes a chat report to JSON format
func (e *JSONExporter) Export(report *internal.ChatReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
