package export

import (
	"io"

	"github.com/chrisyu-uiuc/uibackup/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes chat detail records as YAML.
type YAMLExporter struct{}

// Export writes a chat report to YAML format
func (e *YAMLExporter) Export(report *internal.ChatReport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)

	return enc.Encode(report)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
