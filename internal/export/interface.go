package export

import (
	"fmt"
	"io"

	"github.com/chrisyu-uiuc/uibackup/internal"
)

// Exporter defines the interface for chat detail record formats.
type Exporter interface {
	Export(report *internal.ChatReport, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, md, yaml)", format)
	}
}
