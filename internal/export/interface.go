package export

import (
	"fmt"
	"io"

	"github.com/iksnae/resume-session/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *internal.SessionRecord, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names.
var Formats = []string{"tex", "json", "yaml", "jsonl", "md"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "tex", "latex":
		return &LaTeXExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: tex, json, yaml, jsonl, md)", format)
	}
}
