package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/resume-session/internal"
)

// JSONLExporter exports the normalized conversation, one message per line
type JSONLExporter struct{}

// Export writes messages oldest first.
func (e *JSONLExporter) Export(session *internal.SessionRecord, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range internal.NormalizeMessages(session.Messages, internal.Chronological) {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
