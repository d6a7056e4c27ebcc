package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/resume-session/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	record := internal.CreateTestRecord("json1")

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(record, &buf); err != nil {
		t.Fatalf("JSONExporter.Export() error = %v", err)
	}

	var decoded internal.SessionRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != "json1" {
		t.Errorf("ID = %v, want json1", decoded.ID)
	}
	if len(decoded.Messages) != 2 {
		t.Errorf("len(Messages) = %d, want 2", len(decoded.Messages))
	}
	if decoded.Resume.Personal.Name != "Ada Lovelace" {
		t.Errorf("Resume.Personal.Name = %q, want Ada Lovelace", decoded.Resume.Personal.Name)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"")) {
		t.Error("JSON output should be indented")
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	if got := (&JSONExporter{}).Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
