package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/resume-session/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.SessionRecord
		want    []string
	}{
		{
			name:    "full session",
			session: internal.CreateTestRecord("test1"),
			want:    []string{"id: test1", "personal_info:", "name: Ada Lovelace", "company: Analytical Engines"},
		},
		{
			name:    "empty session",
			session: internal.CreateTestRecordWithMessages("test2", []internal.RawMessage{}),
			want:    []string{"id: test2", "experience: []"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&YAMLExporter{}).Export(tt.session, &buf); err != nil {
				t.Fatalf("YAMLExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}

			var decoded internal.SessionRecord
			if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("output is not valid YAML: %v", err)
			}
			if decoded.ID != tt.session.ID {
				t.Errorf("decoded ID = %v, want %v", decoded.ID, tt.session.ID)
			}
		})
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
