package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/resume-session/internal"
	"github.com/iksnae/resume-session/internal/latex"
)

func TestLaTeXExporter_Export(t *testing.T) {
	record := internal.CreateTestRecord("tex1")

	var buf bytes.Buffer
	if err := (&LaTeXExporter{}).Export(record, &buf); err != nil {
		t.Fatalf("LaTeXExporter.Export() error = %v", err)
	}

	if got, want := buf.String(), latex.Render(record.Resume); got != want {
		t.Errorf("Export() output differs from latex.Render()")
	}
	if strings.Contains(buf.String(), "Hello, I want to build a resume.") {
		t.Error("LaTeX output should not contain conversation messages")
	}
}

func TestLaTeXExporter_NilResume(t *testing.T) {
	var buf bytes.Buffer
	record := &internal.SessionRecord{ID: "nil-resume"}
	if err := (&LaTeXExporter{}).Export(record, &buf); err != nil {
		t.Fatalf("LaTeXExporter.Export() error = %v", err)
	}
	if !latex.IsDiagnostic(buf.String()) {
		t.Errorf("Export() with nil resume = %q, want diagnostic", buf.String())
	}
}
