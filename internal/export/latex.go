package export

import (
	"io"

	"github.com/iksnae/resume-session/internal"
	"github.com/iksnae/resume-session/internal/latex"
)

// LaTeXExporter writes the session's résumé as a LaTeX document
type LaTeXExporter struct{}

// Export renders the résumé. Messages are not part of the output.
func (e *LaTeXExporter) Export(session *internal.SessionRecord, w io.Writer) error {
	return latex.RenderTo(w, session.Resume)
}

// Extension returns the file extension for this format
func (e *LaTeXExporter) Extension() string {
	return "tex"
}
