package latex

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/iksnae/resume-session/internal"
)

// PresentLabel stands in for a missing end date.
const PresentLabel = "Present"

// DiagnosticPrefix starts the single-line comment returned when rendering fails.
const DiagnosticPrefix = "% resume render failed: "

// section is one block of the document. A section is opened only when
// present reports content, so every block that is begun is also ended.
type section struct {
	name    string
	present func(r *internal.Resume) bool
	emit    func(w *writer, r *internal.Resume)
}

var sections = []section{
	{name: internal.SectionPersonal, present: hasHeader, emit: emitHeader},
	{name: internal.SectionSummary, present: hasSummary, emit: emitSummary},
	{name: internal.SectionEducation, present: hasEducation, emit: emitEducation},
	{name: internal.SectionSkills, present: hasSkills, emit: emitSkills},
	{name: internal.SectionExperience, present: hasExperience, emit: emitExperience},
	{name: internal.SectionProjects, present: hasProjects, emit: emitProjects},
}

// Render converts r into a complete LaTeX document. It never fails: if
// anything goes wrong the result is a one-line LaTeX comment describing it.
func Render(r *internal.Resume) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			internal.LogError("Rendering resume failed: %v", rec)
			out = diagnostic(fmt.Sprint(rec))
		}
	}()

	if r == nil {
		return diagnostic("no resume to render")
	}

	w := &writer{}
	w.raw(preamble)
	w.line("")
	w.line(`\begin{document}`)
	w.line("")
	for _, s := range sections {
		if !s.present(r) {
			continue
		}
		s.emit(w, r)
		w.line("")
	}
	w.line(`\end{document}`)
	return w.String()
}

// RenderTo writes the rendered document to out.
func RenderTo(out io.Writer, r *internal.Resume) error {
	_, err := io.WriteString(out, Render(r))
	return err
}

// IsDiagnostic reports whether text is the fallback produced by a failed render.
func IsDiagnostic(text string) bool {
	return strings.HasPrefix(text, DiagnosticPrefix)
}

func diagnostic(reason string) string {
	return DiagnosticPrefix + strings.Join(strings.Fields(reason), " ")
}

type writer struct {
	strings.Builder
}

func (w *writer) raw(s string) {
	w.WriteString(s)
}

func (w *writer) line(s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

func (w *writer) linef(format string, args ...any) {
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func hasHeader(r *internal.Resume) bool {
	return !r.Personal.IsEmpty()
}

func emitHeader(w *writer, r *internal.Resume) {
	p := r.Personal
	w.line(`\begin{center}`)
	if strings.TrimSpace(p.Name) != "" {
		w.linef(`    \textbf{\Huge \scshape %s} \\ \vspace{1pt}`, Escape(p.Name))
	}

	var contacts []string
	if p.Phone != "" {
		contacts = append(contacts, Escape(p.Phone))
	}
	if p.Email != "" {
		contacts = append(contacts, fmt.Sprintf(`\href{mailto:%s}{\underline{%s}}`, EscapeURL(p.Email), Escape(p.Email)))
	}
	if p.LinkedIn != "" {
		contacts = append(contacts, fmt.Sprintf(`\href{%s}{\underline{linkedin.com/in/%s}}`, EscapeURL(p.LinkedIn), Escape(lastSegment(p.LinkedIn))))
	}
	if p.GitHub != "" {
		contacts = append(contacts, fmt.Sprintf(`\href{%s}{\underline{github.com/%s}}`, EscapeURL(p.GitHub), Escape(lastSegment(p.GitHub))))
	}
	if len(contacts) > 0 {
		w.linef(`    \small %s`, strings.Join(contacts, ` $|$ `))
	}
	w.line(`\end{center}`)
}

func hasSummary(r *internal.Resume) bool {
	return strings.TrimSpace(r.Summary) != ""
}

func emitSummary(w *writer, r *internal.Resume) {
	w.line(`\section{Objective}`)
	w.linef(`  \small{%s}`, Escape(strings.TrimSpace(r.Summary)))
}

func hasEducation(r *internal.Resume) bool {
	return len(educationEntries(r)) > 0
}

func educationEntries(r *internal.Resume) []internal.EducationEntry {
	return lo.Filter(r.Education, func(e internal.EducationEntry, _ int) bool {
		return !e.IsEmpty()
	})
}

func emitEducation(w *writer, r *internal.Resume) {
	w.line(`\section{Education}`)
	w.line(`  \resumeSubHeadingListStart`)
	for _, e := range educationEntries(r) {
		w.line(`    \resumeSubheading`)
		w.linef(`      {%s}{%s}`, Escape(e.Institution), Escape(e.Location))
		w.linef(`      {%s}{%s}`, Escape(e.Degree), Escape(e.GraduationDate))
	}
	w.line(`  \resumeSubHeadingListEnd`)
}

func hasSkills(r *internal.Resume) bool {
	return !r.Skills.IsEmpty()
}

func emitSkills(w *writer, r *internal.Resume) {
	buckets := []struct {
		label string
		items []string
	}{
		{"Languages", r.Skills.Languages},
		{"Frameworks", r.Skills.Frameworks},
		{"Developer Tools", r.Skills.DeveloperTools},
		{"Libraries", r.Skills.Libraries},
	}

	var rows []string
	for _, b := range buckets {
		items := lo.FilterMap(b.items, func(s string, _ int) (string, bool) {
			s = strings.TrimSpace(s)
			return Escape(s), s != ""
		})
		if len(items) == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf(`     \textbf{%s}{: %s}`, b.label, strings.Join(items, ", ")))
	}

	w.line(`\section{Technical Skills}`)
	w.line(` \begin{itemize}[leftmargin=0.15in, label={}]`)
	w.line(`    \small{\item{`)
	w.line(strings.Join(rows, " \\\\\n"))
	w.line(`    }}`)
	w.line(` \end{itemize}`)
}

func hasExperience(r *internal.Resume) bool {
	return len(r.Experience) > 0
}

func emitExperience(w *writer, r *internal.Resume) {
	w.line(`\section{Experience}`)
	w.line(`  \resumeSubHeadingListStart`)
	for _, e := range r.Experience {
		w.line(`    \resumeSubheading`)
		w.linef(`      {%s}{%s}`, Escape(e.Title), Escape(dateRange(e.StartDate, e.EndDate)))
		w.linef(`      {%s}{%s}`, Escape(e.Company), Escape(lo.CoalesceOrEmpty(e.Location, e.JobType, internal.DefaultJobType)))
		emitBullets(w, e.Responsibilities)
	}
	w.line(`  \resumeSubHeadingListEnd`)
}

func hasProjects(r *internal.Resume) bool {
	return len(r.Projects) > 0
}

func emitProjects(w *writer, r *internal.Resume) {
	w.line(`\section{Projects}`)
	w.line(`  \resumeSubHeadingListStart`)
	for _, p := range r.Projects {
		heading := fmt.Sprintf(`\textbf{%s}`, Escape(p.Title))
		if stack := lo.Compact(p.TechStack); len(stack) > 0 {
			heading += fmt.Sprintf(` $|$ \emph{%s}`, Escape(strings.Join(stack, ", ")))
		}
		w.line(`    \resumeProjectHeading`)
		w.linef(`      {%s}{%s}`, heading, Escape(p.Duration))
		emitBullets(w, p.Features)
	}
	w.line(`  \resumeSubHeadingListEnd`)
}

// emitBullets writes an item list, or nothing when no item survives stripping.
func emitBullets(w *writer, items []string) {
	bullets := lo.Compact(lo.Map(items, func(s string, _ int) string { return StripBullet(s) }))
	if len(bullets) == 0 {
		return
	}
	w.line(`      \resumeItemListStart`)
	for _, b := range bullets {
		w.linef(`        \resumeItem{%s}`, Escape(b))
	}
	w.line(`      \resumeItemListEnd`)
}

func dateRange(start, end string) string {
	end = lo.CoalesceOrEmpty(strings.TrimSpace(end), PresentLabel)
	start = strings.TrimSpace(start)
	if start == "" {
		return end
	}
	return start + " -- " + end
}

// lastSegment returns the final path element of a profile URL,
// e.g. "https://github.com/ada/" -> "ada".
func lastSegment(link string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(link), "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
