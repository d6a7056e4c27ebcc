package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/iksnae/resume-session/internal"
)

// MarkdownExporter exports a readable summary of the résumé followed by the
// conversation transcript
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.SessionRecord, w io.Writer) error {
	messages := internal.NormalizeMessages(session.Messages, internal.Chronological)
	r := session.Resume
	if r == nil {
		r = internal.NewResume()
	}

	_, _ = fmt.Fprintf(w, "# Session %s\n\n", session.ID)
	if !session.UpdatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Updated:** %s  \n", session.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(messages))

	_, _ = fmt.Fprintf(w, "## Resume\n\n")
	if r.IsEmpty() {
		_, _ = fmt.Fprintf(w, "_No sections filled yet._\n\n")
	} else {
		writeResumeOutline(w, r)
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range messages {
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", msg.Role, escapeMarkdown(msg.Content))

		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func writeResumeOutline(w io.Writer, r *internal.Resume) {
	if !r.Personal.IsEmpty() {
		p := r.Personal
		_, _ = fmt.Fprintf(w, "**Name:** %s  \n", escapeMarkdown(p.Name))
		contacts := lo.Compact([]string{p.Email, p.Phone, p.GitHub, p.LinkedIn})
		if len(contacts) > 0 {
			_, _ = fmt.Fprintf(w, "**Contact:** %s\n\n", escapeMarkdown(strings.Join(contacts, " | ")))
		}
	}
	if s := strings.TrimSpace(r.Summary); s != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(s))
	}
	for _, e := range r.Education {
		if e.IsEmpty() {
			continue
		}
		_, _ = fmt.Fprintf(w, "- **Education:** %s, %s (%s)\n", escapeMarkdown(e.Degree), escapeMarkdown(e.Institution), e.GraduationDate)
	}
	for _, e := range r.Experience {
		end := e.EndDate
		if end == "" {
			end = "Present"
		}
		_, _ = fmt.Fprintf(w, "- **Experience:** %s at %s (%s - %s), %d responsibilities\n",
			escapeMarkdown(e.Title), escapeMarkdown(e.Company), e.StartDate, end, len(e.Responsibilities))
	}
	for _, p := range r.Projects {
		_, _ = fmt.Fprintf(w, "- **Project:** %s [%s]\n", escapeMarkdown(p.Title), strings.Join(p.TechStack, ", "))
	}
	if !r.Skills.IsEmpty() {
		all := lo.Flatten([][]string{r.Skills.Languages, r.Skills.Frameworks, r.Skills.DeveloperTools, r.Skills.Libraries})
		_, _ = fmt.Fprintf(w, "- **Skills:** %s\n", escapeMarkdown(strings.Join(all, ", ")))
	}
	_, _ = fmt.Fprintln(w)
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
