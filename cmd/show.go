package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/resume-session/internal"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var limit int

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	resumeLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("62")).
				Bold(true)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the résumé and messages of a session",
	Long:  `Display the résumé assembled so far and the conversation of a session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		if err := ws.load(context.Background(), id); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rec := ws.store.Snapshot(id)
		displaySessionHeader(out, rec)
		displayResume(out, rec.Resume)

		messages := ws.store.ReadMessages(id, internal.Chronological)
		displayMessages(out, messages, limit)
		return nil
	},
}

func displaySessionHeader(out io.Writer, rec internal.SessionRecord) {
	title := rec.Resume.Personal.Name
	if title == "" {
		title = rec.ID
	}
	fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("📄 %s", title)))

	metaParts := []string{fmt.Sprintf("ID: %s", rec.ID)}
	if !rec.CreatedAt.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", rec.CreatedAt.Format("2006-01-02 15:04")))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(rec.Messages)))
	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
}

func displayResume(out io.Writer, r *internal.Resume) {
	if r.IsEmpty() {
		fmt.Fprintln(out, counterStyle.Render("(résumé is empty)"))
		fmt.Fprintln(out)
		return
	}

	row := func(label, value string) {
		fmt.Fprintf(out, "%s %s\n", resumeLabelStyle.Render(label+":"), value)
	}
	p := r.Personal
	if !p.IsEmpty() {
		contacts := lo.Compact([]string{p.Email, p.Phone, p.GitHub, p.LinkedIn})
		row("Personal", strings.TrimSpace(p.Name+" "+strings.Join(contacts, " | ")))
	}
	if s := strings.TrimSpace(r.Summary); s != "" {
		row("Summary", s)
	}
	for _, e := range r.Education {
		if !e.IsEmpty() {
			row("Education", fmt.Sprintf("%s, %s %s", e.Degree, e.Institution, e.GraduationDate))
		}
	}
	if !r.Skills.IsEmpty() {
		all := lo.Flatten([][]string{r.Skills.Languages, r.Skills.Frameworks, r.Skills.DeveloperTools, r.Skills.Libraries})
		row("Skills", strings.Join(all, ", "))
	}
	for _, e := range r.Experience {
		row("Experience", fmt.Sprintf("%s at %s (%d responsibilities)", e.Title, e.Company, len(e.Responsibilities)))
	}
	for _, p := range r.Projects {
		row("Project", fmt.Sprintf("%s [%s]", p.Title, strings.Join(p.TechStack, ", ")))
	}
	fmt.Fprintln(out)
}

func displayMessages(out io.Writer, messages []internal.Message, limit int) {
	total := len(messages)
	shown := messages
	if limit > 0 && limit < total {
		shown = messages[:limit]
	}

	for i, msg := range shown {
		displayMessage(out, i+1, msg, total)
	}

	// Show remaining count if limit was applied
	if len(shown) < total {
		fmt.Fprintln(out, counterStyle.Render(fmt.Sprintf("... (%d more message(s))", total-len(shown))))
	}
}

func displayMessage(out io.Writer, index int, msg internal.Message, total int) {
	actorStyle, actorLabel := assistantMessageStyle, "🤖 Assistant"
	if msg.Role == internal.RoleHuman {
		actorStyle, actorLabel = userMessageStyle, "👤 User"
	}

	fmt.Fprintln(out, actorStyle.Render(actorLabel)+" "+counterStyle.Render(fmt.Sprintf("[%d/%d]", index, total)))

	content := strings.TrimSpace(msg.Content)
	if content != "" {
		fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
	} else {
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		// Wrap long lines
		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
}
