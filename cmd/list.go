package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	sectionListStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Italic(true)
)

// sessionSummary is one row of the list output.
type sessionSummary struct {
	ID           string
	Name         string
	MessageCount int
	Sections     []string
	UpdatedAt    time.Time
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted sessions",
	Long:  `List all sessions stored in the configured backend.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		ctx := context.Background()
		if err := internal.HydrateAll(ctx, ws.store, ws.backend); err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}

		summaries := make([]sessionSummary, 0, ws.store.Len())
		for _, id := range ws.store.IDs() {
			rec := ws.store.Snapshot(id)
			summaries = append(summaries, sessionSummary{
				ID:           rec.ID,
				Name:         rec.Resume.Personal.Name,
				MessageCount: len(rec.Messages),
				Sections:     rec.Resume.FilledSections(),
				UpdatedAt:    rec.UpdatedAt,
			})
		}

		displaySessions(cmd.OutOrStdout(), summaries)
		return nil
	},
}

func displaySessions(out io.Writer, sessions []sessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	fmt.Fprintln(out)

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Sections")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	now := time.Now()
	for _, s := range sessions {
		name := s.Name
		if name == "" {
			name = "Untitled"
		}
		// Truncate long names but keep them readable
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		sections := dateStyle.Render("—")
		if len(s.Sections) > 0 {
			sections = sectionListStyle.Render(strings.Join(s.Sections, ","))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(s.ID),
			name,
			countStyle.Render(strconv.Itoa(s.MessageCount)),
			sections,
			dateStyle.Render(formatRelative(s.UpdatedAt, now)),
		)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID with `resume-session show <id>`"))
}

// formatRelative shows recent times compactly and older ones as a date.
func formatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
