package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

var healthcheckTimeout time.Duration

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that the configured backend is reachable",
	Long: `Check the health of resume-session by verifying:
  • Configuration loading
  • Backend initialization
  • Backend connectivity
  • Session count and readability

This command is useful for debugging storage issues, especially in CI/CD environments.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Resume Session Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to load configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if verbose {
			describeConfig(out, cfg)
		}
		fmt.Fprintln(out)

		// Step 2: Backend
		fmt.Fprintln(out, infoStyle.Render("Step 2: Initializing storage backend..."))
		backend, err := internal.NewBackend(cfg)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to initialize storage backend:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer backend.Close()
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s backend initialized", backend.Name())))
		if backend.Name() == internal.BackendMemory {
			fmt.Fprintln(out, warningStyle.Render("⚠️  The memory backend does not persist sessions between runs"))
		}
		fmt.Fprintln(out)

		ctx, cancel := context.WithTimeout(context.Background(), healthcheckTimeout)
		defer cancel()

		// Step 3: Connectivity
		fmt.Fprintln(out, infoStyle.Render("Step 3: Testing backend connectivity..."))
		if err := backend.Ping(ctx); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Backend is not reachable:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Backend reachable"))
		fmt.Fprintln(out)

		// Step 4: Sessions
		fmt.Fprintln(out, infoStyle.Render("Step 4: Loading session data..."))
		ids, err := backend.List(ctx)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to list sessions:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		unreadable := 0
		for i, id := range ids {
			rec, err := backend.Load(ctx, id)
			if err != nil {
				unreadable++
				fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Session %s is unreadable:", id)), err)
				continue
			}
			if verbose && i < 5 { // Show first 5
				fmt.Fprintf(out, "   [%d] %s (%d message(s))\n", i+1, rec.ID, len(rec.Messages))
			}
		}
		if verbose && len(ids) > 5 {
			fmt.Fprintf(out, "   ... and %d more\n", len(ids)-5)
		}
		if len(ids) > 0 {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(ids))))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No sessions found"))
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if unreadable > 0 {
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			fmt.Fprintf(out, "   • %d session(s) could not be decoded\n", unreadable)
			return fmt.Errorf("health check failed: %d unreadable session(s)", unreadable)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Storage: %s", backend.Name())))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d found", len(ids))))
		return nil
	},
}

func describeConfig(out io.Writer, cfg *internal.Config) {
	fmt.Fprintf(out, "   Backend: %s\n", cfg.Backend)
	switch cfg.Backend {
	case internal.BackendFile:
		fmt.Fprintf(out, "   Directory: %s\n", cfg.File.Dir)
	case internal.BackendSQLite:
		fmt.Fprintf(out, "   Database: %s\n", cfg.SQLite.Path)
	case internal.BackendRedis:
		fmt.Fprintf(out, "   Redis: %s (db %d)\n", cfg.Redis.Addr, cfg.Redis.DB)
	}
	if cfg.TTL > 0 {
		fmt.Fprintf(out, "   TTL: %s\n", cfg.TTL)
	}
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 5*time.Second, "Timeout for backend checks")
}
