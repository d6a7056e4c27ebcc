package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/iksnae/resume-session/internal"
	"github.com/iksnae/resume-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	sessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export sessions to various formats (tex, json, yaml, jsonl, md).

"tex" renders the résumé, "jsonl" writes the normalized conversation and the
other formats carry both. You can export all sessions or a specific session
by ID. Use 'resume-session list' to see available session IDs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter first so a bad format fails before touching storage
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		ctx := context.Background()
		if sessionID != "" {
			if err := ws.load(ctx, sessionID); err != nil {
				return err
			}
		} else if err := internal.HydrateAll(ctx, ws.store, ws.backend); err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}

		ids := ws.store.IDs()
		if len(ids) == 0 {
			internal.PrintWarning(cmd.ErrOrStderr(), "No sessions to export")
			return nil
		}

		// Ensure output directory exists
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d session(s) to %s", len(ids), outputDir), func() error {
			for _, id := range ids {
				rec := ws.store.Snapshot(id)
				path := filepath.Join(outputDir, fmt.Sprintf("session_%s.%s", url.PathEscape(id), exporter.Extension()))
				if err := exportRecord(exporter, &rec, path); err != nil {
					internal.LogError("Failed to export session %s: %v", id, err)
					continue
				}
				exported++
			}
			return nil
		})
		if err != nil {
			return err
		}
		if exported < len(ids) {
			return fmt.Errorf("exported %d of %d session(s), see log for failures", exported, len(ids))
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", exported, outputDir))
		return nil
	},
}

func exportRecord(exporter export.Exporter, rec *internal.SessionRecord, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(rec, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "tex", "Export format (tex, json, yaml, jsonl, md)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
}
