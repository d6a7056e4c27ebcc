package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply <session-id> <update-file>",
	Short: "Apply structured updates to a session's résumé",
	Long: `Apply one update or a list of updates to the session's résumé. Updates are
read from a JSON or YAML file, or from stdin when the file is "-":

  - kind: set_personal_info
    args: {name: Ada Lovelace, email: ada@x.io}
  - kind: add_experience
    args: {company: Analytical Engines, title: Engineer}

Kinds: set_personal_info, add_experience, set_education, add_project,
set_skills, set_summary. Either all updates apply or none do.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, source := args[0], args[1]

		data, err := readSource(cmd.InOrStdin(), source)
		if err != nil {
			return err
		}
		updates, err := internal.ParseUpdates(data)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			internal.PrintWarning(cmd.ErrOrStderr(), "No updates found")
			return nil
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		ctx := context.Background()
		if _, err := internal.Hydrate(ctx, ws.store, ws.backend, id); err != nil {
			return fmt.Errorf("failed to load session %s: %w", id, err)
		}

		var applyErr error
		ws.store.UpdateDocument(id, func(doc *internal.Resume) {
			staged := doc.Clone()
			if applyErr = internal.ApplyUpdates(staged, updates); applyErr == nil {
				*doc = *staged
			}
		})
		if applyErr != nil {
			return applyErr
		}
		if err := ws.save(ctx, id); err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Applied %d update(s) to %s", len(updates), id))
		return nil
	},
}

// readSource reads a file, or r when path is "-".
func readSource(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
