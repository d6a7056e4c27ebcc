package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

var newSessionID string

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session",
	Long: `Create an empty session and persist it. The session id is a random UUID
unless --id is given. Creating a session that already exists is a no-op.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		id := newSessionID
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.Background()
		found, err := internal.Hydrate(ctx, ws.store, ws.backend, id)
		if err != nil {
			return fmt.Errorf("failed to check session %s: %w", id, err)
		}
		if found {
			internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Session %s already exists", id))
		} else if err := ws.save(ctx, id); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newSessionID, "id", "", "Use this session id instead of a random one")
}
