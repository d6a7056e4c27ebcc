package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

var sayRole string

// sayCmd represents the say command
var sayCmd = &cobra.Command{
	Use:   "say <session-id> <text>...",
	Short: "Append a message to a session",
	Long: `Append one message to the session's conversation. The session is created
if it does not exist yet.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		content := strings.Join(args[1:], " ")

		switch sayRole {
		case "user", "human", "assistant", "ai":
		default:
			return fmt.Errorf("invalid --role %q (expected user or assistant)", sayRole)
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
		ws.store.AppendMessage(id, internal.RawFromRole(sayRole, content))
		if err := ws.save(ctx, id); err != nil {
			return err
		}

		internal.LogInfo("Appended %s message to %s", sayRole, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sayCmd)
	sayCmd.Flags().StringVarP(&sayRole, "role", "r", "user", "Speaker of the message (user or assistant)")
}
