package cmd

import (
	"context"
	"encoding/json"

	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

var (
	newestFirst bool
	historyJSON bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Print the normalized conversation of a session",
	Long: `Print every stored message of a session with its role normalized to
human or assistant, whatever shape it was stored in.`,
	Args: cobra.ExactArgs(1),
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

		order := internal.Chronological
		if newestFirst {
			order = internal.ReverseChronological
		}
		messages := ws.store.ReadMessages(id, order)

		if historyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, msg := range messages {
				if err := enc.Encode(msg); err != nil {
					return err
				}
			}
			return nil
		}

		displayMessages(cmd.OutOrStdout(), messages, 0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&newestFirst, "newest-first", false, "List the most recent message first")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print one JSON object per message")
}
