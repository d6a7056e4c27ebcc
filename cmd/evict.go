package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

var (
	pruneTTL    time.Duration
	pruneDryRun bool
)

// evictCmd represents the evict command
var evictCmd = &cobra.Command{
	Use:   "evict <session-id>...",
	Short: "Delete sessions",
	Long:  `Delete sessions and everything they hold from the configured backend.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		ctx := context.Background()
		var missing []string
		for _, id := range args {
			// Unreadable records still exist and can be deleted.
			if _, err := ws.backend.Load(ctx, id); errors.Is(err, internal.ErrSessionNotFound) {
				internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Session %s not found", id))
				missing = append(missing, id)
				continue
			}
			ws.store.Evict(id)
			if err := ws.backend.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete session %s: %w", id, err)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Evicted %s", id))
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", internal.ErrSessionNotFound, strings.Join(missing, ", "))
		}
		return nil
	},
}

// pruneCmd represents the prune command
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions idle for longer than the TTL",
	Long: `Delete every session whose last update is older than the TTL. The TTL
comes from --ttl, or from the ttl config setting / RESUME_SESSION_TTL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.Close()

		ttl := ws.cfg.TTL
		if pruneTTL > 0 {
			ttl = pruneTTL
		}
		if ttl <= 0 {
			return fmt.Errorf("no TTL configured (use --ttl or set ttl in the config)")
		}

		ctx := context.Background()
		store := internal.NewStore(internal.WithTTL(ttl))
		if err := internal.HydrateAll(ctx, store, ws.backend); err != nil {
			return fmt.Errorf("failed to load sessions: %w", err)
		}

		expired := store.EvictExpired()
		for _, id := range expired {
			if pruneDryRun {
				internal.PrintInfo(cmd.OutOrStdout(), fmt.Sprintf("Would evict %s", id))
				continue
			}
			if err := ws.backend.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete session %s: %w", id, err)
			}
			internal.LogInfo("Pruned session %s", id)
		}

		verb := "Pruned"
		if pruneDryRun {
			verb = "Would prune"
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s %d of %d session(s)", verb, len(expired), len(expired)+store.Len()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evictCmd)
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().DurationVar(&pruneTTL, "ttl", 0, "Idle lifetime, e.g. 720h (overrides the config)")
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "List the sessions that would be deleted without deleting them")
}
