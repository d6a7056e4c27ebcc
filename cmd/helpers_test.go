package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iksnae/resume-session/testutil"
)

// resetFlags restores every flag of every command to its default, since
// cobra keeps parsed values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCommand executes the root command with args and returns stdout and stderr.
func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// fileStorage returns the global flags selecting a fresh file backend.
func fileStorage(t *testing.T) []string {
	t.Helper()
	return []string{"--backend", "file", "--storage", filepath.Join(testutil.CreateTempDir(t), "sessions")}
}

func withStorage(storage []string, args ...string) []string {
	return append(append([]string{}, args...), storage...)
}
