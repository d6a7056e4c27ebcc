package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/resume-session/testutil"
)

func TestHealthcheckCommandExists(t *testing.T) {
	// Verify healthcheck command is registered
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "healthcheck" {
			found = true
			break
		}
	}

	if !found {
		t.Error("healthcheck command not found in root command")
	}
}

func TestHealthcheckCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       func(t *testing.T) []string
		wantErr    bool
		wantOutput []string
	}{
		{
			name: "file backend",
			args: func(t *testing.T) []string {
				return fileStorage(t)
			},
			wantOutput: []string{"file backend initialized", "Backend reachable", "No sessions found", "Health check passed"},
		},
		{
			name: "sqlite backend with sessions",
			args: func(t *testing.T) []string {
				dir := testutil.CreateTempDir(t)
				path := filepath.Join(dir, "sessions.db")
				_, _, err := runCommand(t, "", "new", "--id", "one", "--backend", "sqlite", "--storage", path)
				if err != nil {
					t.Fatalf("new error = %v", err)
				}
				return []string{"--backend", "sqlite", "--storage", path, "-v"}
			},
			wantOutput: []string{"sqlite backend initialized", "Database:", "[1] one (0 message(s))", "Found 1 session(s)"},
		},
		{
			name: "memory backend warns",
			args: func(t *testing.T) []string {
				return []string{"--backend", "memory"}
			},
			wantOutput: []string{"does not persist"},
		},
		{
			name: "unreadable session",
			args: func(t *testing.T) []string {
				storage := fileStorage(t)
				dir := storage[3]
				seedSessions(t, dir, "broken")
				testutil.WriteFile(t, filepath.Join(dir, "session_broken.json"), []byte("{not json"))
				return storage
			},
			wantErr:    true,
			wantOutput: []string{"Session broken is unreadable", "Health check failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"healthcheck"}, tt.args(t)...)
			stdout, _, err := runCommand(t, "", args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("healthcheck error = %v, wantErr %v\n%s", err, tt.wantErr, stdout)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(stdout, want) {
					t.Errorf("output should contain %q, got:\n%s", want, stdout)
				}
			}
		})
	}
}
