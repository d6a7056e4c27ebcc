package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/resume-session/internal"
	"github.com/iksnae/resume-session/testutil"
)

func seedSessions(t *testing.T, dir string, ids ...string) {
	t.Helper()
	backend := internal.NewFileBackend(dir)
	for _, id := range ids {
		if err := backend.Save(context.Background(), *internal.CreateTestRecord(id)); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
}

func TestExportCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:    "export with invalid format",
			args:    []string{"--format", "invalid"},
			wantErr: true,
		},
		{
			name:      "default format is tex",
			wantFiles: []string{"session_s1.tex", "session_s2.tex"},
		},
		{
			name:      "markdown",
			args:      []string{"--format", "md"},
			wantFiles: []string{"session_s1.md", "session_s2.md"},
		},
		{
			name:      "single session as yaml",
			args:      []string{"-f", "yaml", "--session-id", "s2"},
			wantFiles: []string{"session_s2.yaml"},
		},
		{
			name:    "unknown session",
			args:    []string{"--session-id", "nope"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storageDir := filepath.Join(testutil.CreateTempDir(t), "sessions")
			seedSessions(t, storageDir, "s1", "s2")
			outDir := filepath.Join(testutil.CreateTempDir(t), "exports")

			args := append([]string{"export", "--backend", "file", "--storage", storageDir, "-o", outDir}, tt.args...)
			_, _, err := runCommand(t, "", args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("exportCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			entries, err := os.ReadDir(outDir)
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Name())
			}
			if strings.Join(got, ",") != strings.Join(tt.wantFiles, ",") {
				t.Errorf("exported files = %v, want %v", got, tt.wantFiles)
			}
		})
	}
}

func TestExportCommand_TexContent(t *testing.T) {
	storageDir := filepath.Join(testutil.CreateTempDir(t), "sessions")
	seedSessions(t, storageDir, "ada")
	outDir := testutil.CreateTempDir(t)

	if _, _, err := runCommand(t, "", "export", "--backend", "file", "--storage", storageDir, "-o", outDir); err != nil {
		t.Fatalf("export error = %v", err)
	}

	data := testutil.ReadFile(t, filepath.Join(outDir, "session_ada.tex"))
	for _, want := range []string{`\begin{document}`, "Ada Lovelace", `\section{Projects}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("exported tex should contain %q", want)
		}
	}
}

func TestExportCommand_NoSessions(t *testing.T) {
	storage := fileStorage(t)
	outDir := filepath.Join(testutil.CreateTempDir(t), "exports")

	_, stderr, err := runCommand(t, "", withStorage(storage, "export", "-o", outDir)...)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(stderr, "No sessions to export") {
		t.Errorf("stderr = %q, want warning", stderr)
	}
}
