package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/resume-session/internal"
	"github.com/iksnae/resume-session/testutil"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "version flag",
			args:       []string{"--version"},
			wantOutput: "dev (commit: unknown",
		},
		{
			name:       "help flag",
			args:       []string{"--help"},
			wantOutput: "Quick Start",
		},
		{
			name:    "nonexistent command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
		{
			name:    "unsupported backend",
			args:    []string{"list", "--backend", "postgres"},
			wantErr: true,
		},
		{
			name:    "missing config file",
			args:    []string{"list", "--config", "/nonexistent/config.yaml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCommand(t, "", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantOutput != "" && !strings.Contains(stdout, tt.wantOutput) {
				t.Errorf("output should contain %q, got:\n%s", tt.wantOutput, stdout)
			}
		})
	}
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	configFile := testutil.CreateConfigFixture(t, dir, "sqlite")

	resetFlags(rootCmd)
	configPath = configFile
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Backend != internal.BackendSQLite || cfg.SQLite.Path != filepath.Join(dir, "sessions.db") {
		t.Errorf("loadConfig() = %+v, want sqlite config from file", cfg)
	}

	backendName = "file"
	storagePath = filepath.Join(dir, "elsewhere")
	redisAddr = "redis://cache:6379"
	cfg, err = loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Backend != internal.BackendFile {
		t.Errorf("Backend = %v, want file", cfg.Backend)
	}
	if cfg.File.Dir != storagePath {
		t.Errorf("File.Dir = %v, want %v", cfg.File.Dir, storagePath)
	}
	if cfg.Redis.Addr != "redis://cache:6379" {
		t.Errorf("Redis.Addr = %v, want redis://cache:6379", cfg.Redis.Addr)
	}
	resetFlags(rootCmd)
}

func TestShowUnknownSession(t *testing.T) {
	storage := fileStorage(t)
	_, _, err := runCommand(t, "", withStorage(storage, "show", "missing")...)
	if !errors.Is(err, internal.ErrSessionNotFound) {
		t.Errorf("show error = %v, want ErrSessionNotFound", err)
	}
}
