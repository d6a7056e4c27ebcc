package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/iksnae/resume-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	backendName string
	storagePath string
	redisAddr   string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "resume-session",
	Short: "Keep résumé-building conversations and render them to LaTeX",
	Long: `A CLI for the session layer of a conversational résumé builder.

Each session keeps the conversation with the user and the structured résumé
assembled from it. Sessions are persisted to a configurable backend
(memory, file, sqlite or redis) and can be rendered to a LaTeX document or
exported in several formats (tex, json, yaml, jsonl, md).

Quick Start:
  resume-session new                          # Start a session
  resume-session say <id> "Hi, I'm Ada"       # Record a message
  resume-session apply <id> updates.yaml      # Apply structured updates
  resume-session render <id> -o resume.tex    # Render the résumé`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		level, err := internal.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		internal.SetLogLevel(level)
		internal.SetVerbose(verbose)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if backendName != "" {
		cfg.Backend = backendName
	}
	if redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if storagePath != "" {
		switch cfg.Backend {
		case internal.BackendFile:
			cfg.File.Dir = storagePath
		case internal.BackendSQLite:
			cfg.SQLite.Path = storagePath
		default:
			internal.LogWarn("--storage has no effect for the %s backend", cfg.Backend)
		}
	}
	return cfg, nil
}

// workspace bundles what every session command needs: the configuration,
// an opened backend and a store to hydrate sessions into.
type workspace struct {
	cfg     *internal.Config
	backend internal.Backend
	store   *internal.Store
}

func openWorkspace() (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	backend, err := internal.NewBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	internal.LogDebug("Using %s backend", backend.Name())
	return &workspace{
		cfg:     cfg,
		backend: backend,
		store:   internal.NewStore(cfg.StoreOptions()...),
	}, nil
}

func (w *workspace) Close() {
	if err := w.backend.Close(); err != nil {
		internal.LogWarn("Failed to close %s backend: %v", w.backend.Name(), err)
	}
}

// load hydrates an existing session, failing when nothing is persisted under id.
func (w *workspace) load(ctx context.Context, id string) error {
	found, err := internal.Hydrate(ctx, w.store, w.backend, id)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if !found {
		w.store.Evict(id)
		return fmt.Errorf("%w: %s (use 'resume-session list' to see available sessions)", internal.ErrSessionNotFound, id)
	}
	return nil
}

func (w *workspace) save(ctx context.Context, id string) error {
	if err := internal.Persist(ctx, w.store, w.backend, id); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Storage backend (memory, file, sqlite, redis)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (database file for sqlite, directory for file)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Redis address or redis:// URI")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
