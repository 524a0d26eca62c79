package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/config"
	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

var (
	dbPath     string
	configPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cricmetrics",
	Short: "Cricket entry-point metrics and tactical Q&A tool",
	Long:  "Turn ball-by-ball logs into per-player situational metrics and answer free-text selection questions grounded in them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel(cfg.LogLevel),
		})))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".cricmetrics", "metrics.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (falls back to $CRICMETRICS_CONFIG)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(phaseCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openDB() (*storage.DB, error) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadStore opens the database and rebuilds the in-memory store from it.
func loadStore() (*metrics.Store, func(), error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	store, err := db.LoadStore()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load store (run 'cricmetrics ingest' first?): %w", err)
	}
	return store, func() { db.Close() }, nil
}
