package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"minitasks/internal/api"
	"minitasks/internal/config"
	"minitasks/internal/logging"
	"minitasks/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "minitasks",
	Short: "minitasks - session-scoped to-do list service",
	Long: `minitasks serves a multi-tenant to-do list over HTTP.

Each browser/device generates its own opaque session identifier, and every
task is visible and mutable only to the session that created it. Tasks are
persisted in SQLite; the embedded browser client is served at /app/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Init(level, cfg.Logging.Format); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the server.
		return runServe()
	},
}

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// configInitCmd writes the default configuration to disk
var configInitCmd = &cobra.Command{
	Use:   "config-init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", configPath)
		return nil
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.DefaultConfig().Version)
	},
}

func runServe() error {
	log := logging.Get(logging.CategoryBoot)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	taskStore, err := store.New(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	defer taskStore.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting minitasks",
		zap.String("version", cfg.Version),
		zap.String("addr", cfg.Addr()),
		zap.String("db", cfg.Store.DatabasePath))

	server := api.NewServer(cfg, taskStore)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("Shutdown complete")
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "minitasks.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
