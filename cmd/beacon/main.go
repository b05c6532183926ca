package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/beacon/internal/config"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▄▄ █▀▀ ▄▀█ █▀▀ █▀█ █▄ █"
	logoText2 = "█▄█ ██▄ █▀█ █▄▄ █▄█ █ ▀█"
)

// Version set via ldflags during build
var version = "dev"

// Global flags override the loaded config.
var globalFlags struct {
	backend  string
	dataDir  string
	logLevel string
}

// cfg is loaded before any subcommand runs.
var cfg *config.Config

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "beacon",
	Short:             "Create and publish collaborative side-project beacons",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

beacon walks you through posting a side-project you want collaborators for:
pick a project type, describe it, fill in the type-specific details and
publish. Beacons and drafts live in an embedded NATS JetStream log, or in a
PostgreSQL projects table with --backend postgres.`

	rootCmd.PersistentFlags().StringVar(&globalFlags.backend, "backend", "", "Storage backend: nats or postgres (default from config)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.dataDir, "data-dir", "", "Data directory for NATS storage (default from config)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(draftsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(mcpCmd)
}

// loadConfig loads the config, applies flag overrides and configures logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if globalFlags.backend != "" {
		loaded.Backend = globalFlags.backend
	}
	if globalFlags.dataDir != "" {
		loaded.DataDir = globalFlags.dataDir
	}
	if globalFlags.logLevel != "" {
		loaded.LogLevel = globalFlags.logLevel
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Configure(loaded.LogLevel, loaded.LogFile); err != nil {
		return err
	}
	cfg = loaded
	logger.Debug("Loaded config: backend=%s data_dir=%s", cfg.Backend, cfg.DataDir)
	return nil
}
