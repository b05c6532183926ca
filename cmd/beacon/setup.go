package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/beacon/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create beacon configuration file",
	Long: `Create a beacon configuration file with sensible defaults.

By default, creates a global config at ~/.config/beacon/beacon.yml.
Use --project to create a project-local config in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	// The loaded config already carries defaults, env and flag overrides.
	out := setupConfig(cfg)

	var err error
	if setupFlags.project {
		err = config.WriteProject(out)
	} else {
		err = config.WriteGlobal(out)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n\n", targetPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'beacon create' to post your first beacon.")
	return nil
}

// setupConfig returns the values written by setup. Secrets such as the
// database URL are left to the environment.
func setupConfig(c *config.Config) *config.Config {
	out := *c
	out.DatabaseURL = ""
	return &out
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
