package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	http bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve beacon tools over the Model Context Protocol",
	Long: `Run an MCP server exposing the beacon schemas and validator, and with the
nats backend, tools to create, list and fetch beacons.

Serves stdio by default. With --http, listens on a random local port and
prints the endpoint URL until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpFlags.http, "http", false, "Serve streamable HTTP on localhost instead of stdio")
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("Failed to close backend: %v", err)
		}
	}()
	if b.Store == nil {
		logger.Info("Backend %s has no beacon log, serving read-only tools", cfg.Backend)
	}

	srv := mcpserver.New(b.Store, cfg.Author)
	if !mcpFlags.http {
		return srv.ServeStdio()
	}

	if _, err := srv.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			logger.Warn("Failed to stop MCP server: %v", err)
		}
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving beacon tools at %s\n", srv.URL())

	<-ctx.Done()
	return nil
}
