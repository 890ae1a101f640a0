package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/incidentops/graphmind/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "graphmind",
	Short: "graphmind - incident synthesis over a property graph",
	Long: `graphmind retrieves context from a property graph, augments it with
graph neighborhoods, and asks a language model to synthesize a structured
incident proposal.

Run "graphmind serve" to expose the pipeline over HTTP, or use "propose"
and "search" for one-shot invocations from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves the configuration for commands that need one.
func loadConfig() (*config.Config, error) {
	return config.LoadWithDefaults(configPath)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "graphmind.yaml",
		"Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(proposeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(versionCmd)
}
