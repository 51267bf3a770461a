// Package main provides the entry point for the usher CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/sdk"
)

// newDevToolsCmd creates the devtools command.
func newDevToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devtools",
		Short: "Launch Dart DevTools",
		Long: `Launch Dart DevTools directly, outside the notification flow.

A direct launch does not count against the notification throttle.

Examples:
  usher devtools          # Launch DevTools detached
  usher devtools --json   # Report the launch as JSON`,
		RunE: runDevTools,
	}
}

// runDevTools executes the devtools command.
func runDevTools(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		printer.Error(err)
		return err
	}

	if err := sdk.New(cfg).StartDevTools(cmd.Context()); err != nil {
		printer.Error(err)
		return err
	}

	return printer.Success(map[string]any{
		"message":  "DevTools launched",
		"launched": true,
	})
}
