// Package main provides the entry point for the usher CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
// Commands read the flag instead of sharing a global, so each stays
// independently testable.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		// Walk up to root to find the persistent flag
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves the --color persistent flag against TTY detection.
func useColor(cmd *cobra.Command) bool {
	mode := "auto"
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the usher CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usher",
		Short: "Editor activation companion for Dart and Flutter workspaces",
		Long: `Usher - the activation companion that greets Dart and Flutter workspaces.

Usher runs when an editor workspace opens and takes care of first-contact

  - Offering the Flutter companion extension when a Flutter project is open
  - Pointing at the release notes once after each upgrade
  - Surfacing Dart DevTools without nagging (rate-limited, opt-out)
  - Scanning folders for project trigger files and scaffolding projects

Every prompt is one-shot: answer it once and usher never asks again.
All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// If --json flag is set but no subcommand, output JSON error
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'usher --help' for usage")
				printer.Error(err)
				return err
			}
			// Otherwise show help
			return cmd.Help()
		},
	}

	// Load .env.local (then .env) so editor integrations can hand usher
	// settings that are awkward to export globally. Environment variables
	// already set always take precedence.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	// Persistent flags available to all subcommands
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	// Define command groups and add commands
	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. Variables already set in
// the environment always win.
//
// Resolution order:
//  1. $CWD/.env.local   (per-workspace override, gitignored)
//  2. $CWD/.env         (per-workspace)
//  3. ~/.config/usher/env (global fallback)
func loadEnvFiles() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if dir := config.Dir(); dir != "" {
		_ = godotenv.Load(filepath.Join(dir, "env"))
	}
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "activation", Title: "Activation Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "workspace", Title: "Workspace Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	// Activation commands: activate, devtools
	addGroupedCommand(cmd, newActivateCmd(), "activation")
	addGroupedCommand(cmd, newDevToolsCmd(), "activation")

	// Workspace commands: scan, watch, status
	addGroupedCommand(cmd, newScanCmd(), "workspace")
	addGroupedCommand(cmd, newWatchCmd(), "workspace")
	addGroupedCommand(cmd, newStatusCmd(), "workspace")

	// Agent commands: serve, onboard
	addGroupedCommand(cmd, newServeCmd(), "agent")
	addGroupedCommand(cmd, newOnboardCmd(), "agent")

	// Admin commands: reset, doctor
	addGroupedCommand(cmd, newResetCmd(), "admin")
	addGroupedCommand(cmd, newDoctorCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
