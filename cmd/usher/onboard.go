// Package main provides the entry point for the usher CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/output"
)

// Onboard snippet templates - both targets use the same content currently.
const onboardSnippet = `## Workspace Activation

This project uses **usher** to greet Dart and Flutter workspaces.
Run ` + "`usher activate`" + ` after opening a workspace, or wire ` + "`usher serve`" + ` into MCP settings for tool access.

**Quick reference:**
- ` + "`usher status`" + ` - Inspect activation state and pending prompts
- ` + "`usher scan`" + ` - Handle project trigger files now
- ` + "`usher reset --all`" + ` - Clear activation state when testing

For health checks: ` + "`usher doctor`"

// newOnboardCmd creates the onboard command.
func newOnboardCmd() *cobra.Command {
	var formatFlag string
	var targetFlag string

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Output a minimal snippet for CLAUDE.md or AGENTS.md",
		Long: `Output a minimal onboarding snippet for agent instruction files.

The snippet gives agents just enough context to reach for usher's
commands, keeping instruction files short.

Examples:
  usher onboard                    # Output markdown snippet for CLAUDE.md
  usher onboard --target agents    # Output snippet for AGENTS.md
  usher onboard --json             # Output snippet wrapped in JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnboard(cmd, formatFlag, targetFlag)
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "md", "Output format: md (default), json")
	cmd.Flags().StringVar(&targetFlag, "target", "claude", "Target file: claude (default), agents")
	return cmd
}

// runOnboard executes the onboard command.
func runOnboard(cmd *cobra.Command, formatFlag, targetFlag string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	// Validate target flag
	if targetFlag != "claude" && targetFlag != "agents" {
		err := output.NewUserError("invalid target: must be 'claude' or 'agents'")
		printer.Error(err)
		return err
	}

	// Validate format flag
	if formatFlag != "md" && formatFlag != "json" {
		err := output.NewUserError("invalid format: must be 'md' or 'json'")
		printer.Error(err)
		return err
	}

	// JSON output (either --json flag or --format json)
	if printer.IsJSON() || formatFlag == "json" {
		return printer.WriteJSON(map[string]string{
			"target":  targetFlag,
			"format":  formatFlag,
			"snippet": onboardSnippet,
		})
	}

	// Human-readable: just output the snippet directly
	printer.Println(onboardSnippet)
	return nil
}
