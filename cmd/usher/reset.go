// Package main provides the entry point for the usher CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/state"
)

// resetFlags holds the command-line flags for the reset command.
type resetFlags struct {
	prompt   string
	devtools bool
	all      bool
}

// newResetCmd creates the reset command.
func newResetCmd() *cobra.Command {
	flags := &resetFlags{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear persisted activation state",
		Long: `Clear persisted activation state so notifications can show again.

One-time prompts are remembered forever once resolved. The DevTools
notification tracks a display count, a last-shown timestamp, and an
opt-out flag. Reset clears a single prompt, the DevTools throttle, or
everything.

Examples:
  usher reset --prompt flutter-companion  # Re-offer one prompt
  usher reset --devtools                  # Clear the notification throttle
  usher reset --all                       # Start from a clean state`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReset(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "Prompt id to clear")
	cmd.Flags().BoolVar(&flags.devtools, "devtools", false, "Clear the DevTools notification throttle")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Clear all activation state")

	return cmd
}

// runReset executes the reset command.
func runReset(cmd *cobra.Command, flags *resetFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())

	selected := 0
	if flags.prompt != "" {
		selected++
	}
	if flags.devtools {
		selected++
	}
	if flags.all {
		selected++
	}
	if selected != 1 {
		err := output.NewUserError("specify exactly one of --prompt <id>, --devtools, or --all")
		printer.Error(err)
		return err
	}

	store := state.NewStore(state.Dir())

	var cleared string
	switch {
	case flags.all:
		// A full reset overwrites the file, which also recovers a corrupt one.
		if err := store.Save(state.New()); err != nil {
			printer.Error(err)
			return err
		}
		cleared = "all activation state"
	case flags.devtools:
		if _, err := store.Update(func(s *state.State) { s.DevTools = state.DevToolsState{} }); err != nil {
			printer.Error(err)
			return err
		}
		cleared = "DevTools notification throttle"
	default:
		if _, err := store.Update(func(s *state.State) { s.ClearPrompt(flags.prompt) }); err != nil {
			printer.Error(err)
			return err
		}
		cleared = "prompt " + flags.prompt
	}

	return printer.Success(map[string]any{
		"message":    "Cleared " + cleared,
		"state_file": store.Path(),
	})
}
