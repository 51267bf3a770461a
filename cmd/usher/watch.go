// Package main provides the entry point for the usher CLI.
package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/logging"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/sdk"
	"github.com/gorewood/usher/internal/trigger"
	"github.com/gorewood/usher/internal/workspace"
)

// watchFlags holds the command-line flags for the watch command.
type watchFlags struct {
	verbose bool
	logFile string
}

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [folders...]",
		Short: "Watch folders and handle trigger files as they appear",
		Long: `Watch workspace folders and handle project trigger files the moment a
bootstrap tool drops one.

An initial scan handles trigger files that predate the watcher, then the
process stays resident until interrupted. Each handled trigger scaffolds
its project exactly once, the same as 'usher scan'.

Examples:
  usher watch                       # Watch the current directory
  usher watch ~/work a b            # Watch several folders
  usher watch --verbose             # Debug logging for marker events
  usher watch --log-file usher.log  # Rotated JSON logs instead of stderr
  usher watch --json                # Stream scan results as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Write rotated JSON logs to this file")

	return cmd
}

// runWatch executes the watch command.
func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
	logging.Setup(logging.Options{Verbose: flags.verbose, File: flags.logFile})

	cfg, err := config.Load()
	if err != nil {
		printer.Error(err)
		return err
	}

	ws, err := workspace.Discover(args)
	if err != nil {
		printer.Error(err)
		return err
	}

	// The watcher runs headless: messages stream through the printer and
	// prompts never arise, so the host is non-interactive.
	h := host.NewTerminal(printer, false, cfg.Editor.OpenCommand)
	watcher := trigger.NewWatcher(trigger.NewScanner(sdk.New(cfg), h), ws)
	watcher.OnScan = func(r trigger.ScanResult) {
		for _, res := range r.Results {
			if res.Err != "" {
				slog.Warn("marker failed", "folder", res.Folder, "marker", res.Marker, "error", res.Err)
				continue
			}
			slog.Info("marker handled", "folder", res.Folder, "marker", res.Marker)
		}
		if printer.IsJSON() && len(r.Results) > 0 {
			_ = printer.WriteJSON(r)
		}
	}

	printer.Stderr("Watching %d folder(s) for trigger files. Ctrl+C to stop.\n", len(ws.Folders))
	return watcher.Run(cmd.Context())
}
