// Package main provides the entry point for the usher CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/sdk"
	"github.com/gorewood/usher/internal/trigger"
	"github.com/gorewood/usher/internal/workspace"
)

// scanReport is the JSON shape of a scan run.
type scanReport struct {
	Results   []trigger.MarkerResult `json:"results"`
	Messages  []string               `json:"messages,omitempty"`
	Errors    []string               `json:"errors,omitempty"`
	OpenFiles []string               `json:"open_files,omitempty"`
}

// newScanCmd creates the scan command.
func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [folders...]",
		Short: "Handle project trigger files in workspace folders",
		Long: `Scan workspace folders for project trigger files and handle them.

Trigger files are how bootstrap tools hand a half-created project over to
the editor. Three files are recognized in a folder root:

  dart.create      JSON descriptor; scaffolds a Dart project from a
                   template, fetches packages, opens the entry point
  dart.stagehand   legacy name for dart.create, same format
  flutter.create   optional sample id; scaffolds a Flutter project

Handled trigger files are deleted so the project is created exactly once.

Examples:
  usher scan                # Scan the current directory
  usher scan ~/work/app     # Scan a specific folder
  usher scan --json         # Machine-readable scan report`,
		RunE: runScan,
	}
}

// runScan executes the scan command.
func runScan(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())

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

	h, rec := activationHost(cmd, printer, cfg)
	result := trigger.NewScanner(sdk.New(cfg), h).ScanAll(cmd.Context(), ws)

	if printer.IsJSON() {
		report := scanReport{Results: result.Results}
		if rec != nil {
			report.Messages = rec.Messages()
			report.Errors = rec.ErrorMessages()
			report.OpenFiles = rec.OpenedFiles()
		}
		return printer.WriteJSON(report)
	}

	if len(result.Results) == 0 {
		printer.Stderr("No project trigger files found.\n")
	}
	return nil
}
