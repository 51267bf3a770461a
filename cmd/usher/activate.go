// Package main provides the entry point for the usher CLI.
package main

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/companion"
	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/gate"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/sdk"
	"github.com/gorewood/usher/internal/state"
	"github.com/gorewood/usher/internal/trigger"
	"github.com/gorewood/usher/internal/workspace"
)

// activateFlags holds the command-line flags for the activate command.
type activateFlags struct {
	noPrompts  bool
	noDevTools bool
	noScan     bool
}

// activationResult aggregates what a single activation run did.
type activationResult struct {
	Prompt    gate.PromptOutcome     `json:"prompt"`
	DevTools  gate.DevToolsOutcome   `json:"devtools"`
	Markers   []trigger.MarkerResult `json:"markers,omitempty"`
	Messages  []string               `json:"messages,omitempty"`
	Errors    []string               `json:"errors,omitempty"`
	OpenFiles []string               `json:"open_files,omitempty"`
	OpenURLs  []string               `json:"open_urls,omitempty"`
}

// newActivateCmd creates the activate command.
func newActivateCmd() *cobra.Command {
	flags := &activateFlags{}

	cmd := &cobra.Command{
		Use:   "activate [folders...]",
		Short: "Run the workspace activation sequence",
		Long: `Run the full activation sequence for a workspace, the way an editor
does when it opens one.

The sequence runs three phases in order:
  1. Startup prompts  - at most one one-time prompt (companion extension
                        recommendation, then release notes after an upgrade)
  2. DevTools         - the rate-limited DevTools discovery notification
  3. Trigger scan     - handle dart.create, dart.stagehand, and
                        flutter.create files in each workspace folder

With no folder arguments the current directory is the workspace.

Examples:
  usher activate                   # Activate the current directory
  usher activate ~/work/app        # Activate a specific folder
  usher activate --no-scan         # Prompts only, skip trigger files
  usher activate --json            # Machine-readable activation report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivate(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.noPrompts, "no-prompts", false, "Skip startup prompts")
	cmd.Flags().BoolVar(&flags.noDevTools, "no-devtools", false, "Skip the DevTools notification")
	cmd.Flags().BoolVar(&flags.noScan, "no-scan", false, "Skip the project trigger scan")

	return cmd
}

// runActivate executes the activate command.
func runActivate(cmd *cobra.Command, args []string, flags *activateFlags) error {
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
	report := ws.Inspect(cfg.Scan.MaxDepth)

	h, rec := activationHost(cmd, printer, cfg)
	runner := sdk.New(cfg)
	g := newActivationGate(cfg, h, report, runner)

	ctx := cmd.Context()
	result := activationResult{}
	if !flags.noPrompts && !cfg.Prompts.Disabled {
		result.Prompt = g.ShowStartupPrompts(ctx)
	}
	if !flags.noDevTools && !cfg.Prompts.Disabled {
		result.DevTools = g.OfferDevTools(ctx)
	}
	if !flags.noScan {
		result.Markers = trigger.NewScanner(runner, h).ScanAll(ctx, ws).Results
	}

	if printer.IsJSON() {
		if rec != nil {
			result.Messages = rec.Messages()
			result.Errors = rec.ErrorMessages()
			result.OpenFiles = rec.OpenedFiles()
			result.OpenURLs = rec.OpenedURLs()
		}
		return printer.WriteJSON(result)
	}

	// Human mode already rendered prompts and messages through the host;
	// a quiet activation stays quiet.
	return nil
}

// activationHost picks the host surface for this run. JSON mode records
// everything for the structured report; human mode talks through the
// terminal, interactively when both stdin and stdout are terminals.
func activationHost(cmd *cobra.Command, printer *output.Printer, cfg *config.Config) (host.Host, *host.Recorder) {
	if printer.IsJSON() {
		rec := host.NewRecorder()
		return rec, rec
	}
	interactive := output.IsTTY(os.Stdin) && output.IsTTY(cmd.OutOrStdout())
	return host.NewTerminal(printer, interactive, cfg.Editor.OpenCommand), nil
}

// newActivationGate wires a gate with the editor-CLI installer and the
// DevTools launcher.
func newActivationGate(cfg *config.Config, h host.Host, report workspace.Report, runner *sdk.SDK) *gate.Gate {
	return gate.New(gate.Options{
		Store:            state.NewStore(state.Dir()),
		Host:             h,
		Version:          version,
		Workspace:        report,
		Companion:        companion.NewDetector(cfg.Editor.ExtensionsDir),
		InstallCompanion: companionInstaller(),
		LaunchDevTools:   runner.StartDevTools,
	})
}

// companionInstaller returns an install func backed by the editor CLI, or
// nil when the code CLI is not on PATH so the gate falls back to opening
// the marketplace page.
func companionInstaller() func(ctx context.Context) error {
	path, err := exec.LookPath("code")
	if err != nil {
		return nil
	}
	return func(ctx context.Context) error {
		c := exec.CommandContext(ctx, path, "--install-extension", companion.ExtensionID)
		if out, runErr := c.CombinedOutput(); runErr != nil {
			msg := strings.TrimSpace(string(out))
			if msg == "" {
				msg = runErr.Error()
			}
			return output.NewToolErrorWithCause("extension install failed: "+msg, runErr)
		}
		return nil
	}
}
