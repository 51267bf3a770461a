// Package main provides the entry point for the usher CLI.
package main

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/usher/internal/companion"
	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/gate"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/state"
	"github.com/gorewood/usher/internal/workspace"
)

// statusResult holds the data for status output.
type statusResult struct {
	Version        string                   `json:"version"`
	StateFile      string                   `json:"state_file"`
	StateExists    bool                     `json:"state_exists"`
	ConfigFile     string                   `json:"config_file"`
	ConfigExists   bool                     `json:"config_exists"`
	PromptsSeen    []string                 `json:"prompts_seen,omitempty"`
	PendingPrompts []string                 `json:"pending_prompts,omitempty"`
	DevTools       devToolsStatusResult     `json:"devtools"`
	Companion      companion.Status         `json:"companion"`
	Folders        []workspace.FolderReport `json:"folders"`
}

// devToolsStatusResult describes the notification throttle for status output.
type devToolsStatusResult struct {
	ShownCount int    `json:"shown_count"`
	LastShown  string `json:"last_shown,omitempty"`
	NoRepeat   bool   `json:"no_repeat"`
	Eligible   bool   `json:"eligible"`
	Reason     string `json:"reason,omitempty"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [folders...]",
		Short: "Show activation state and workspace info",
		Long: `Show the persisted activation state and what usher sees in the
workspace.

Displays the state file location, which one-time prompts have been
resolved, the DevTools notification throttle, companion extension
presence, and the Flutter projects detected in each folder.

Examples:
  usher status            # Status for the current directory
  usher status ~/work     # Status for a specific folder
  usher status --json     # Output status as JSON for scripting`,
		RunE: runStatus,
	}
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())

	result, err := gatherStatus(args)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		data := map[string]any{
			"version":         result.Version,
			"state_file":      result.StateFile,
			"state_exists":    result.StateExists,
			"config_file":     result.ConfigFile,
			"config_exists":   result.ConfigExists,
			"prompts_seen":    result.PromptsSeen,
			"pending_prompts": result.PendingPrompts,
			"devtools":        result.DevTools,
			"companion":       result.Companion,
			"folders":         result.Folders,
		}
		data["suggested_commands"] = []string{"usher activate"}
		return printer.Success(data)
	}

	printHumanStatus(printer, result)
	return nil
}

// gatherStatus collects all status information.
func gatherStatus(folders []string) (*statusResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store := state.NewStore(state.Dir())
	s, err := store.Load()
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(store.Path())

	_, cfgStatErr := os.Stat(config.Path())

	ws, err := workspace.Discover(folders)
	if err != nil {
		return nil, err
	}
	report := ws.Inspect(cfg.Scan.MaxDepth)

	detector := companion.NewDetector(cfg.Editor.ExtensionsDir)
	g := gate.New(gate.Options{
		Store:     store,
		Host:      host.NewRecorder(),
		Version:   version,
		Workspace: report,
		Companion: detector,
	})
	pending, err := g.PendingPrompts()
	if err != nil {
		return nil, err
	}
	pendingIDs := make([]string, 0, len(pending))
	for _, p := range pending {
		pendingIDs = append(pendingIDs, p.ID)
	}

	eligible, reason := gate.DevToolsEligible(s.DevTools, time.Now())
	devtools := devToolsStatusResult{
		ShownCount: s.DevTools.ShownCount,
		NoRepeat:   s.DevTools.NoRepeat,
		Eligible:   eligible,
		Reason:     reason,
	}
	if last := s.DevTools.LastShownTime(); !last.IsZero() {
		devtools.LastShown = last.UTC().Format(time.RFC3339)
	}

	return &statusResult{
		Version:        version,
		StateFile:      store.Path(),
		StateExists:    statErr == nil,
		ConfigFile:     config.Path(),
		ConfigExists:   cfgStatErr == nil,
		PromptsSeen:    seenPrompts(s),
		PendingPrompts: pendingIDs,
		DevTools:       devtools,
		Companion:      detector.Check(),
		Folders:        report.Folders,
	}, nil
}

// seenPrompts returns the resolved prompt ids in stable order.
func seenPrompts(s *state.State) []string {
	var ids []string
	for id, seen := range s.Prompts {
		if seen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// printHumanStatus outputs status in human-readable format.
func printHumanStatus(printer *output.Printer, status *statusResult) {
	printer.Section("Usher")
	printer.KeyValue("Version", status.Version)
	printer.KeyValue("State file", status.StateFile+existsSuffix(status.StateExists))
	printer.KeyValue("Config file", status.ConfigFile+existsSuffix(status.ConfigExists))

	printer.Section("Prompts")
	printer.KeyValue("Seen", joinOrNone(status.PromptsSeen))
	printer.KeyValue("Pending", joinOrNone(status.PendingPrompts))

	printer.Section("DevTools Notification")
	printer.KeyValue("Shown", strconv.Itoa(status.DevTools.ShownCount)+" time(s)")
	lastShown := status.DevTools.LastShown
	if lastShown == "" {
		lastShown = "never"
	}
	printer.KeyValue("Last shown", lastShown)
	printer.KeyValue("Opted out", formatBool(status.DevTools.NoRepeat))
	eligible := formatBool(status.DevTools.Eligible)
	if status.DevTools.Reason != "" {
		eligible += " (" + status.DevTools.Reason + ")"
	}
	printer.KeyValue("Eligible now", eligible)

	printer.Section("Companion Extension")
	printer.KeyValue("Extensions dir", status.Companion.Dir)
	installed := formatBool(status.Companion.Found)
	if status.Companion.Extension != "" {
		installed += " (" + status.Companion.Extension + ")"
	}
	printer.KeyValue("Installed", installed)

	printer.Section("Workspace")
	for _, folder := range status.Folders {
		value := "no Flutter project"
		if folder.FlutterProject != "" {
			value = "Flutter project at " + folder.FlutterProject
		}
		printer.KeyValue(folder.Name, value)
	}
}

// existsSuffix annotates a path with its presence on disk.
func existsSuffix(exists bool) string {
	if exists {
		return ""
	}
	return " (not created yet)"
}

// joinOrNone renders a possibly empty id list.
func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

// formatBool returns a human-readable boolean string.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
