package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/usher/internal/companion"
	"github.com/gorewood/usher/internal/gate"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/trigger"
	"github.com/gorewood/usher/internal/workspace"
)

// --- Shared types ---

// PromptInfo is a prompt in wire form.
type PromptInfo struct {
	ID      string       `json:"id"             jsonschema:"prompt identifier"`
	Title   string       `json:"title"          jsonschema:"prompt title"`
	Body    string       `json:"body"           jsonschema:"prompt body text"`
	Hint    string       `json:"hint,omitempty" jsonschema:"optional dimmed hint line"`
	Options []OptionInfo `json:"options"        jsonschema:"choices to offer, in order"`
}

// OptionInfo is one selectable answer of a prompt.
type OptionInfo struct {
	Label  string `json:"label"  jsonschema:"button label"`
	Choice string `json:"choice" jsonschema:"choice value to pass back on selection"`
}

// --- Scan tool ---

// ScanInput is the input for the scan tool.
type ScanInput struct {
	Folders []string `json:"folders,omitempty" jsonschema:"workspace folders to scan (default: current directory)"`
}

// ScanOutput is the output for the scan tool.
type ScanOutput struct {
	Results   []trigger.MarkerResult `json:"results"              jsonschema:"handled markers"`
	Messages  []string               `json:"messages,omitempty"   jsonschema:"informational messages to show the user"`
	Errors    []string               `json:"errors,omitempty"     jsonschema:"error notifications to show the user"`
	OpenFiles []string               `json:"open_files,omitempty" jsonschema:"files the editor should open"`
}

func handleScan(deps Deps) mcp.ToolHandlerFor[ScanInput, ScanOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ScanInput) (*mcp.CallToolResult, ScanOutput, error) {
		ws, err := workspace.Discover(input.Folders)
		if err != nil {
			return nil, ScanOutput{}, fmt.Errorf("resolving folders: %w", err)
		}

		rec := host.NewRecorder()
		result := trigger.NewScanner(deps.Creator, rec).ScanAll(ctx, ws)

		return nil, ScanOutput{
			Results:   result.Results,
			Messages:  rec.Messages(),
			Errors:    rec.ErrorMessages(),
			OpenFiles: rec.OpenedFiles(),
		}, nil
	}
}

// --- Status tool ---

// StatusInput is the input for the status tool.
type StatusInput struct {
	Folders []string `json:"folders,omitempty" jsonschema:"workspace folders to inspect (default: current directory)"`
}

// DevToolsStatus describes the notification throttle.
type DevToolsStatus struct {
	ShownCount int    `json:"shown_count"          jsonschema:"how many times the notification has shown"`
	LastShown  string `json:"last_shown,omitempty" jsonschema:"RFC 3339 time of the last display"`
	NoRepeat   bool   `json:"no_repeat"            jsonschema:"whether the user opted out permanently"`
	Eligible   bool   `json:"eligible"             jsonschema:"whether the notification may show now"`
	Reason     string `json:"reason,omitempty"     jsonschema:"why the notification is withheld"`
}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Version        string           `json:"version"                   jsonschema:"usher version"`
	StatePath      string           `json:"state_path"                jsonschema:"path of the activation state file"`
	PromptsSeen    []string         `json:"prompts_seen,omitempty"    jsonschema:"prompt ids resolved permanently"`
	PendingPrompts []string         `json:"pending_prompts,omitempty" jsonschema:"prompt ids eligible to show, in order"`
	DevTools       DevToolsStatus   `json:"devtools"                  jsonschema:"notification throttle state"`
	Companion      companion.Status `json:"companion"                 jsonschema:"companion extension presence"`
	FlutterProject bool             `json:"flutter_project"           jsonschema:"whether the workspace contains a Flutter project"`
}

func handleStatus(deps Deps) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		g, report, err := deps.newGate(host.NewRecorder(), input.Folders)
		if err != nil {
			return nil, StatusOutput{}, err
		}

		s, err := deps.Store.Load()
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("loading state: %w", err)
		}

		pending, err := g.PendingPrompts()
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("evaluating prompts: %w", err)
		}

		eligible, reason := gate.DevToolsEligible(s.DevTools, time.Now())
		devtools := DevToolsStatus{
			ShownCount: s.DevTools.ShownCount,
			NoRepeat:   s.DevTools.NoRepeat,
			Eligible:   eligible,
			Reason:     reason,
		}
		if last := s.DevTools.LastShownTime(); !last.IsZero() {
			devtools.LastShown = last.UTC().Format(time.RFC3339)
		}

		out := StatusOutput{
			Version:        deps.Version,
			StatePath:      deps.Store.Path(),
			PromptsSeen:    seenPromptIDs(s),
			PendingPrompts: promptIDs(pending),
			DevTools:       devtools,
			Companion:      companion.NewDetector(deps.extensionsDir()).Check(),
			FlutterProject: report.HasFlutterProject(),
		}
		return nil, out, nil
	}
}
