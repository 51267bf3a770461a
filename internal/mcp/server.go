// Package mcp provides a Model Context Protocol server for usher.
// It exposes the activation operations as MCP tools so agent editors can
// drive the prompt gate and trigger scanner and render the UI themselves.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/state"
	"github.com/gorewood/usher/internal/trigger"
)

// Deps carries what the tool handlers need to build gates and scanners.
type Deps struct {
	Version string
	Store   *state.Store
	Config  *config.Config
	// Creator runs the external scaffolding commands.
	Creator trigger.Creator
	// LaunchDevTools starts DevTools for an accepted offer.
	LaunchDevTools func(ctx context.Context) error
	// ExtensionsDir overrides companion detection, for tests.
	ExtensionsDir string
}

// NewServer creates an MCP server with all usher tools registered.
func NewServer(deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "usher",
		Version: deps.Version,
	}, nil)
	registerTools(server, deps)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for tools that mutate state or the
// workspace.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all usher tools to the server.
func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "scan",
		Description: "Scan workspace folders for scaffolding trigger files (dart.create, dart.stagehand, flutter.create) " +
			"and complete project setup. Returns the handled markers plus the messages and files the editor should surface.",
		Annotations: writeAnnotations(),
	}, handleScan(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name: "status",
		Description: "Show activation state: seen prompts, pending prompts, the DevTools notification throttle, " +
			"and companion extension presence.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name: "pending_prompts",
		Description: "List the startup prompts currently eligible to show, in priority order, without showing anything. " +
			"Display at most the first and resolve it with resolve_prompt.",
		Annotations: readOnlyAnnotations(),
	}, handlePendingPrompts(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name: "resolve_prompt",
		Description: "Apply the user's choice to a startup prompt. A confirmed prompt runs its follow-up action and is " +
			"marked permanently seen; any other choice leaves it re-offerable.",
		Annotations: writeAnnotations(),
	}, handleResolvePrompt(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name: "devtools_offer",
		Description: "Check whether the DevTools discovery notification may show. When eligible, records the display " +
			"(count and timestamp) and returns the notification to render; resolve it with devtools_resolve.",
		Annotations: writeAnnotations(),
	}, handleDevToolsOffer(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name: "devtools_resolve",
		Description: "Apply the user's choice to a shown DevTools notification: accept launches DevTools, " +
			"no-repeat suppresses the notification permanently.",
		Annotations: writeAnnotations(),
	}, handleDevToolsResolve(deps))
}
