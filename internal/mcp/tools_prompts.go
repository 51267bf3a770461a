package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/usher/internal/gate"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/output"
)

// --- Pending prompts tool ---

// PendingPromptsInput is the input for the pending_prompts tool.
type PendingPromptsInput struct {
	Folders []string `json:"folders,omitempty" jsonschema:"workspace folders to inspect (default: current directory)"`
}

// PendingPromptsOutput is the output for the pending_prompts tool.
type PendingPromptsOutput struct {
	Prompts []PromptInfo `json:"prompts" jsonschema:"prompts eligible to show, in order; at most the first should be shown per activation"`
}

func handlePendingPrompts(deps Deps) mcp.ToolHandlerFor[PendingPromptsInput, PendingPromptsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PendingPromptsInput) (*mcp.CallToolResult, PendingPromptsOutput, error) {
		g, _, err := deps.newGate(host.NewRecorder(), input.Folders)
		if err != nil {
			return nil, PendingPromptsOutput{}, err
		}

		pending, err := g.PendingPrompts()
		if err != nil {
			return nil, PendingPromptsOutput{}, fmt.Errorf("evaluating prompts: %w", err)
		}

		infos := make([]PromptInfo, 0, len(pending))
		for _, p := range pending {
			infos = append(infos, toPromptInfo(p))
		}
		return nil, PendingPromptsOutput{Prompts: infos}, nil
	}
}

// --- Resolve prompt tool ---

// ResolvePromptInput is the input for the resolve_prompt tool.
type ResolvePromptInput struct {
	ID      string   `json:"id"                jsonschema:"prompt id to resolve"`
	Choice  string   `json:"choice"            jsonschema:"selected choice: confirm, decline, accept, or no-repeat"`
	Folders []string `json:"folders,omitempty" jsonschema:"workspace folders for context (default: current directory)"`
}

// ResolvePromptOutput is the output for the resolve_prompt tool.
type ResolvePromptOutput struct {
	ID         string   `json:"id"                  jsonschema:"prompt id that was resolved"`
	Choice     string   `json:"choice"              jsonschema:"choice that was applied"`
	MarkedSeen bool     `json:"marked_seen"         jsonschema:"whether the prompt is now permanently resolved"`
	OpenURLs   []string `json:"open_urls,omitempty" jsonschema:"URLs the editor should open"`
}

func handleResolvePrompt(deps Deps) mcp.ToolHandlerFor[ResolvePromptInput, ResolvePromptOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ResolvePromptInput) (*mcp.CallToolResult, ResolvePromptOutput, error) {
		choice, err := host.ParseChoice(input.Choice)
		if err != nil {
			return nil, ResolvePromptOutput{}, output.NewUserError(err.Error())
		}

		rec := host.NewRecorder()
		g, _, err := deps.newGate(rec, input.Folders)
		if err != nil {
			return nil, ResolvePromptOutput{}, err
		}

		res, err := g.ResolvePrompt(ctx, input.ID, choice)
		if err != nil {
			return nil, ResolvePromptOutput{}, err
		}

		return nil, ResolvePromptOutput{
			ID:         res.ID,
			Choice:     res.Choice,
			MarkedSeen: res.Seen,
			OpenURLs:   rec.OpenedURLs(),
		}, nil
	}
}

// --- DevTools offer tool ---

// DevToolsOfferInput is the input for the devtools_offer tool.
type DevToolsOfferInput struct{}

// DevToolsOfferOutput is the output for the devtools_offer tool.
type DevToolsOfferOutput struct {
	Eligible bool        `json:"eligible"         jsonschema:"whether the notification may show now"`
	Reason   string      `json:"reason,omitempty" jsonschema:"why the notification is withheld"`
	Prompt   *PromptInfo `json:"prompt,omitempty" jsonschema:"notification to display when eligible"`
}

func handleDevToolsOffer(deps Deps) mcp.ToolHandlerFor[DevToolsOfferInput, DevToolsOfferOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ DevToolsOfferInput) (*mcp.CallToolResult, DevToolsOfferOutput, error) {
		s, err := deps.Store.Load()
		if err != nil {
			return nil, DevToolsOfferOutput{}, fmt.Errorf("loading state: %w", err)
		}

		eligible, reason := gate.DevToolsEligible(s.DevTools, time.Now())
		if !eligible {
			return nil, DevToolsOfferOutput{Reason: reason}, nil
		}

		if err := deps.bareGate(host.NewRecorder()).BumpDevTools(); err != nil {
			return nil, DevToolsOfferOutput{}, fmt.Errorf("recording display: %w", err)
		}

		prompt := toPromptInfo(gate.DevToolsPrompt())
		return nil, DevToolsOfferOutput{Eligible: true, Prompt: &prompt}, nil
	}
}

// --- DevTools resolve tool ---

// DevToolsResolveInput is the input for the devtools_resolve tool.
type DevToolsResolveInput struct {
	Choice string `json:"choice" jsonschema:"selected choice: accept, decline, or no-repeat"`
}

// DevToolsResolveOutput is the output for the devtools_resolve tool.
type DevToolsResolveOutput struct {
	Launched bool `json:"launched" jsonschema:"whether DevTools was started"`
}

func handleDevToolsResolve(deps Deps) mcp.ToolHandlerFor[DevToolsResolveInput, DevToolsResolveOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DevToolsResolveInput) (*mcp.CallToolResult, DevToolsResolveOutput, error) {
		choice, err := host.ParseChoice(input.Choice)
		if err != nil {
			return nil, DevToolsResolveOutput{}, output.NewUserError(err.Error())
		}

		launched, err := deps.bareGate(host.NewRecorder()).ResolveDevTools(ctx, choice)
		if err != nil {
			return nil, DevToolsResolveOutput{}, err
		}
		return nil, DevToolsResolveOutput{Launched: launched}, nil
	}
}
