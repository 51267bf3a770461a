package mcp

import (
	"sort"

	"github.com/gorewood/usher/internal/companion"
	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/gate"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/state"
	"github.com/gorewood/usher/internal/workspace"
)

// effectiveConfig returns the deps config or the defaults.
func (d Deps) effectiveConfig() *config.Config {
	if d.Config != nil {
		return d.Config
	}
	return config.Default()
}

// extensionsDir resolves the companion extensions directory for this server.
func (d Deps) extensionsDir() string {
	if d.ExtensionsDir != "" {
		return d.ExtensionsDir
	}
	return d.effectiveConfig().Editor.ExtensionsDir
}

// newGate builds a gate over the given folders with h as the host surface.
func (d Deps) newGate(h host.Host, folders []string) (*gate.Gate, workspace.Report, error) {
	ws, err := workspace.Discover(folders)
	if err != nil {
		return nil, workspace.Report{}, err
	}
	report := ws.Inspect(d.effectiveConfig().Scan.MaxDepth)

	g := gate.New(gate.Options{
		Store:          d.Store,
		Host:           h,
		Version:        d.Version,
		Workspace:      report,
		Companion:      companion.NewDetector(d.extensionsDir()),
		LaunchDevTools: d.LaunchDevTools,
	})
	return g, report, nil
}

// bareGate builds a gate with no workspace context, for tools that only
// touch the notification throttle.
func (d Deps) bareGate(h host.Host) *gate.Gate {
	return gate.New(gate.Options{
		Store:          d.Store,
		Host:           h,
		Version:        d.Version,
		Companion:      companion.NewDetector(d.extensionsDir()),
		LaunchDevTools: d.LaunchDevTools,
	})
}

// toPromptInfo converts a prompt to wire form.
func toPromptInfo(p host.Prompt) PromptInfo {
	info := PromptInfo{
		ID:    p.ID,
		Title: p.Title,
		Body:  p.Body,
		Hint:  p.Hint,
	}
	for _, o := range p.Options {
		info.Options = append(info.Options, OptionInfo{
			Label:  o.Label,
			Choice: o.Choice.String(),
		})
	}
	return info
}

// seenPromptIDs returns the resolved prompt ids in stable order.
func seenPromptIDs(s *state.State) []string {
	ids := make([]string, 0, len(s.Prompts))
	for id, seen := range s.Prompts {
		if seen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// promptIDs extracts the ids of a prompt list.
func promptIDs(prompts []host.Prompt) []string {
	ids := make([]string, 0, len(prompts))
	for _, p := range prompts {
		ids = append(ids, p.ID)
	}
	return ids
}
