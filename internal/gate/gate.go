// Package gate decides which activation notifications to surface: the
// one-time startup prompts and the rate-limited DevTools discovery
// notification. All decisions are driven by the persisted activation state;
// the gate itself renders nothing and goes through a host.Host.
package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/gorewood/usher/internal/companion"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/state"
	"github.com/gorewood/usher/internal/workspace"
)

// CompanionPromptID identifies the companion-extension recommendation.
const CompanionPromptID = "flutter-companion"

// Options configures a Gate.
type Options struct {
	Store     *state.Store
	Host      host.Host
	Version   string
	Workspace workspace.Report
	Companion *companion.Detector

	// InstallCompanion runs the install for a confirmed companion prompt.
	// Defaults to opening the marketplace URL through the host.
	InstallCompanion func(ctx context.Context) error
	// LaunchDevTools starts DevTools for an accepted offer.
	LaunchDevTools func(ctx context.Context) error
	// Now overrides the clock used for throttle decisions.
	Now func() time.Time
}

// Gate evaluates prompt eligibility and applies resolutions.
type Gate struct {
	store            *state.Store
	host             host.Host
	version          string
	report           workspace.Report
	detector         *companion.Detector
	installCompanion func(ctx context.Context) error
	launchDevTools   func(ctx context.Context) error
	now              func() time.Time
}

// New creates a Gate from the given options.
func New(opts Options) *Gate {
	g := &Gate{
		store:            opts.Store,
		host:             opts.Host,
		version:          opts.Version,
		report:           opts.Workspace,
		detector:         opts.Companion,
		installCompanion: opts.InstallCompanion,
		launchDevTools:   opts.LaunchDevTools,
		now:              opts.Now,
	}
	if g.detector == nil {
		g.detector = companion.NewDetector("")
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// PromptOutcome reports what ShowStartupPrompts did.
type PromptOutcome struct {
	// Shown is the id of the prompt that was displayed, empty if none.
	Shown  string `json:"shown,omitempty"`
	Choice string `json:"choice,omitempty"`
	// Seen reports whether the prompt was marked permanently seen.
	Seen bool `json:"marked_seen"`
}

// Resolution is the applied outcome of one prompt.
type Resolution struct {
	ID     string `json:"id"`
	Choice string `json:"choice"`
	Seen   bool   `json:"marked_seen"`
}

// ShowStartupPrompts shows the first eligible startup prompt, if any, and
// applies its resolution. Strictly at most one prompt is shown per
// activation; the rest stay pending for the next one. Errors from the
// prompt mechanism are reported through the host and never propagate.
func (g *Gate) ShowStartupPrompts(ctx context.Context) PromptOutcome {
	prompts, err := g.PendingPrompts()
	if err != nil {
		g.host.Errorf("could not read activation state: %v", err)
		return PromptOutcome{}
	}
	if len(prompts) == 0 {
		return PromptOutcome{}
	}

	p := prompts[0]
	choice, err := g.host.Ask(ctx, p)
	if err != nil {
		g.host.Errorf("could not show the %s prompt: %v", p.ID, err)
		return PromptOutcome{}
	}

	res, err := g.ResolvePrompt(ctx, p.ID, choice)
	if err != nil {
		g.host.Errorf("could not resolve the %s prompt: %v", p.ID, err)
		return PromptOutcome{Shown: p.ID, Choice: choice.String()}
	}
	return PromptOutcome{Shown: p.ID, Choice: res.Choice, Seen: res.Seen}
}

// PendingPrompts returns the eligible startup prompts in priority order
// without showing anything.
func (g *Gate) PendingPrompts() ([]host.Prompt, error) {
	s, err := g.store.Load()
	if err != nil {
		return nil, err
	}
	return g.pending(s), nil
}

// pending evaluates prompt preconditions against a loaded state document.
// Order fixes priority: the companion recommendation outranks release notes.
func (g *Gate) pending(s *state.State) []host.Prompt {
	var prompts []host.Prompt
	if g.report.HasFlutterProject() && !g.detector.Installed() && !s.HasPrompted(CompanionPromptID) {
		prompts = append(prompts, companionPrompt())
	}
	if id, ok := ReleaseNotesID(g.version); ok && !s.HasPrompted(id) {
		prompts = append(prompts, releaseNotesPrompt(g.version, id))
	}
	return prompts
}

// ResolvePrompt applies a choice to a prompt. Confirm runs the prompt's
// side effect and, only when that succeeds, marks the id permanently seen.
// Any other choice leaves the prompt re-offerable.
func (g *Gate) ResolvePrompt(ctx context.Context, id string, choice host.Choice) (Resolution, error) {
	res := Resolution{ID: id, Choice: choice.String()}

	currentNotesID, _ := ReleaseNotesID(g.version)
	switch id {
	case CompanionPromptID:
		if choice != host.Confirm {
			return res, nil
		}
		if err := g.runCompanionInstall(ctx); err != nil {
			return Resolution{}, err
		}
	case currentNotesID:
		if currentNotesID == "" {
			return Resolution{}, output.NewUserError(fmt.Sprintf("unknown prompt id: %s", id))
		}
		if choice != host.Confirm {
			return res, nil
		}
		if err := g.host.OpenURL(ctx, ReleaseNotesURL(g.version)); err != nil {
			return Resolution{}, err
		}
	default:
		return Resolution{}, output.NewUserError(fmt.Sprintf("unknown prompt id: %s", id))
	}

	if _, err := g.store.Update(func(s *state.State) { s.MarkPrompted(id) }); err != nil {
		return Resolution{}, err
	}
	res.Seen = true
	return res, nil
}

// runCompanionInstall launches the companion install, falling back to the
// marketplace page when no installer is wired.
func (g *Gate) runCompanionInstall(ctx context.Context) error {
	if g.installCompanion != nil {
		return g.installCompanion(ctx)
	}
	return g.host.OpenURL(ctx, companion.MarketplaceURL)
}

// companionPrompt recommends the Flutter companion extension.
func companionPrompt() host.Prompt {
	return host.Prompt{
		ID:    CompanionPromptID,
		Title: "Install the Flutter extension?",
		Body:  "This workspace contains Flutter projects. The Flutter extension adds debugging, hot reload, and widget tooling.",
		Hint:  companion.MarketplaceURL,
		Options: []host.Option{
			{Label: "Install", Choice: host.Confirm},
			{Label: "Not now", Choice: host.Decline},
		},
	}
}

// releaseNotesPrompt offers the release notes for the running version.
func releaseNotesPrompt(version string, id string) host.Prompt {
	return host.Prompt{
		ID:    id,
		Title: fmt.Sprintf("usher updated to %s", version),
		Body:  "See what changed in this release.",
		Options: []host.Option{
			{Label: "What's new", Choice: host.Confirm},
			{Label: "Dismiss", Choice: host.Decline},
		},
	}
}
