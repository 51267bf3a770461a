package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/state"
)

// DevToolsPromptID identifies the DevTools discovery notification.
const DevToolsPromptID = "devtools"

const (
	// devToolsMaxShown caps how many times the notification may ever show.
	devToolsMaxShown = 10
	// devToolsQuietPeriod is the minimum gap between two displays.
	devToolsQuietPeriod = 20 * time.Hour
)

// DevToolsOutcome reports what OfferDevTools did.
type DevToolsOutcome struct {
	// Offered reports whether the notification was displayed.
	Offered bool   `json:"offered"`
	Choice  string `json:"choice,omitempty"`
	// Launched reports whether DevTools was actually started.
	Launched bool `json:"launched"`
	// SkipReason explains a skipped display.
	SkipReason string `json:"skip_reason,omitempty"`
}

// DevToolsEligible reports whether the notification may be shown now, and
// the reason when it may not.
func DevToolsEligible(d state.DevToolsState, now time.Time) (bool, string) {
	if d.NoRepeat {
		return false, "opted out"
	}
	if d.ShownCount >= devToolsMaxShown {
		return false, fmt.Sprintf("already shown %d times", d.ShownCount)
	}
	if last := d.LastShownTime(); !last.IsZero() && now.Sub(last) < devToolsQuietPeriod {
		return false, "shown within the past 20 hours"
	}
	return true, ""
}

// OfferDevTools shows the DevTools discovery notification when the
// throttle allows it. The shown-count and timestamp are persisted before
// the notification displays, so every display attempt is counted. Returns
// whether DevTools was launched; errors are reported through the host and
// never propagate.
func (g *Gate) OfferDevTools(ctx context.Context) DevToolsOutcome {
	s, err := g.store.Load()
	if err != nil {
		g.host.Errorf("could not read activation state: %v", err)
		return DevToolsOutcome{SkipReason: "state unavailable"}
	}

	ok, reason := DevToolsEligible(s.DevTools, g.now())
	if !ok {
		return DevToolsOutcome{SkipReason: reason}
	}

	if err := g.BumpDevTools(); err != nil {
		g.host.Errorf("could not update activation state: %v", err)
		return DevToolsOutcome{SkipReason: "state unavailable"}
	}

	choice, err := g.host.Ask(ctx, DevToolsPrompt())
	if err != nil {
		g.host.Errorf("could not show the DevTools notification: %v", err)
		return DevToolsOutcome{Offered: true}
	}

	launched, err := g.ResolveDevTools(ctx, choice)
	if err != nil {
		g.host.Errorf("could not apply the DevTools choice: %v", err)
	}
	return DevToolsOutcome{Offered: true, Choice: choice.String(), Launched: launched}
}

// BumpDevTools records a display attempt: count incremented, timestamp
// stamped, persisted.
func (g *Gate) BumpDevTools() error {
	_, err := g.store.Update(func(s *state.State) { s.DevTools.RecordShown(g.now()) })
	return err
}

// ResolveDevTools applies the choice for a displayed notification. Accept
// launches DevTools and reports true; NoRepeat persists the opt-out flag.
func (g *Gate) ResolveDevTools(ctx context.Context, choice host.Choice) (bool, error) {
	switch choice {
	case host.NoRepeat:
		if _, err := g.store.Update(func(s *state.State) { s.DevTools.NoRepeat = true }); err != nil {
			return false, err
		}
		return false, nil
	case host.Accept:
		if g.launchDevTools == nil {
			return false, output.NewSystemError("no DevTools launcher configured")
		}
		if err := g.launchDevTools(ctx); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

// DevToolsPrompt is the three-choice discovery notification.
func DevToolsPrompt() host.Prompt {
	return host.Prompt{
		ID:    DevToolsPromptID,
		Title: "Dart DevTools is available",
		Body:  "DevTools provides debugging and performance tooling for Dart and Flutter applications.",
		Options: []host.Option{
			{Label: "Open DevTools", Choice: host.Accept},
			{Label: "Not now", Choice: host.Decline},
			{Label: "Don't ask again", Choice: host.NoRepeat},
		},
	}
}
