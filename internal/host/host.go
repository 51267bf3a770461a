// Package host abstracts the surface usher talks to the user through:
// messages, choice prompts, and file/URL opening. The terminal
// implementation renders prompts directly; the recorder implementation
// captures everything so editors and tests can drive the same flows.
package host

import (
	"context"
	"fmt"
)

// Choice is the resolution of a prompt. The zero value is Decline so that
// dismissed or unanswered prompts resolve to the safe outcome.
type Choice int

// The four prompt resolutions.
const (
	Decline Choice = iota
	Confirm
	Accept
	NoRepeat
)

// String returns the wire name of a choice.
func (c Choice) String() string {
	switch c {
	case Confirm:
		return "confirm"
	case Accept:
		return "accept"
	case NoRepeat:
		return "no-repeat"
	default:
		return "decline"
	}
}

// ParseChoice converts a wire name back to a Choice.
func ParseChoice(s string) (Choice, error) {
	switch s {
	case "confirm":
		return Confirm, nil
	case "accept":
		return Accept, nil
	case "no-repeat":
		return NoRepeat, nil
	case "decline":
		return Decline, nil
	}
	return Decline, fmt.Errorf("unknown choice: %q", s)
}

// Option is one selectable answer of a prompt.
type Option struct {
	Label  string
	Choice Choice
}

// Prompt is a notification that asks the user to pick one option.
type Prompt struct {
	// ID identifies the prompt for scripted answers and MCP round trips.
	ID      string
	Title   string
	Body    string
	Hint    string
	Options []Option
}

// Host is the boundary to the user-facing surface. Message methods never
// fail; Ask reports errors from the prompt mechanism so callers can apply
// their own failure semantics.
type Host interface {
	// Info shows an informational message.
	Info(msg string)
	// Errorf shows an error notification.
	Errorf(format string, args ...any)
	// Ask displays a prompt and returns the chosen option.
	Ask(ctx context.Context, p Prompt) (Choice, error)
	// OpenFile shows a file to the user.
	OpenFile(ctx context.Context, path string) error
	// OpenURL opens an external link.
	OpenURL(ctx context.Context, url string) error
}
