package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cli/browser"

	"github.com/gorewood/usher/internal/output"
)

// BrowseFunc opens a URL in the default browser.
type BrowseFunc func(url string) error

// RunEditorFunc launches an editor command for a file.
type RunEditorFunc func(ctx context.Context, name string, args []string) error

// Terminal is the Host implementation for interactive CLI runs. Prompts
// render as select forms; when the session is not interactive every prompt
// resolves to Decline without blocking.
type Terminal struct {
	printer     *output.Printer
	interactive bool
	openCommand string
	in          io.Reader

	// Browse and RunEditor can be replaced in tests.
	Browse    BrowseFunc
	RunEditor RunEditorFunc
}

// NewTerminal creates a terminal host writing through the given printer.
// openCommand overrides editor resolution for OpenFile; empty falls back
// to $VISUAL, $EDITOR, then a `code` binary on PATH.
func NewTerminal(printer *output.Printer, interactive bool, openCommand string) *Terminal {
	t := &Terminal{
		printer:     printer,
		interactive: interactive,
		openCommand: openCommand,
		in:          os.Stdin,
	}
	t.Browse = browser.OpenURL
	t.RunEditor = t.runEditor
	return t
}

// WithInput sets the reader prompts are driven from. Returns the terminal
// for chaining.
func (t *Terminal) WithInput(r io.Reader) *Terminal {
	t.in = r
	return t
}

// Info shows an informational message.
func (t *Terminal) Info(msg string) {
	_ = t.printer.Success(map[string]any{"message": msg})
}

// Errorf shows an error notification.
func (t *Terminal) Errorf(format string, args ...any) {
	t.printer.Error(output.NewUserError(fmt.Sprintf(format, args...)))
}

// Ask displays a prompt as a select form and returns the chosen option.
// Non-interactive sessions and aborted forms resolve to Decline.
func (t *Terminal) Ask(ctx context.Context, p Prompt) (Choice, error) {
	if len(p.Options) == 0 || !t.interactive {
		return Decline, nil
	}

	desc := p.Body
	if p.Hint != "" {
		desc += "\n" + p.Hint
	}

	choice := p.Options[0].Choice
	opts := make([]huh.Option[Choice], 0, len(p.Options))
	for _, o := range p.Options {
		opts = append(opts, huh.NewOption(o.Label, o.Choice))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[Choice]().
			Title(p.Title).
			Description(desc).
			Options(opts...).
			Value(&choice),
	))
	if t.in != nil {
		form = form.WithInput(t.in)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Decline, nil
		}
		return Decline, output.NewSystemErrorWithCause("prompt failed", err)
	}
	return choice, nil
}

// OpenFile opens a file in the resolved editor. When no editor can be
// resolved, prints the path instead so the user can open it themselves.
func (t *Terminal) OpenFile(ctx context.Context, path string) error {
	name, args, ok := t.editorCommand()
	if !ok {
		t.printer.KeyValue("Entry point", path)
		return nil
	}
	if err := t.RunEditor(ctx, name, append(args, path)); err != nil {
		return output.NewSystemErrorWithCause(fmt.Sprintf("opening %s with %s", path, name), err)
	}
	return nil
}

// OpenURL opens a URL in the default browser.
func (t *Terminal) OpenURL(_ context.Context, url string) error {
	if err := t.Browse(url); err != nil {
		return output.NewSystemErrorWithCause(fmt.Sprintf("opening %s", url), err)
	}
	return nil
}

// editorCommand resolves the editor to open files with. Resolution order:
// configured open command, $VISUAL, $EDITOR, then `code` if on PATH.
func (t *Terminal) editorCommand() (string, []string, bool) {
	raw := t.openCommand
	if raw == "" {
		raw = os.Getenv("VISUAL")
	}
	if raw == "" {
		raw = os.Getenv("EDITOR")
	}
	if raw == "" {
		if _, err := exec.LookPath("code"); err == nil {
			return "code", nil, true
		}
		return "", nil, false
	}
	fields := strings.Fields(raw)
	return fields[0], fields[1:], true
}

// runEditor launches the editor attached to the terminal when interactive,
// so full-screen editors like vim work.
func (t *Terminal) runEditor(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if t.interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}
