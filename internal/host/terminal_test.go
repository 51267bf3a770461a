package host

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/usher/internal/output"
)

func newTestTerminal(t *testing.T, openCommand string) (*Terminal, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	p := output.NewPrinter(buf, false, false)
	return NewTerminal(p, false, openCommand), buf
}

func TestTerminalAskNonInteractive(t *testing.T) {
	term, buf := newTestTerminal(t, "")

	got, err := term.Ask(context.Background(), Prompt{
		ID:    "flutter-companion",
		Title: "Install the Flutter companion?",
		Options: []Option{
			{Label: "Install", Choice: Confirm},
			{Label: "Not now", Choice: Decline},
		},
	})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != Decline {
		t.Errorf("non-interactive Ask() = %v, want Decline", got)
	}
	if buf.Len() != 0 {
		t.Errorf("non-interactive Ask() wrote output: %q", buf.String())
	}
}

func TestTerminalAskNoOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	p := output.NewPrinter(buf, false, false)
	term := NewTerminal(p, true, "")

	got, err := term.Ask(context.Background(), Prompt{ID: "empty", Title: "Nothing to pick"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != Decline {
		t.Errorf("Ask() with no options = %v, want Decline", got)
	}
}

func TestTerminalInfo(t *testing.T) {
	term, buf := newTestTerminal(t, "")

	term.Info("Your Console App project is ready!")

	if !strings.Contains(buf.String(), "Your Console App project is ready!") {
		t.Errorf("Info() output = %q", buf.String())
	}
}

func TestTerminalErrorf(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	p := output.NewPrinter(buf, false, false).WithStderr(errBuf)
	term := NewTerminal(p, false, "")

	term.Errorf("could not parse %s", "dart.create")

	if !strings.Contains(errBuf.String(), "could not parse dart.create") {
		t.Errorf("Errorf() stderr = %q", errBuf.String())
	}
}

func TestTerminalOpenFileUsesConfiguredCommand(t *testing.T) {
	term, _ := newTestTerminal(t, "myedit --reuse-window")

	var gotName string
	var gotArgs []string
	term.RunEditor = func(_ context.Context, name string, args []string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	if err := term.OpenFile(context.Background(), "/proj/lib/main.dart"); err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if gotName != "myedit" {
		t.Errorf("editor = %q, want %q", gotName, "myedit")
	}
	want := []string{"--reuse-window", "/proj/lib/main.dart"}
	if len(gotArgs) != len(want) || gotArgs[0] != want[0] || gotArgs[1] != want[1] {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
}

func TestTerminalOpenFileEditorError(t *testing.T) {
	term, _ := newTestTerminal(t, "myedit")
	term.RunEditor = func(_ context.Context, _ string, _ []string) error {
		return errors.New("exec failed")
	}

	err := term.OpenFile(context.Background(), "/proj/lib/main.dart")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if output.GetExitCode(err) != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitSystemError)
	}
}

func TestTerminalOpenFileFallsBackToPath(t *testing.T) {
	// Empty PATH so no `code` binary resolves.
	t.Setenv("PATH", t.TempDir())
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	term, buf := newTestTerminal(t, "")
	called := false
	term.RunEditor = func(_ context.Context, _ string, _ []string) error {
		called = true
		return nil
	}

	if err := term.OpenFile(context.Background(), "/proj/bin/proj.dart"); err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if called {
		t.Error("editor launched with no editor configured")
	}
	if !strings.Contains(buf.String(), "/proj/bin/proj.dart") {
		t.Errorf("fallback output = %q, want entry point path", buf.String())
	}
}

func TestTerminalEditorResolutionOrder(t *testing.T) {
	tests := []struct {
		name        string
		openCommand string
		visual      string
		editor      string
		wantName    string
		wantArgs    []string
	}{
		{
			name:        "config wins over environment",
			openCommand: "subl -w",
			visual:      "vim",
			editor:      "nano",
			wantName:    "subl",
			wantArgs:    []string{"-w"},
		},
		{
			name:     "VISUAL wins over EDITOR",
			visual:   "vim",
			editor:   "nano",
			wantName: "vim",
		},
		{
			name:     "EDITOR used when VISUAL empty",
			editor:   "nano",
			wantName: "nano",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VISUAL", tt.visual)
			t.Setenv("EDITOR", tt.editor)

			term, _ := newTestTerminal(t, tt.openCommand)
			name, args, ok := term.editorCommand()
			if !ok {
				t.Fatal("editorCommand() resolved nothing")
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if len(args) != len(tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestTerminalEditorResolutionFindsCode(t *testing.T) {
	dir := t.TempDir()
	codePath := filepath.Join(dir, "code")
	if err := os.WriteFile(codePath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing fake code binary: %v", err)
	}
	t.Setenv("PATH", dir)
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	term, _ := newTestTerminal(t, "")
	name, _, ok := term.editorCommand()
	if !ok {
		t.Fatal("editorCommand() did not find code on PATH")
	}
	if name != "code" {
		t.Errorf("name = %q, want %q", name, "code")
	}
}

func TestTerminalOpenURL(t *testing.T) {
	term, _ := newTestTerminal(t, "")

	var gotURL string
	term.Browse = func(url string) error {
		gotURL = url
		return nil
	}

	if err := term.OpenURL(context.Background(), "https://dart.dev/tools"); err != nil {
		t.Fatalf("OpenURL() error = %v", err)
	}
	if gotURL != "https://dart.dev/tools" {
		t.Errorf("browsed URL = %q", gotURL)
	}
}

func TestTerminalOpenURLError(t *testing.T) {
	term, _ := newTestTerminal(t, "")
	term.Browse = func(_ string) error {
		return errors.New("no browser")
	}

	err := term.OpenURL(context.Background(), "https://dart.dev")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if output.GetExitCode(err) != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitSystemError)
	}
}
