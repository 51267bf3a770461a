package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/output"
)

// Tool identifies one of the SDK executables.
type Tool string

// The two executables usher drives.
const (
	Dart    Tool = "dart"
	Flutter Tool = "flutter"
)

// SampleProjectName is the fixed project name used when creating a Flutter
// sample project from a trigger file.
const SampleProjectName = "sample"

// RunFunc executes a tool with arguments inside dir and returns its output.
type RunFunc func(ctx context.Context, tool Tool, dir string, args ...string) (string, error)

// StartFunc launches a tool without waiting for it to exit.
type StartFunc func(ctx context.Context, tool Tool, args ...string) error

// SDK invokes the dart and flutter executables. The zero value is not
// usable; construct with New. Run and Start are seams that tests replace
// to stub execution.
type SDK struct {
	dartPath    string
	flutterPath string

	Run   RunFunc
	Start StartFunc
}

// New creates an SDK. Explicit executable paths from cfg win over PATH
// resolution; a nil cfg resolves both tools on PATH.
func New(cfg *config.Config) *SDK {
	s := &SDK{}
	if cfg != nil {
		s.dartPath = cfg.SDK.DartPath
		s.flutterPath = cfg.SDK.FlutterPath
	}
	s.Run = s.run
	s.Start = s.start
	return s
}

// Binary returns the executable invoked for a tool: the configured path if
// set, else the bare name for PATH resolution.
func (s *SDK) Binary(tool Tool) string {
	switch tool {
	case Dart:
		if s.dartPath != "" {
			return s.dartPath
		}
	case Flutter:
		if s.flutterPath != "" {
			return s.flutterPath
		}
	}
	return string(tool)
}

// run executes a tool command inside dir and returns trimmed output.
// Returns an *output.ExitError on failure with appropriate exit code.
func (s *SDK) run(ctx context.Context, tool Tool, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, s.Binary(tool), args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError(string(tool) + " not found: ensure the " + string(tool) + " SDK is installed and in PATH")
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			errMsg := strings.TrimSpace(stderr.String())
			if errMsg == "" {
				errMsg = err.Error()
			}
			msg := fmt.Sprintf("%s %s exited with status %d: %s", tool, firstArg(args), exitErr.ExitCode(), errMsg)
			return "", output.NewToolErrorWithCause(msg, err)
		}

		return "", output.NewSystemErrorWithCause(string(tool)+" command failed", err)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		// Older Dart SDKs print --version to stderr with a zero exit.
		out = strings.TrimSpace(stderr.String())
	}
	return out, nil
}

// start launches a tool command detached from the current invocation.
// The process is reaped in the background; its exit status is discarded.
func (s *SDK) start(ctx context.Context, tool Tool, args ...string) error {
	cmd := exec.CommandContext(ctx, s.Binary(tool), args...)
	if err := cmd.Start(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return output.NewSystemError(string(tool) + " not found: ensure the " + string(tool) + " SDK is installed and in PATH")
		}
		return output.NewSystemErrorWithCause("failed to launch "+string(tool), err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// DartCreate scaffolds a Dart project from a template into dir.
// The folder already exists when a trigger file is handled, so --force is
// required.
func (s *SDK) DartCreate(ctx context.Context, dir string, template string) error {
	_, err := s.Run(ctx, Dart, dir, "create", "--force", "-t", template, ".")
	return err
}

// FlutterCreate scaffolds a Flutter project into dir. projectName and
// sampleID are optional; both empty yields a plain create.
func (s *SDK) FlutterCreate(ctx context.Context, dir string, projectName string, sampleID string) error {
	args := []string{"create"}
	if projectName != "" {
		args = append(args, "--project-name", projectName)
	}
	if sampleID != "" {
		args = append(args, "--sample", sampleID)
	}
	args = append(args, ".")

	_, err := s.Run(ctx, Flutter, dir, args...)
	return err
}

// PubGet resolves package dependencies inside dir.
func (s *SDK) PubGet(ctx context.Context, dir string) error {
	_, err := s.Run(ctx, Dart, dir, "pub", "get")
	return err
}

// StartDevTools launches Dart DevTools detached. DevTools serves until the
// user closes it, so the call returns as soon as the launch succeeds.
func (s *SDK) StartDevTools(ctx context.Context) error {
	return s.Start(ctx, Dart, "devtools")
}

// firstArg returns the first element of args for error messages.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
