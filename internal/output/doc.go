// Package output provides structured output handling for the usher CLI.
//
// This package handles both human-readable and JSON output formats, so every
// command works equally well for human users and for editors or agents that
// drive usher programmatically.
//
// # Printer
//
// The Printer is the primary interface for command output. It switches format
// based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//
//	// For success output
//	printer.Success(map[string]any{"message": "Project created", "folder": dir})
//
//	// For error output
//	printer.Error(err)
//
//	// For raw output
//	printer.Println("Some text")
//	printer.Print("Formatted: %s\n", value)
//
// # JSON Mode
//
// When JSON mode is enabled (via --json flag), all output is structured:
//
//	// Success: {"message": "...", "folder": "...", ...}
//	// Error: {"error": "message", "code": N}
//
// # Notices
//
// Prompt-style notifications render through Notice, which draws a bordered
// panel on a TTY and plain text when piped:
//
//	printer.Notice("Dart DevTools", "DevTools can inspect and profile this workspace.", "shown at most once per day")
//
// # Exit Codes
//
// The package defines standard exit codes and error types:
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: User error (bad args, unknown prompt id)
//	output.ExitSystemError // 2: System error (I/O failure, unwritable state)
//	output.ExitToolError   // 3: External tool failure (dart/flutter exited non-zero)
//
// Use the error constructors to create properly-coded errors:
//
//	output.NewUserError("unknown prompt id: release-notes-9.9")
//	output.NewSystemError("state directory is not writable")
//	output.NewToolError("dart create exited with status 1")
//
// These errors carry exit codes that are used for both JSON error output
// and process exit codes.
package output
