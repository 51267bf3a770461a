// Package sdk runs the Dart and Flutter command-line tools for the usher CLI.
//
// This package wraps tool invocations by shelling out to the dart and
// flutter executables, capturing stdout/stderr and translating failures to
// appropriate errors. Project scaffolding, package resolution, DevTools
// launching, and version probing all go through it.
//
// # Running Tools
//
//	s := sdk.New(cfg)
//	err := s.DartCreate(ctx, "/work/proj", "console")
//	err = s.PubGet(ctx, "/work/proj")
//	v, err := s.Version(ctx, sdk.Flutter)
//
// # Test Seams
//
// The Run and Start fields are function seams. Tests replace them to stub
// tool execution:
//
//	s := sdk.New(nil)
//	s.Run = func(ctx context.Context, tool sdk.Tool, dir string, args ...string) (string, error) {
//	    return "", nil
//	}
//
// # Error Handling
//
// A missing executable maps to ExitSystemError (2); a tool that runs and
// exits non-zero maps to ExitToolError (3) with the exit status in the
// message.
package sdk
