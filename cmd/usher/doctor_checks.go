// Package main provides the entry point for the usher CLI.
package main

import (
	"context"
	"os"
	"os/exec"
	"strconv"

	"github.com/gorewood/usher/internal/companion"
	"github.com/gorewood/usher/internal/config"
	"github.com/gorewood/usher/internal/sdk"
	"github.com/gorewood/usher/internal/state"
)

// runSDKChecks verifies the Dart and Flutter executables.
func runSDKChecks(ctx context.Context) []checkResult {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	runner := sdk.New(cfg)

	checks := make([]checkResult, 0, 2)
	checks = append(checks, checkTool(ctx, runner, sdk.Dart))
	checks = append(checks, checkTool(ctx, runner, sdk.Flutter))
	return checks
}

// checkTool reports presence and version of one SDK executable. A missing
// dart is a failure; a missing flutter only a warning, since Dart-only
// workspaces are fine without it.
func checkTool(ctx context.Context, runner *sdk.SDK, tool sdk.Tool) checkResult {
	name := "Dart SDK"
	missing := checkFail
	if tool == sdk.Flutter {
		name = "Flutter SDK"
		missing = checkWarn
	}

	bin := runner.Binary(tool)
	path, err := exec.LookPath(bin)
	if err != nil {
		return checkResult{
			Name:    name,
			Status:  missing,
			Message: bin + " not found",
			Hint:    "Install the " + string(tool) + " SDK or set sdk." + string(tool) + "_path in " + config.Path(),
		}
	}

	v, verr := runner.Version(ctx, tool)
	if verr != nil {
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: path + " found, but the version check failed",
			Hint:    "Run '" + bin + " --version' to investigate",
		}
	}

	return checkResult{
		Name:    name,
		Status:  checkPass,
		Message: v.String() + " at " + path,
	}
}

// runStateChecks verifies the activation state and configuration files.
func runStateChecks(flags *doctorFlags) []checkResult {
	checks := make([]checkResult, 0, 3)
	checks = append(checks, checkStateDir(flags))
	checks = append(checks, checkStateFile())
	checks = append(checks, checkConfigFile())
	return checks
}

// checkStateDir checks that the state directory exists or can be created.
func checkStateDir(flags *doctorFlags) checkResult {
	dir := state.Dir()

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return checkResult{
			Name:    "State Directory",
			Status:  checkPass,
			Message: dir,
		}
	}

	if flags.fix {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr == nil {
			return checkResult{
				Name:    "State Directory",
				Status:  checkPass,
				Message: dir + " (auto-fixed)",
			}
		}
	}

	return checkResult{
		Name:    "State Directory",
		Status:  checkWarn,
		Message: dir + " does not exist yet",
		Hint:    "Created on first prompt, or run 'usher doctor --fix'",
	}
}

// checkStateFile checks that the activation state file parses.
func checkStateFile() checkResult {
	store := state.NewStore(state.Dir())

	if _, err := os.Stat(store.Path()); err != nil {
		return checkResult{
			Name:    "Activation State",
			Status:  checkPass,
			Message: "no activation state recorded yet",
		}
	}

	s, err := store.Load()
	if err != nil {
		return checkResult{
			Name:    "Activation State",
			Status:  checkFail,
			Message: "state file unreadable: " + err.Error(),
			Hint:    "Run 'usher reset --all' to start over",
		}
	}

	return checkResult{
		Name:    "Activation State",
		Status:  checkPass,
		Message: strconv.Itoa(len(s.Prompts)) + " prompt(s) resolved, DevTools shown " + strconv.Itoa(s.DevTools.ShownCount) + " time(s)",
	}
}

// checkConfigFile checks that the configuration file parses.
func checkConfigFile() checkResult {
	path := config.Path()

	if _, err := os.Stat(path); err != nil {
		return checkResult{
			Name:    "Configuration",
			Status:  checkPass,
			Message: "no config file, using defaults",
		}
	}

	if _, err := config.LoadFrom(path); err != nil {
		return checkResult{
			Name:    "Configuration",
			Status:  checkFail,
			Message: "config file unreadable: " + err.Error(),
			Hint:    "Fix or delete " + path,
		}
	}

	return checkResult{
		Name:    "Configuration",
		Status:  checkPass,
		Message: path,
	}
}

// runEditorChecks verifies the editor integration surface.
func runEditorChecks() []checkResult {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	checks := make([]checkResult, 0, 3)
	checks = append(checks, checkEditorCLI())
	checks = append(checks, checkCompanionExtension(cfg))
	checks = append(checks, checkOpenCommand(cfg))
	return checks
}

// checkEditorCLI checks for the code CLI used to install extensions.
func checkEditorCLI() checkResult {
	path, err := exec.LookPath("code")
	if err != nil {
		return checkResult{
			Name:    "Editor CLI",
			Status:  checkWarn,
			Message: "code CLI not found",
			Hint:    "Extension installs fall back to opening the marketplace page",
		}
	}

	return checkResult{
		Name:    "Editor CLI",
		Status:  checkPass,
		Message: path,
	}
}

// checkCompanionExtension reports companion extension presence.
func checkCompanionExtension(cfg *config.Config) checkResult {
	status := companion.NewDetector(cfg.Editor.ExtensionsDir).Check()
	if status.Found {
		return checkResult{
			Name:    "Companion Extension",
			Status:  checkPass,
			Message: status.Extension + " installed",
		}
	}

	return checkResult{
		Name:    "Companion Extension",
		Status:  checkPass,
		Message: "not installed (offered when a Flutter workspace opens)",
	}
}

// checkOpenCommand checks the command used to open entry point files.
func checkOpenCommand(cfg *config.Config) checkResult {
	if cfg.Editor.OpenCommand != "" {
		return checkResult{
			Name:    "Open Command",
			Status:  checkPass,
			Message: cfg.Editor.OpenCommand + " (from config)",
		}
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return checkResult{
			Name:    "Open Command",
			Status:  checkPass,
			Message: visual + " (from $VISUAL)",
		}
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return checkResult{
			Name:    "Open Command",
			Status:  checkPass,
			Message: editor + " (from $EDITOR)",
		}
	}
	if path, err := exec.LookPath("code"); err == nil {
		return checkResult{
			Name:    "Open Command",
			Status:  checkPass,
			Message: path + " (code CLI fallback)",
		}
	}

	return checkResult{
		Name:    "Open Command",
		Status:  checkWarn,
		Message: "no editor command configured",
		Hint:    "Set editor.open_command in " + config.Path() + " or export $EDITOR",
	}
}
