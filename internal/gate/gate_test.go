package gate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorewood/usher/internal/companion"
	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/state"
	"github.com/gorewood/usher/internal/workspace"
)

var testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

// flutterReport is a workspace report with one Flutter project.
func flutterReport() workspace.Report {
	return workspace.Report{Folders: []workspace.FolderReport{
		{Path: "/ws/app", Name: "app", FlutterProject: "/ws/app"},
	}}
}

// newTestGate builds a gate over a recorder host and a temp-dir store.
// mutate adjusts the options before construction.
func newTestGate(t *testing.T, mutate func(*Options)) (*Gate, *host.Recorder, *state.Store) {
	t.Helper()
	store := state.NewStore(t.TempDir())
	rec := host.NewRecorder()
	opts := Options{
		Store:     store,
		Host:      rec,
		Version:   "3.5.4",
		Workspace: flutterReport(),
		Companion: companion.NewDetector(filepath.Join(t.TempDir(), "missing")),
		Now:       func() time.Time { return testNow },
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts), rec, store
}

func TestShowStartupPromptsCompanionFirst(t *testing.T) {
	g, rec, store := newTestGate(t, nil)
	rec.Answer(CompanionPromptID, host.Confirm)

	outcome := g.ShowStartupPrompts(context.Background())

	if outcome.Shown != CompanionPromptID {
		t.Errorf("Shown = %q, want %q", outcome.Shown, CompanionPromptID)
	}
	if !outcome.Seen {
		t.Error("Seen = false after Confirm")
	}
	if urls := rec.OpenedURLs(); len(urls) != 1 || urls[0] != companion.MarketplaceURL {
		t.Errorf("OpenedURLs() = %v, want marketplace", urls)
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.HasPrompted(CompanionPromptID) {
		t.Error("companion prompt not marked seen in state")
	}
}

func TestShowStartupPromptsAtMostOne(t *testing.T) {
	// Both candidates are eligible; only the first may show.
	g, rec, _ := newTestGate(t, nil)

	g.ShowStartupPrompts(context.Background())

	prompts := rec.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("%d prompts shown, want exactly 1", len(prompts))
	}
	if prompts[0].ID != CompanionPromptID {
		t.Errorf("shown prompt = %q, want %q", prompts[0].ID, CompanionPromptID)
	}
}

func TestShowStartupPromptsSeenNeverReshows(t *testing.T) {
	g, rec, _ := newTestGate(t, nil)
	rec.Answer(CompanionPromptID, host.Confirm)
	rec.Answer("release-notes-3.5", host.Confirm)

	first := g.ShowStartupPrompts(context.Background())
	second := g.ShowStartupPrompts(context.Background())
	third := g.ShowStartupPrompts(context.Background())

	if first.Shown != CompanionPromptID || !first.Seen {
		t.Errorf("first activation = %+v", first)
	}
	if second.Shown != "release-notes-3.5" || !second.Seen {
		t.Errorf("second activation = %+v", second)
	}
	if third.Shown != "" {
		t.Errorf("third activation showed %q, want nothing", third.Shown)
	}
	if got := len(rec.Prompts()); got != 2 {
		t.Errorf("%d prompts shown across three activations, want 2", got)
	}
}

func TestShowStartupPromptsDeclineKeepsReofferable(t *testing.T) {
	g, _, store := newTestGate(t, nil)

	// Recorder answers Decline by default.
	first := g.ShowStartupPrompts(context.Background())
	second := g.ShowStartupPrompts(context.Background())

	if first.Seen || second.Seen {
		t.Error("declined prompt must not be marked seen")
	}
	if first.Shown != CompanionPromptID || second.Shown != CompanionPromptID {
		t.Errorf("shown = %q then %q, want the companion prompt twice", first.Shown, second.Shown)
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.HasPrompted(CompanionPromptID) {
		t.Error("declined prompt persisted as seen")
	}
}

func TestShowStartupPromptsCompanionRequiresFlutterProject(t *testing.T) {
	g, _, _ := newTestGate(t, func(o *Options) {
		o.Workspace = workspace.Report{Folders: []workspace.FolderReport{{Path: "/ws/tool", Name: "tool"}}}
	})

	outcome := g.ShowStartupPrompts(context.Background())

	if outcome.Shown != "release-notes-3.5" {
		t.Errorf("Shown = %q, want the release-notes prompt", outcome.Shown)
	}
}

func TestShowStartupPromptsCompanionSkippedWhenInstalled(t *testing.T) {
	extDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(extDir, "dart-code.flutter-3.98.0"), 0o755); err != nil {
		t.Fatalf("creating extension dir: %v", err)
	}

	g, _, _ := newTestGate(t, func(o *Options) {
		o.Companion = companion.NewDetector(extDir)
	})

	outcome := g.ShowStartupPrompts(context.Background())

	if outcome.Shown != "release-notes-3.5" {
		t.Errorf("Shown = %q, want the release-notes prompt", outcome.Shown)
	}
}

func TestShowStartupPromptsDevBuildShowsNothing(t *testing.T) {
	g, rec, _ := newTestGate(t, func(o *Options) {
		o.Version = "dev"
		o.Workspace = workspace.Report{}
	})

	outcome := g.ShowStartupPrompts(context.Background())

	if outcome.Shown != "" {
		t.Errorf("Shown = %q, want nothing", outcome.Shown)
	}
	if len(rec.Prompts()) != 0 {
		t.Errorf("%d prompts shown on a dev build", len(rec.Prompts()))
	}
}

func TestShowStartupPromptsReleaseNotesConfirm(t *testing.T) {
	g, rec, store := newTestGate(t, func(o *Options) {
		o.Workspace = workspace.Report{}
	})
	rec.Answer("release-notes-3.5", host.Confirm)

	outcome := g.ShowStartupPrompts(context.Background())

	if outcome.Shown != "release-notes-3.5" || !outcome.Seen {
		t.Errorf("outcome = %+v", outcome)
	}
	wantURL := "https://github.com/gorewood/usher/releases/tag/v3.5.4"
	if urls := rec.OpenedURLs(); len(urls) != 1 || urls[0] != wantURL {
		t.Errorf("OpenedURLs() = %v, want %q", urls, wantURL)
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.HasPrompted("release-notes-3.5") {
		t.Error("release-notes prompt not marked seen")
	}
}

func TestShowStartupPromptsSideEffectFailureDoesNotPersist(t *testing.T) {
	g, rec, store := newTestGate(t, func(o *Options) {
		o.InstallCompanion = func(_ context.Context) error {
			return errors.New("install failed")
		}
	})
	rec.Answer(CompanionPromptID, host.Confirm)

	outcome := g.ShowStartupPrompts(context.Background())

	if outcome.Seen {
		t.Error("failed resolution must not mark the prompt seen")
	}
	if len(rec.ErrorMessages()) == 0 {
		t.Error("no error notification produced")
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.HasPrompted(CompanionPromptID) {
		t.Error("failed resolution persisted the seen-flag")
	}
}

func TestShowStartupPromptsUnreadableState(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("writing state file: %v", err)
	}

	g, rec, _ := newTestGate(t, func(o *Options) {
		o.Store = state.NewStore(dir)
	})

	outcome := g.ShowStartupPrompts(context.Background())

	if outcome.Shown != "" {
		t.Errorf("Shown = %q with unreadable state", outcome.Shown)
	}
	if len(rec.ErrorMessages()) == 0 {
		t.Error("no error notification for unreadable state")
	}
}

func TestPendingPromptsOrder(t *testing.T) {
	g, _, _ := newTestGate(t, nil)

	prompts, err := g.PendingPrompts()
	if err != nil {
		t.Fatalf("PendingPrompts() error = %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("PendingPrompts() returned %d prompts, want 2", len(prompts))
	}
	if prompts[0].ID != CompanionPromptID {
		t.Errorf("first prompt = %q, want %q", prompts[0].ID, CompanionPromptID)
	}
	if prompts[1].ID != "release-notes-3.5" {
		t.Errorf("second prompt = %q, want %q", prompts[1].ID, "release-notes-3.5")
	}
}

func TestResolvePromptUnknownID(t *testing.T) {
	g, _, _ := newTestGate(t, nil)

	_, err := g.ResolvePrompt(context.Background(), "bogus", host.Confirm)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
}
