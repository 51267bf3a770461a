package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/usher/internal/state"
)

// seedState writes a populated state file into stateHome and returns the
// store for later reloads.
func seedState(t *testing.T, stateHome string) *state.Store {
	t.Helper()
	store := state.NewStore(stateHome)
	s := state.New()
	s.MarkPrompted("flutter-companion")
	s.MarkPrompted("release-notes-3.5")
	s.DevTools.ShownCount = 4
	s.DevTools.NoRepeat = true
	if err := store.Save(s); err != nil {
		t.Fatalf("seed state: %v", err)
	}
	return store
}

func TestReset_Prompt(t *testing.T) {
	stateHome, _ := isolateEnv(t)
	store := seedState(t, stateHome)

	stdout, _, err := runUsher(t, "reset", "--prompt", "flutter-companion", "--json")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("parse JSON: %v\nOutput: %s", err, stdout)
	}
	msg, _ := result["message"].(string)
	if !strings.Contains(msg, "flutter-companion") {
		t.Errorf("message = %q, should name the cleared prompt", msg)
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("reload state: %v", err)
	}
	if s.HasPrompted("flutter-companion") {
		t.Error("cleared prompt should be pending again")
	}
	if !s.HasPrompted("release-notes-3.5") {
		t.Error("other prompts must survive a single-prompt reset")
	}
	if s.DevTools.ShownCount != 4 {
		t.Error("DevTools state must survive a prompt reset")
	}
}

func TestReset_DevTools(t *testing.T) {
	stateHome, _ := isolateEnv(t)
	store := seedState(t, stateHome)

	_, _, err := runUsher(t, "reset", "--devtools", "--json")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("reload state: %v", err)
	}
	if s.DevTools.ShownCount != 0 || s.DevTools.NoRepeat {
		t.Errorf("DevTools state not cleared: %+v", s.DevTools)
	}
	if !s.HasPrompted("flutter-companion") {
		t.Error("prompts must survive a DevTools reset")
	}
}

func TestReset_All(t *testing.T) {
	stateHome, _ := isolateEnv(t)
	store := seedState(t, stateHome)

	_, _, err := runUsher(t, "reset", "--all", "--json")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	s, err := store.Load()
	if err != nil {
		t.Fatalf("reload state: %v", err)
	}
	if s.HasPrompted("flutter-companion") || s.HasPrompted("release-notes-3.5") {
		t.Error("prompts should be cleared")
	}
	if s.DevTools.ShownCount != 0 || s.DevTools.NoRepeat {
		t.Errorf("DevTools state should be cleared: %+v", s.DevTools)
	}
}

func TestReset_All_RecoversCorruptState(t *testing.T) {
	stateHome, _ := isolateEnv(t)
	if err := os.WriteFile(filepath.Join(stateHome, "state.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write corrupt state: %v", err)
	}

	_, _, err := runUsher(t, "reset", "--all", "--json")
	if err != nil {
		t.Fatalf("reset --all should recover a corrupt state file: %v", err)
	}

	s, err := state.NewStore(stateHome).Load()
	if err != nil {
		t.Fatalf("reload state: %v", err)
	}
	if len(s.Prompts) != 0 {
		t.Errorf("recovered state should be empty, got %v", s.Prompts)
	}
}

func TestReset_RequiresExactlyOneTarget(t *testing.T) {
	isolateEnv(t)

	if _, _, err := runUsher(t, "reset"); err == nil {
		t.Error("reset with no target should fail")
	}
	if _, _, err := runUsher(t, "reset", "--all", "--devtools"); err == nil {
		t.Error("reset with two targets should fail")
	}
}
