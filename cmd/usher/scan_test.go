package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScan_JSON_FlutterSampleMarker(t *testing.T) {
	isolateEnv(t)
	fakeTool(t, "flutter", "#!/bin/sh\nexit 0\n")

	folder := t.TempDir()
	markerPath := filepath.Join(folder, "flutter.create")
	if err := os.WriteFile(markerPath, []byte("material.AppBar.1\n"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	stdout, _, err := runUsher(t, "scan", folder, "--json")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var report struct {
		Results []struct {
			Marker   string `json:"marker"`
			Template string `json:"template"`
			Created  bool   `json:"created"`
		} `json:"results"`
		Messages []string `json:"messages"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("parse JSON: %v\nOutput: %s", err, stdout)
	}

	if len(report.Results) != 1 {
		t.Fatalf("got %d results, want 1: %s", len(report.Results), stdout)
	}
	r := report.Results[0]
	if r.Marker != "flutter.create" || r.Template != "material.AppBar.1" || !r.Created {
		t.Errorf("unexpected result: %+v", r)
	}
	if len(report.Messages) != 1 || report.Messages[0] != "Your material.AppBar.1 sample is ready!" {
		t.Errorf("messages = %v", report.Messages)
	}
	if _, err := os.Stat(markerPath); !os.IsNotExist(err) {
		t.Error("handled marker file should be deleted")
	}
}

func TestScan_JSON_MalformedDescriptorKeepsMarker(t *testing.T) {
	isolateEnv(t)

	folder := t.TempDir()
	markerPath := filepath.Join(folder, "dart.create")
	if err := os.WriteFile(markerPath, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	stdout, _, err := runUsher(t, "scan", folder, "--json")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var report struct {
		Results []struct {
			Created bool   `json:"created"`
			Err     string `json:"error"`
		} `json:"results"`
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("parse JSON: %v\nOutput: %s", err, stdout)
	}

	if len(report.Results) != 1 {
		t.Fatalf("got %d results, want 1: %s", len(report.Results), stdout)
	}
	if report.Results[0].Created {
		t.Error("nothing should be created for a malformed descriptor")
	}
	if report.Results[0].Err == "" {
		t.Error("result should carry the parse error")
	}
	if len(report.Errors) == 0 {
		t.Error("parse failure should be reported")
	}
	if _, err := os.Stat(markerPath); err != nil {
		t.Errorf("malformed marker must stay on disk: %v", err)
	}
}

func TestScan_Human_NoMarkers(t *testing.T) {
	isolateEnv(t)

	stdout, stderr, err := runUsher(t, "scan", t.TempDir())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if stdout != "" {
		t.Errorf("no-op scan should not write to stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "No project trigger files found.") {
		t.Errorf("stderr = %q", stderr)
	}
}
