package main

import (
	"encoding/json"
	"testing"
)

func TestDevTools_JSON_Launches(t *testing.T) {
	isolateEnv(t)
	fakeTool(t, "dart", "#!/bin/sh\nexit 0\n")

	stdout, _, err := runUsher(t, "devtools", "--json")
	if err != nil {
		t.Fatalf("devtools: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("parse JSON: %v\nOutput: %s", err, stdout)
	}
	if result["launched"] != true {
		t.Errorf("launched = %v, want true", result["launched"])
	}
}

func TestDevTools_MissingDart(t *testing.T) {
	isolateEnv(t)
	emptyPath(t)

	_, _, err := runUsher(t, "devtools", "--json")
	if err == nil {
		t.Fatal("devtools without a dart binary should fail")
	}
}
