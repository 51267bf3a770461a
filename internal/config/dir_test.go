package config

import (
	"path/filepath"
	"testing"
)

func TestDir_ExplicitOverride(t *testing.T) {
	t.Setenv("USHER_CONFIG_HOME", "/custom/path")
	if got := Dir(); got != "/custom/path" {
		t.Errorf("Dir() = %q, want %q", got, "/custom/path")
	}
}

func TestDir_Default(t *testing.T) {
	t.Setenv("USHER_CONFIG_HOME", "")

	dir := Dir()
	if dir == "" {
		t.Fatal("Dir() returned empty string")
	}
	if filepath.Base(dir) != "usher" {
		t.Errorf("Dir() = %q, want path ending in 'usher'", dir)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("USHER_CONFIG_HOME", "/custom/path")
	if got := Path(); got != filepath.Join("/custom/path", FileName) {
		t.Errorf("Path() = %q, want config.yaml under the config dir", got)
	}
}
