// Package companion detects whether the Flutter companion extension is
// installed in the user's editor.
package companion

import (
	"os"
	"path/filepath"
	"strings"
)

// extensionPrefix matches installed companion extension directories, which
// carry a version suffix like dart-code.flutter-3.98.0.
const extensionPrefix = "dart-code.flutter"

// ExtensionID is the marketplace identifier passed to the editor CLI when
// installing the companion extension.
const ExtensionID = "Dart-Code.flutter"

// MarketplaceURL is the install page for the companion extension.
const MarketplaceURL = "https://marketplace.visualstudio.com/items?itemName=Dart-Code.flutter"

// Status is the result of a companion check.
type Status struct {
	// Dir is the extensions directory that was inspected.
	Dir string `json:"dir"`
	// Found reports whether the companion extension is installed.
	Found bool `json:"found"`
	// Extension is the matched directory name when found.
	Extension string `json:"extension,omitempty"`
}

// Detector checks an editor extensions directory for the companion
// extension.
type Detector struct {
	dir string
}

// NewDetector creates a detector for the given extensions directory.
// Empty falls back to DefaultDir.
func NewDetector(dir string) *Detector {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Detector{dir: dir}
}

// DefaultDir returns the extensions directory to inspect. Set
// USHER_VSCODE_EXTENSIONS to override the ~/.vscode/extensions default.
func DefaultDir() string {
	if dir := os.Getenv("USHER_VSCODE_EXTENSIONS"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vscode", "extensions")
}

// Check inspects the extensions directory. A missing or unreadable
// directory means the extension is not installed, which is the state of a
// fresh machine.
func (d *Detector) Check() Status {
	status := Status{Dir: d.dir}
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return status
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(strings.ToLower(name), extensionPrefix) {
			status.Found = true
			status.Extension = name
			return status
		}
	}
	return status
}

// Installed reports whether the companion extension is installed.
func (d *Detector) Installed() bool {
	return d.Check().Found
}
