// Package workspace models the set of folders an activation run operates
// on and inspects them for Dart and Flutter projects.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/usher/internal/output"
)

// Folder is one root folder of the workspace.
type Folder struct {
	Path string
	Name string
}

// Workspace is an ordered list of folders. Order is preserved from the
// command line so scans visit folders deterministically.
type Workspace struct {
	Folders []Folder
}

// Discover builds a workspace from the given folder paths. With no paths,
// the current directory is the single workspace folder.
func Discover(paths []string) (*Workspace, error) {
	if len(paths) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, output.NewSystemErrorWithCause("resolving current directory", err)
		}
		paths = []string{cwd}
	}

	ws := &Workspace{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, output.NewSystemErrorWithCause(fmt.Sprintf("resolving %s", p), err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, output.NewUserError(fmt.Sprintf("folder not found: %s", p))
		}
		if !info.IsDir() {
			return nil, output.NewUserError(fmt.Sprintf("not a folder: %s", p))
		}
		ws.Folders = append(ws.Folders, Folder{Path: abs, Name: filepath.Base(abs)})
	}
	return ws, nil
}

// FolderReport describes what was found in one workspace folder.
type FolderReport struct {
	Path string `json:"path"`
	Name string `json:"name"`
	// FlutterProject is the directory of the first pubspec.yaml that
	// depends on flutter, or empty when none was found.
	FlutterProject string `json:"flutter_project,omitempty"`
}

// Report is the result of inspecting every workspace folder.
type Report struct {
	Folders []FolderReport `json:"folders"`
}

// HasFlutterProject reports whether any folder contains a Flutter project.
func (r Report) HasFlutterProject() bool {
	for _, f := range r.Folders {
		if f.FlutterProject != "" {
			return true
		}
	}
	return false
}

// Inspect walks each folder up to maxDepth levels looking for pubspec.yaml
// files that declare a flutter dependency. Hidden directories and Dart
// build output are skipped.
func (w *Workspace) Inspect(maxDepth int) Report {
	report := Report{}
	for _, folder := range w.Folders {
		fr := FolderReport{Path: folder.Path, Name: folder.Name}
		fr.FlutterProject = findFlutterProject(folder.Path, maxDepth)
		report.Folders = append(report.Folders, fr)
	}
	return report
}

// findFlutterProject returns the directory of the first flutter pubspec
// under root, or empty. Walk errors are treated as "not found" so a broken
// symlink never aborts activation.
func findFlutterProject(root string, maxDepth int) string {
	found := ""
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if skipDir(name) || depthOf(root, path) >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != "pubspec.yaml" {
			return nil
		}
		if pubspecDependsOnFlutter(path) {
			found = filepath.Dir(path)
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// skipDir reports whether a directory should be excluded from project
// detection. Hidden directories, tool caches, and build output never
// contain user pubspecs worth reporting.
func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "build", "node_modules":
		return true
	}
	return false
}

// depthOf returns how many levels below root a path sits.
func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

// pubspec is the subset of pubspec.yaml needed for project detection.
type pubspec struct {
	Name         string         `yaml:"name"`
	Dependencies map[string]any `yaml:"dependencies"`
}

// pubspecDependsOnFlutter reports whether the pubspec at path declares a
// flutter dependency. Unreadable or malformed pubspecs count as non-Flutter.
func pubspecDependsOnFlutter(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var ps pubspec
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return false
	}
	_, ok := ps.Dependencies["flutter"]
	return ok
}
