// Package trigger turns scaffolding marker files into project-creation
// side effects, exactly once per marker. A marker is a fixed-name file at
// a workspace folder root, left behind by a bootstrap flow that wants
// project setup finished: create the project, resolve packages, open the
// entry file.
package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/sdk"
	"github.com/gorewood/usher/internal/workspace"
)

// Marker filenames, in the order they are checked within a folder. The
// scaffolding markers carry a JSON descriptor; the framework marker
// carries an optional plain sample identifier.
const (
	MarkerDartCreate    = "dart.create"
	MarkerDartStagehand = "dart.stagehand"
	MarkerFlutterCreate = "flutter.create"
)

// MarkerNames lists every marker filename the scanner handles.
var MarkerNames = []string{MarkerDartCreate, MarkerDartStagehand, MarkerFlutterCreate}

// projectNamePlaceholder in a descriptor entrypoint is replaced by the
// folder's base name.
const projectNamePlaceholder = "__projectName__"

// Descriptor is the JSON payload of a scaffolding marker.
type Descriptor struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Entrypoint string `json:"entrypoint"`
}

// Creator runs the external scaffolding commands.
type Creator interface {
	DartCreate(ctx context.Context, dir string, template string) error
	FlutterCreate(ctx context.Context, dir string, projectName string, sampleID string) error
	PubGet(ctx context.Context, dir string) error
}

// MarkerResult describes the handling of one marker file.
type MarkerResult struct {
	Folder string `json:"folder"`
	Marker string `json:"marker"`
	// Template is the template name or sample identifier the marker named.
	Template string `json:"template,omitempty"`
	// Created reports whether the external create succeeded.
	Created bool `json:"created"`
	// Opened is the entry file that was opened, if any.
	Opened string `json:"opened,omitempty"`
	Err    string `json:"error,omitempty"`
}

// ScanResult is the outcome of one scan pass.
type ScanResult struct {
	Results []MarkerResult `json:"results"`
}

// Scanner handles trigger markers for workspace folders.
type Scanner struct {
	creator Creator
	host    host.Host
}

// NewScanner creates a scanner that runs creation commands through creator
// and surfaces messages through h.
func NewScanner(creator Creator, h host.Host) *Scanner {
	return &Scanner{creator: creator, host: h}
}

// ScanAll processes folders sequentially in workspace order. Each folder's
// markers are handled to completion before the next folder begins, so two
// markers never race on file deletion.
func (s *Scanner) ScanAll(ctx context.Context, ws *workspace.Workspace) ScanResult {
	result := ScanResult{Results: []MarkerResult{}}
	for _, folder := range ws.Folders {
		if ctx.Err() != nil {
			return result
		}
		result.Results = append(result.Results, s.ScanFolder(ctx, folder)...)
	}
	return result
}

// ScanFolder checks one folder for the three marker kinds in fixed order:
// both scaffolding markers, then the framework marker. Absent markers are
// no-ops.
func (s *Scanner) ScanFolder(ctx context.Context, folder workspace.Folder) []MarkerResult {
	var results []MarkerResult
	for _, marker := range []string{MarkerDartCreate, MarkerDartStagehand} {
		if r, ok := s.handleScaffolding(ctx, folder, marker); ok {
			results = append(results, r)
		}
	}
	if r, ok := s.handleFramework(ctx, folder); ok {
		results = append(results, r)
	}
	return results
}

// handleScaffolding processes one dart.create or dart.stagehand marker.
// The marker is deleted only after its descriptor parses; a malformed
// marker stays on disk for manual inspection and nothing is created.
func (s *Scanner) handleScaffolding(ctx context.Context, folder workspace.Folder, marker string) (MarkerResult, bool) {
	path := filepath.Join(folder.Path, marker)
	data, err := os.ReadFile(path)
	if err != nil {
		return MarkerResult{}, false
	}

	res := MarkerResult{Folder: folder.Path, Marker: marker}

	var desc Descriptor
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &desc); err != nil {
		s.host.Errorf("could not parse %s in %s: %v", marker, folder.Name, err)
		res.Err = fmt.Sprintf("invalid descriptor: %v", err)
		return res, true
	}

	_ = os.Remove(path)
	res.Template = desc.Name

	if err := s.creator.DartCreate(ctx, folder.Path, desc.Name); err != nil {
		// The external command reports its own failure; the welcome
		// steps are skipped without an extra message.
		res.Err = err.Error()
		return res, true
	}
	res.Created = true

	// Package resolution is fire and forget.
	_ = s.creator.PubGet(ctx, folder.Path)

	entry := strings.ReplaceAll(desc.Entrypoint, projectNamePlaceholder, folder.Name)
	entryPath := filepath.Join(folder.Path, entry)
	if _, err := os.Stat(entryPath); err == nil {
		if s.host.OpenFile(ctx, entryPath) == nil {
			res.Opened = entryPath
		}
	}

	s.host.Info(fmt.Sprintf("Your %s project is ready!", desc.Label))
	return res, true
}

// handleFramework processes a flutter.create marker. The payload is an
// optional sample identifier; whitespace-only content means no identifier.
// The marker is deleted before creation runs since there is no parse step
// that could fail.
func (s *Scanner) handleFramework(ctx context.Context, folder workspace.Folder) (MarkerResult, bool) {
	path := filepath.Join(folder.Path, MarkerFlutterCreate)
	data, err := os.ReadFile(path)
	if err != nil {
		return MarkerResult{}, false
	}

	res := MarkerResult{Folder: folder.Path, Marker: MarkerFlutterCreate}
	sampleID := strings.TrimSpace(string(data))
	res.Template = sampleID

	_ = os.Remove(path)

	projectName := ""
	if sampleID != "" {
		projectName = sdk.SampleProjectName
	}
	if err := s.creator.FlutterCreate(ctx, folder.Path, projectName, sampleID); err != nil {
		res.Err = err.Error()
		return res, true
	}
	res.Created = true

	entryPath := filepath.Join(folder.Path, "lib", "main.dart")
	if _, err := os.Stat(entryPath); err == nil {
		if s.host.OpenFile(ctx, entryPath) == nil {
			res.Opened = entryPath
		}
	}

	if sampleID != "" {
		s.host.Info(fmt.Sprintf("Your %s sample is ready!", sampleID))
	} else {
		s.host.Info("Your Flutter project is ready!")
	}
	return res, true
}
