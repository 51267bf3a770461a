package trigger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorewood/usher/internal/host"
	"github.com/gorewood/usher/internal/workspace"
)

type createCall struct {
	dir      string
	template string
}

type flutterCall struct {
	dir         string
	projectName string
	sampleID    string
}

// stubCreator records scaffolding calls without running anything.
type stubCreator struct {
	dartCalls    []createCall
	flutterCalls []flutterCall
	pubGets      []string
	dartErr      error
	flutterErr   error
}

func (c *stubCreator) DartCreate(_ context.Context, dir string, template string) error {
	c.dartCalls = append(c.dartCalls, createCall{dir: dir, template: template})
	return c.dartErr
}

func (c *stubCreator) FlutterCreate(_ context.Context, dir string, projectName string, sampleID string) error {
	c.flutterCalls = append(c.flutterCalls, flutterCall{dir: dir, projectName: projectName, sampleID: sampleID})
	return c.flutterErr
}

func (c *stubCreator) PubGet(_ context.Context, dir string) error {
	c.pubGets = append(c.pubGets, dir)
	return nil
}

// newTestFolder creates a named folder so entrypoint substitution is
// deterministic.
func newTestFolder(t *testing.T, name string) workspace.Folder {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("creating folder: %v", err)
	}
	return workspace.Folder{Path: path, Name: name}
}

func writeMarker(t *testing.T, folder workspace.Folder, marker string, content string) string {
	t.Helper()
	path := filepath.Join(folder.Path, marker)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing marker: %v", err)
	}
	return path
}

func writeEntryFile(t *testing.T, folder workspace.Folder, rel string) string {
	t.Helper()
	path := filepath.Join(folder.Path, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating entry dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("void main() {}\n"), 0o644); err != nil {
		t.Fatalf("writing entry file: %v", err)
	}
	return path
}

func TestScanFolderScaffoldingSuccess(t *testing.T) {
	folder := newTestFolder(t, "proj")
	markerPath := writeMarker(t, folder, MarkerDartCreate,
		`{"name":"x","label":"Console App","entrypoint":"bin/__projectName__.dart"}`)
	entryPath := writeEntryFile(t, folder, filepath.Join("bin", "proj.dart"))

	creator := &stubCreator{}
	rec := host.NewRecorder()
	results := NewScanner(creator, rec).ScanFolder(context.Background(), folder)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]
	if !res.Created || res.Template != "x" {
		t.Errorf("result = %+v", res)
	}
	if res.Opened != entryPath {
		t.Errorf("Opened = %q, want %q", res.Opened, entryPath)
	}

	if len(creator.dartCalls) != 1 {
		t.Fatalf("dart create called %d times, want 1", len(creator.dartCalls))
	}
	if call := creator.dartCalls[0]; call.dir != folder.Path || call.template != "x" {
		t.Errorf("dart create call = %+v", call)
	}
	if len(creator.pubGets) != 1 || creator.pubGets[0] != folder.Path {
		t.Errorf("pub get calls = %v", creator.pubGets)
	}

	// Placeholder replaced with the folder base name.
	if files := rec.OpenedFiles(); len(files) != 1 || files[0] != entryPath {
		t.Errorf("OpenedFiles() = %v, want %q", files, entryPath)
	}
	if msgs := rec.Messages(); len(msgs) != 1 || msgs[0] != "Your Console App project is ready!" {
		t.Errorf("Messages() = %v", msgs)
	}

	if _, err := os.Stat(markerPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("marker file still exists after successful handling")
	}
}

func TestScanFolderMalformedDescriptor(t *testing.T) {
	folder := newTestFolder(t, "proj")
	markerPath := writeMarker(t, folder, MarkerDartCreate, `{not json`)

	creator := &stubCreator{}
	rec := host.NewRecorder()
	results := NewScanner(creator, rec).ScanFolder(context.Background(), folder)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Err == "" || results[0].Created {
		t.Errorf("result = %+v", results[0])
	}

	if len(creator.dartCalls) != 0 {
		t.Error("create invoked for a malformed descriptor")
	}
	if len(rec.ErrorMessages()) != 1 {
		t.Errorf("ErrorMessages() = %v, want one parse error", rec.ErrorMessages())
	}
	if _, err := os.Stat(markerPath); err != nil {
		t.Error("malformed marker must stay on disk for inspection")
	}
}

func TestScanFolderCreateFailureSkipsWelcome(t *testing.T) {
	folder := newTestFolder(t, "proj")
	markerPath := writeMarker(t, folder, MarkerDartCreate,
		`{"name":"web","label":"Web App","entrypoint":"web/index.html"}`)
	writeEntryFile(t, folder, filepath.Join("web", "index.html"))

	creator := &stubCreator{dartErr: errors.New("dart create exited with status 1")}
	rec := host.NewRecorder()
	results := NewScanner(creator, rec).ScanFolder(context.Background(), folder)

	if results[0].Created {
		t.Error("Created = true after a failed create")
	}
	if len(creator.pubGets) != 0 {
		t.Error("pub get ran after a failed create")
	}
	if len(rec.OpenedFiles()) != 0 {
		t.Error("entry file opened after a failed create")
	}
	// The external command reports its own failure.
	if len(rec.Messages()) != 0 {
		t.Errorf("Messages() = %v, want none", rec.Messages())
	}
	if _, err := os.Stat(markerPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("marker survives create failure; it was consumed at parse time")
	}
}

func TestScanFolderMissingEntryStillShowsMessage(t *testing.T) {
	folder := newTestFolder(t, "proj")
	writeMarker(t, folder, MarkerDartStagehand,
		`{"name":"cli","label":"CLI App","entrypoint":"bin/__projectName__.dart"}`)

	creator := &stubCreator{}
	rec := host.NewRecorder()
	results := NewScanner(creator, rec).ScanFolder(context.Background(), folder)

	if results[0].Opened != "" {
		t.Errorf("Opened = %q, want empty", results[0].Opened)
	}
	if len(rec.OpenedFiles()) != 0 {
		t.Error("opened a file that does not exist")
	}
	if msgs := rec.Messages(); len(msgs) != 1 || msgs[0] != "Your CLI App project is ready!" {
		t.Errorf("Messages() = %v", msgs)
	}
}

func TestScanFolderFrameworkSample(t *testing.T) {
	folder := newTestFolder(t, "demo")
	markerPath := writeMarker(t, folder, MarkerFlutterCreate, "material.AppBar.1\n")
	entryPath := writeEntryFile(t, folder, filepath.Join("lib", "main.dart"))

	creator := &stubCreator{}
	rec := host.NewRecorder()
	results := NewScanner(creator, rec).ScanFolder(context.Background(), folder)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !results[0].Created || results[0].Template != "material.AppBar.1" {
		t.Errorf("result = %+v", results[0])
	}

	if len(creator.flutterCalls) != 1 {
		t.Fatalf("flutter create called %d times, want 1", len(creator.flutterCalls))
	}
	call := creator.flutterCalls[0]
	if call.dir != folder.Path || call.projectName != "sample" || call.sampleID != "material.AppBar.1" {
		t.Errorf("flutter create call = %+v", call)
	}

	if files := rec.OpenedFiles(); len(files) != 1 || files[0] != entryPath {
		t.Errorf("OpenedFiles() = %v", files)
	}
	if msgs := rec.Messages(); len(msgs) != 1 || msgs[0] != "Your material.AppBar.1 sample is ready!" {
		t.Errorf("Messages() = %v", msgs)
	}
	if _, err := os.Stat(markerPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("framework marker still exists after handling")
	}
}

func TestScanFolderFrameworkWhitespaceOnly(t *testing.T) {
	folder := newTestFolder(t, "demo")
	markerPath := writeMarker(t, folder, MarkerFlutterCreate, "  \n\t")

	creator := &stubCreator{}
	rec := host.NewRecorder()
	NewScanner(creator, rec).ScanFolder(context.Background(), folder)

	// Whitespace-only content means no sample identifier at all.
	call := creator.flutterCalls[0]
	if call.projectName != "" || call.sampleID != "" {
		t.Errorf("flutter create call = %+v, want no name and no sample", call)
	}
	if msgs := rec.Messages(); len(msgs) != 1 || msgs[0] != "Your Flutter project is ready!" {
		t.Errorf("Messages() = %v, want the generic ready message", msgs)
	}
	if _, err := os.Stat(markerPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("framework marker still exists after handling")
	}
}

func TestScanFolderFrameworkCreateFailure(t *testing.T) {
	folder := newTestFolder(t, "demo")
	writeMarker(t, folder, MarkerFlutterCreate, "material.AppBar.1")
	writeEntryFile(t, folder, filepath.Join("lib", "main.dart"))

	creator := &stubCreator{flutterErr: errors.New("flutter create exited with status 66")}
	rec := host.NewRecorder()
	results := NewScanner(creator, rec).ScanFolder(context.Background(), folder)

	if results[0].Created {
		t.Error("Created = true after a failed create")
	}
	if len(rec.OpenedFiles()) != 0 || len(rec.Messages()) != 0 {
		t.Error("welcome steps ran after a failed create")
	}
}

func TestScanFolderMarkerOrder(t *testing.T) {
	folder := newTestFolder(t, "multi")
	writeMarker(t, folder, MarkerFlutterCreate, "")
	writeMarker(t, folder, MarkerDartStagehand, `{"name":"b","label":"B","entrypoint":"b.dart"}`)
	writeMarker(t, folder, MarkerDartCreate, `{"name":"a","label":"A","entrypoint":"a.dart"}`)

	creator := &stubCreator{}
	results := NewScanner(creator, host.NewRecorder()).ScanFolder(context.Background(), folder)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	wantOrder := []string{MarkerDartCreate, MarkerDartStagehand, MarkerFlutterCreate}
	for i, want := range wantOrder {
		if results[i].Marker != want {
			t.Errorf("results[%d].Marker = %q, want %q", i, results[i].Marker, want)
		}
	}
}

func TestScanAllFolderOrder(t *testing.T) {
	first := newTestFolder(t, "one")
	second := newTestFolder(t, "two")
	writeMarker(t, first, MarkerFlutterCreate, "")
	writeMarker(t, second, MarkerFlutterCreate, "")

	ws := &workspace.Workspace{Folders: []workspace.Folder{first, second}}
	creator := &stubCreator{}
	result := NewScanner(creator, host.NewRecorder()).ScanAll(context.Background(), ws)

	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	if result.Results[0].Folder != first.Path || result.Results[1].Folder != second.Path {
		t.Errorf("folder order = %q, %q", result.Results[0].Folder, result.Results[1].Folder)
	}
}

func TestScanFolderNoMarkers(t *testing.T) {
	folder := newTestFolder(t, "empty")

	creator := &stubCreator{}
	results := NewScanner(creator, host.NewRecorder()).ScanFolder(context.Background(), folder)

	if len(results) != 0 {
		t.Errorf("got %d results for an empty folder, want 0", len(results))
	}
	if len(creator.dartCalls)+len(creator.flutterCalls) != 0 {
		t.Error("create invoked with no markers present")
	}
}
