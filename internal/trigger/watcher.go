package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gorewood/usher/internal/output"
	"github.com/gorewood/usher/internal/workspace"
)

// defaultDebounce batches rapid marker events per folder. Bootstrap tools
// write the marker in one shot, so a short window is enough.
const defaultDebounce = 250 * time.Millisecond

// Watcher keeps a scanner resident and re-runs it when a marker file
// appears in a workspace folder. All scans run on the watch loop
// goroutine, so marker handling never interleaves.
type Watcher struct {
	scanner  *Scanner
	ws       *workspace.Workspace
	debounce time.Duration

	// OnScan receives each scan result. Nil drops results.
	OnScan func(ScanResult)
}

// NewWatcher creates a watcher over the workspace folders.
func NewWatcher(scanner *Scanner, ws *workspace.Workspace) *Watcher {
	return &Watcher{
		scanner:  scanner,
		ws:       ws,
		debounce: defaultDebounce,
	}
}

// Run scans once, then watches until ctx is done. The initial scan handles
// markers that predate the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return output.NewSystemErrorWithCause("starting filesystem watcher", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, folder := range w.ws.Folders {
		if err := fsw.Add(folder.Path); err != nil {
			return output.NewSystemErrorWithCause(fmt.Sprintf("watching %s", folder.Path), err)
		}
		slog.Debug("watching folder", "path", folder.Path)
	}

	w.emit(w.scanner.ScanAll(ctx, w.ws))

	pending := map[string]workspace.Folder{}
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			folder, ok := w.folderFor(event.Name)
			if !ok {
				continue
			}
			slog.Debug("marker event", "path", event.Name, "op", event.Op.String())
			pending[folder.Path] = folder
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			var results []MarkerResult
			// Flush in workspace order, not map order.
			for _, folder := range w.ws.Folders {
				if _, ok := pending[folder.Path]; ok {
					results = append(results, w.scanner.ScanFolder(ctx, folder)...)
				}
			}
			pending = map[string]workspace.Folder{}
			if len(results) > 0 {
				w.emit(ScanResult{Results: results})
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

// folderFor maps a marker event path to its workspace folder. Events for
// files other than the three marker names are ignored.
func (w *Watcher) folderFor(path string) (workspace.Folder, bool) {
	name := filepath.Base(path)
	if !slices.Contains(MarkerNames, name) {
		return workspace.Folder{}, false
	}
	dir := filepath.Dir(path)
	for _, folder := range w.ws.Folders {
		if folder.Path == dir {
			return folder, true
		}
	}
	return workspace.Folder{}, false
}

// emit hands a scan result to the observer.
func (w *Watcher) emit(result ScanResult) {
	if w.OnScan != nil {
		w.OnScan(result)
	}
}
