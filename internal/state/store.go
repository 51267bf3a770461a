package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"

	"github.com/gorewood/usher/internal/output"
)

// stateFileName is the name of the state document inside the state directory.
const stateFileName = "state.json"

// Dir returns the usher state directory.
//
// Resolution:
//   - $USHER_STATE_HOME if set (explicit override)
//   - the platform state home (XDG state dir on Linux, the platform
//     equivalent elsewhere) plus "usher"
func Dir() string {
	if dir := os.Getenv("USHER_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, "usher")
}

// Store reads and writes the state document. Load-modify-save cycles are
// serialized behind a mutex; each save is a last-writer-wins replacement of
// the whole document, written atomically.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store rooted at dir. An empty dir uses Dir().
func NewStore(dir string) *Store {
	if dir == "" {
		dir = Dir()
	}
	return &Store{dir: dir}
}

// Path returns the full path of the state document.
func (st *Store) Path() string {
	return filepath.Join(st.dir, stateFileName)
}

// Load reads the state document. A missing file yields a fresh document;
// an unreadable or unparseable file yields a system error so callers can
// degrade without overwriting state they could not read.
func (st *Store) Load() (*State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.load()
}

// load reads without locking; callers hold st.mu.
func (st *Store) load() (*State, error) {
	data, err := os.ReadFile(st.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, output.NewSystemErrorWithCause("failed to read state file: "+st.Path(), err)
	}

	s, err := FromJSON(data)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse state file: "+st.Path(), err)
	}
	return s, nil
}

// Save writes the state document atomically, creating the state directory
// if needed. The updated-at stamp is refreshed on every save.
func (st *Store) Save(s *State) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.save(s)
}

// save writes without locking; callers hold st.mu.
func (st *Store) save(s *State) error {
	s.UpdatedAt = time.Now().UTC()

	data, err := s.ToJSON()
	if err != nil {
		return output.NewSystemError("failed to serialize state: " + err.Error())
	}

	if err = os.MkdirAll(st.dir, 0o755); err != nil {
		return output.NewSystemErrorWithCause("failed to create state directory", err)
	}

	if err = atomicWrite(st.Path(), data); err != nil {
		return output.NewSystemErrorWithCause("failed to write state file", err)
	}
	return nil
}

// Update runs one load-modify-save cycle under the store lock and returns
// the saved document.
func (st *Store) Update(fn func(*State)) (*State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.load()
	if err != nil {
		return nil, err
	}
	fn(s)
	if err := st.save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// atomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
