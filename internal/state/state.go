// Package state provides the persisted activation state for usher: which
// one-time prompts have been resolved and how the DevTools notification
// throttle currently stands.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is the current schema version for the state document.
const SchemaVersion = "usher.activation/v1"

// State is the activation state document. One per installation, stored as a
// single JSON file. Prompt ids get their own map rather than sharing a flat
// key namespace with the throttle fields, so ids can never collide with
// other state.
type State struct {
	Schema    string          `json:"schema"`
	Prompts   map[string]bool `json:"prompts,omitempty"`
	DevTools  DevToolsState   `json:"devtools"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DevToolsState tracks how often the DevTools notification has been shown.
// LastShown is epoch milliseconds; zero means never shown.
type DevToolsState struct {
	ShownCount int   `json:"shown_count"`
	LastShown  int64 `json:"last_shown,omitempty"`
	NoRepeat   bool  `json:"no_repeat,omitempty"`
}

// New returns an empty state document at the current schema version.
func New() *State {
	return &State{
		Schema:  SchemaVersion,
		Prompts: make(map[string]bool),
	}
}

// HasPrompted reports whether the prompt with the given id has been
// resolved definitively.
func (s *State) HasPrompted(id string) bool {
	return s.Prompts[id]
}

// MarkPrompted records that the prompt with the given id resolved
// definitively and must never show again.
func (s *State) MarkPrompted(id string) {
	if s.Prompts == nil {
		s.Prompts = make(map[string]bool)
	}
	s.Prompts[id] = true
}

// ClearPrompt removes the seen-flag for a prompt id, making it offerable
// again. Used by usher reset.
func (s *State) ClearPrompt(id string) {
	delete(s.Prompts, id)
}

// LastShownTime returns the last-shown stamp as a time.Time.
// Returns the zero time if the notification has never been shown.
func (d *DevToolsState) LastShownTime() time.Time {
	if d.LastShown == 0 {
		return time.Time{}
	}
	return time.UnixMilli(d.LastShown)
}

// RecordShown bumps the shown-count and stamps the display time.
// The count never decreases.
func (d *DevToolsState) RecordShown(now time.Time) {
	d.ShownCount++
	d.LastShown = now.UnixMilli()
}

// normalize fills defaults after deserialization so older or hand-edited
// documents behave like fresh ones.
func (s *State) normalize() {
	if s.Schema == "" {
		s.Schema = SchemaVersion
	}
	if s.Prompts == nil {
		s.Prompts = make(map[string]bool)
	}
	if s.DevTools.ShownCount < 0 {
		s.DevTools.ShownCount = 0
	}
}

// ToJSON serializes the state document.
func (s *State) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing state to JSON: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a state document.
func FromJSON(data []byte) (*State, error) {
	if len(data) == 0 {
		return nil, errors.New("empty state document")
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing state JSON: %w", err)
	}
	s.normalize()

	return &s, nil
}
