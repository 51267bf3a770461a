package host

import (
	"context"
	"fmt"
	"sync"
)

// Recorder is a Host that captures every interaction instead of rendering
// it. MCP handlers use it to return prompts and side effects as structured
// data, and tests use it to script answers.
type Recorder struct {
	mu       sync.Mutex
	answers  map[string]Choice
	fallback Choice
	messages []string
	errs     []string
	prompts  []Prompt
	files    []string
	urls     []string
}

// NewRecorder creates a recorder that answers every prompt with Decline
// until scripted otherwise.
func NewRecorder() *Recorder {
	return &Recorder{answers: map[string]Choice{}}
}

// Answer scripts the choice returned for a prompt ID. Returns the recorder
// for chaining.
func (r *Recorder) Answer(id string, c Choice) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers[id] = c
	return r
}

// SetFallback sets the choice returned for prompts without a scripted
// answer.
func (r *Recorder) SetFallback(c Choice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = c
}

// Info records an informational message.
func (r *Recorder) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Errorf records an error notification.
func (r *Recorder) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

// Ask records the prompt and returns its scripted answer.
func (r *Recorder) Ask(_ context.Context, p Prompt) (Choice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, p)
	if c, ok := r.answers[p.ID]; ok {
		return c, nil
	}
	return r.fallback, nil
}

// OpenFile records the file path.
func (r *Recorder) OpenFile(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, path)
	return nil
}

// OpenURL records the URL.
func (r *Recorder) OpenURL(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	return nil
}

// Messages returns the recorded informational messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// ErrorMessages returns the recorded error notifications.
func (r *Recorder) ErrorMessages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errs...)
}

// Prompts returns the recorded prompts in the order they were asked.
func (r *Recorder) Prompts() []Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Prompt(nil), r.prompts...)
}

// OpenedFiles returns the recorded file paths.
func (r *Recorder) OpenedFiles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

// OpenedURLs returns the recorded URLs.
func (r *Recorder) OpenedURLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}
