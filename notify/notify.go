// Package notify delivers user-facing error and success messages.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier presents messages to the user. Implementations are side-effecting
// sinks with no state the rest of the client depends on.
type Notifier interface {
	// Error presents a failure message.
	Error(msg string)

	// Success presents a confirmation message.
	Success(msg string)
}

// ZapNotifier implements Notifier by writing structured log entries.
// It is the default sink when the embedding application has no UI surface
// wired up yet.
type ZapNotifier struct {
	log *zap.Logger
}

// NewZapNotifier creates a Notifier backed by the given logger.
func NewZapNotifier(log *zap.Logger) *ZapNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapNotifier{log: log}
}

// Error implements Notifier.
func (n *ZapNotifier) Error(msg string) {
	n.log.Error("notification", zap.String("kind", "error"), zap.String("message", msg))
}

// Success implements Notifier.
func (n *ZapNotifier) Success(msg string) {
	n.log.Info("notification", zap.String("kind", "success"), zap.String("message", msg))
}

// Nop is a Notifier that discards everything.
type Nop struct{}

// Error implements Notifier.
func (Nop) Error(string) {}

// Success implements Notifier.
func (Nop) Success(string) {}

// Recorder is a thread-safe Notifier that captures messages in memory.
// It exists for tests and for UIs that drain notifications on their own
// schedule.
type Recorder struct {
	mu        sync.Mutex
	errors    []string
	successes []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Error implements Notifier.
func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// Success implements Notifier.
func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

// Errors returns a copy of the captured error messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Successes returns a copy of the captured success messages.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Compile-time checks that all sinks implement Notifier.
var (
	_ Notifier = (*ZapNotifier)(nil)
	_ Notifier = Nop{}
	_ Notifier = (*Recorder)(nil)
)
