package logger

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Label identifies the subsystem a diagnostic belongs to.
type Label string

const (
	LabelPrefilter Label = "prefilter"
	LabelMigration Label = "migration"
	LabelScheduler Label = "scheduler"
)

// VerboseLevel is the level used for per-item filter explanations.
const VerboseLevel = zerolog.DebugLevel

// Sink accepts leveled, labeled diagnostic messages.
// Implementations must not block and must not fail.
type Sink interface {
	Record(level zerolog.Level, label Label, message string)
}

type zerologSink struct {
	logger zerolog.Logger
}

// NewSink adapts a zerolog logger to a Sink.
func NewSink(logger zerolog.Logger) Sink {
	return &zerologSink{logger: logger}
}

func (s *zerologSink) Record(level zerolog.Level, label Label, message string) {
	s.logger.WithLevel(level).Str("label", string(label)).Msg(message)
}

// Nop returns a Sink that discards everything.
func Nop() Sink {
	return nopSink{}
}

type nopSink struct{}

func (nopSink) Record(zerolog.Level, Label, string) {}

// Diagnostic is a single recorded message.
type Diagnostic struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Label   Label     `json:"label"`
	Message string    `json:"message"`
}

// Recorder keeps the most recent diagnostics in memory and optionally
// forwards every message to another Sink.
type Recorder struct {
	mu      sync.Mutex
	entries []Diagnostic
	next    int
	full    bool
	forward Sink
	now     func() time.Time
}

// NewRecorder creates a Recorder holding at most capacity entries.
func NewRecorder(capacity int, forward Sink) *Recorder {
	if capacity <= 0 {
		capacity = 1000
	}
	if forward == nil {
		forward = Nop()
	}
	return &Recorder{
		entries: make([]Diagnostic, capacity),
		forward: forward,
		now:     time.Now,
	}
}

// Record stores the diagnostic, overwriting the oldest one when full.
func (r *Recorder) Record(level zerolog.Level, label Label, message string) {
	r.forward.Record(level, label, message)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = Diagnostic{
		Time:    r.now(),
		Level:   level.String(),
		Label:   label,
		Message: message,
	}
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
}

// Entries returns the stored diagnostics from oldest to newest.
func (r *Recorder) Entries() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]Diagnostic, r.next)
		copy(out, r.entries[:r.next])
		return out
	}

	out := make([]Diagnostic, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	out = append(out, r.entries[:r.next]...)
	return out
}

// Messages returns only the message text of stored diagnostics with the given label.
func (r *Recorder) Messages(label Label) []string {
	var out []string
	for _, d := range r.Entries() {
		if d.Label == label {
			out = append(out, d.Message)
		}
	}
	return out
}

// Reset drops all stored diagnostics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = 0
	r.full = false
}
