// Package diag carries the error, warning and info messages a build emits
// while it adjusts or rejects its inputs.
//
// Builders never print. They report to a [Sink] supplied by the caller, and
// the caller decides whether messages are logged, collected for a response,
// or discarded.
package diag

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/massform/pkg/errors"
)

// Level is the severity of a diagnostic message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalText renders the level by name in JSON output.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*l = LevelError
	case "warning":
		*l = LevelWarning
	case "info":
		*l = LevelInfo
	default:
		return fmt.Errorf("unknown level %q", b)
	}
	return nil
}

// Message is one recorded diagnostic.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Sink receives diagnostics from builders and placers.
type Sink interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
}

// Fail reports err's user message on the sink's error channel and returns err
// unchanged, so validation sites read as `return nil, diag.Fail(sink, err)`.
func Fail(s Sink, err error) error {
	if err == nil {
		return nil
	}
	s.Error(errors.UserMessage(err))
	return err
}

// Warnf formats and reports a warning.
func Warnf(s Sink, format string, args ...any) {
	s.Warning(fmt.Sprintf(format, args...))
}

// Infof formats and reports an info message.
func Infof(s Sink, format string, args ...any) {
	s.Info(fmt.Sprintf(format, args...))
}

// Nop discards everything.
type Nop struct{}

func (Nop) Error(string)   {}
func (Nop) Warning(string) {}
func (Nop) Info(string)    {}

// Recorder collects messages in order. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: l, Text: msg})
}

func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Warning(msg string) { r.add(LevelWarning, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Texts returns the text of every message at level l.
func (r *Recorder) Texts(l Level) []string {
	var out []string
	for _, m := range r.Messages() {
		if m.Level == l {
			out = append(out, m.Text)
		}
	}
	return out
}

// Warnings is shorthand for Texts(LevelWarning).
func (r *Recorder) Warnings() []string { return r.Texts(LevelWarning) }

// Errors is shorthand for Texts(LevelError).
func (r *Recorder) Errors() []string { return r.Texts(LevelError) }

// LogSink forwards diagnostics to a charm logger.
type LogSink struct {
	Logger *log.Logger
}

// NewLogSink returns a sink writing to logger, or to log.Default() when nil.
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{Logger: logger}
}

func (s *LogSink) Error(msg string)   { s.Logger.Error(msg) }
func (s *LogSink) Warning(msg string) { s.Logger.Warn(msg) }
func (s *LogSink) Info(msg string)    { s.Logger.Debug(msg) }

// Tee fans each message out to every sink.
type Tee []Sink

func (t Tee) Error(msg string) {
	for _, s := range t {
		s.Error(msg)
	}
}

func (t Tee) Warning(msg string) {
	for _, s := range t {
		s.Warning(msg)
	}
}

func (t Tee) Info(msg string) {
	for _, s := range t {
		s.Info(msg)
	}
}
