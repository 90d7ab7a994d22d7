// Package notify carries short human-facing status messages from the core to
// whatever surface the host offers. Delivery is fire-and-forget: Send never
// propagates a failure or panic from a sink.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// Level classifies a notice.
type Level string

const (
	LevelOK   Level = "ok"
	LevelInfo Level = "info"
	LevelErr  Level = "err"
)

// Default display durations.
const (
	DurationOK         = 1800 * time.Millisecond
	DurationErr        = 3600 * time.Millisecond
	DurationCapability = 3200 * time.Millisecond
)

// Sink shows a notice to a human for roughly d.
type Sink interface {
	Notice(msg string, level Level, d time.Duration)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(msg string, level Level, d time.Duration)

// Notice calls f.
func (f SinkFunc) Notice(msg string, level Level, d time.Duration) {
	f(msg, level, d)
}

// Send delivers a notice, tolerating a nil sink and swallowing panics.
func Send(sink Sink, msg string, level Level, d time.Duration) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger := logging.GetLogger("notify")
			logger.Debug().
				Interface("panic", r).
				Msg("Notification sink failed")
		}
	}()
	sink.Notice(msg, level, d)
}

// LogSink writes notices to a zerolog logger.
type LogSink struct {
	Logger zerolog.Logger
}

// NewLogSink returns a sink logging under the "notify" component.
func NewLogSink() *LogSink {
	return &LogSink{Logger: logging.GetLogger("notify")}
}

// Notice implements Sink.
func (s *LogSink) Notice(msg string, level Level, d time.Duration) {
	ev := s.Logger.Info()
	if level == LevelErr {
		ev = s.Logger.Error()
	}
	ev.Str("level", string(level)).Dur("duration", d).Msg(msg)
}

// TerminalSink prints notices with pterm prefixes.
type TerminalSink struct {
	Out io.Writer
}

// NewTerminalSink returns a sink printing to stderr.
func NewTerminalSink() *TerminalSink {
	return &TerminalSink{Out: os.Stderr}
}

// Notice implements Sink.
func (s *TerminalSink) Notice(msg string, level Level, _ time.Duration) {
	out := s.Out
	if out == nil {
		out = os.Stderr
	}
	printer := pterm.Info
	switch level {
	case LevelOK:
		printer = pterm.Success
	case LevelErr:
		printer = pterm.Error
	}
	printer.WithWriter(out).Println(msg)
}

// Notice is one recorded notice.
type Notice struct {
	Message  string
	Level    Level
	Duration time.Duration
}

// String renders the notice for test failure output.
func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s (%s)", n.Level, n.Message, n.Duration)
}

// Recorder is a Sink that keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notice implements Sink.
func (r *Recorder) Notice(msg string, level Level, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Message: msg, Level: level, Duration: d})
}

// Notices returns a copy of everything recorded.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
