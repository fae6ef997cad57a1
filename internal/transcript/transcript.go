// Package transcript routes debugger output to the operator.
//
// Two sinks exist: a console sink writing synchronously to an interactive
// channel, and a file sink appending to a transcript file that a companion
// viewer process tails. The viewer is best-effort; its absence never blocks
// or fails the debugger.
package transcript

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dshills/luadbg/internal/logging"
)

// Sink is where debugger text goes.
type Sink interface {
	// Write emits one piece of transcript text.
	Write(text string)

	// Watch launches the companion viewer on demand. It is a no-op for
	// sinks that have no viewer.
	Watch()
}

// ConsoleSink writes transcript text synchronously to an interactive channel.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink creates a sink writing to out, defaulting to os.Stdout.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSink{out: out}
}

// Write writes text followed by a newline.
func (s *ConsoleSink) Write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, text)
}

// Watch is a no-op: the console is already in front of the operator.
func (s *ConsoleSink) Watch() {}

// Spawner launches the companion viewer process for a transcript file.
type Spawner interface {
	Spawn(path string) error
}

// FileSink appends transcript text to a file and spawns a companion viewer
// on the first write after attach.
type FileSink struct {
	mu        sync.Mutex
	path      string
	spawner   Spawner
	spawnDone bool
	lastErr   error
	log       *logging.Logger
}

// NewFileSink creates a sink appending to path. The spawner launches the
// companion viewer; pass nil for the default process spawner.
func NewFileSink(path string, spawner Spawner, log *logging.Logger) *FileSink {
	if spawner == nil {
		spawner = NewViewerSpawner(log)
	}
	if log == nil {
		log = logging.NullLogger
	}
	return &FileSink{
		path:    path,
		spawner: spawner,
		log:     log.WithComponent("transcript"),
	}
}

// Path returns the transcript file path.
func (s *FileSink) Path() string {
	return s.path
}

// Write appends text plus a line terminator to the transcript file. The
// first write after attach spawns the companion viewer exactly once.
//
// An unwritable file (removed, disk full) drops the text: transcript loss is
// preferable to failing the debugged program. The error is logged once per
// state change.
func (s *FileSink) Write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.append(text)
	if (err == nil) != (s.lastErr == nil) {
		if err != nil {
			s.log.Debug("transcript write failed: %v", err)
		} else {
			s.log.Debug("transcript writes recovered")
		}
	}
	s.lastErr = err

	if !s.spawnDone {
		s.spawnDone = true
		s.spawnViewer()
	}
}

// Watch spawns the companion viewer regardless of the one-shot state.
func (s *FileSink) Watch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawnDone = true
	s.spawnViewer()
}

func (s *FileSink) append(text string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(text + "\n")
	return err
}

// spawnViewer launches the viewer. Failure is non-fatal; the debugger keeps
// running in file-only mode.
func (s *FileSink) spawnViewer() {
	if err := s.spawner.Spawn(s.path); err != nil {
		s.log.Debug("viewer spawn failed: %v", err)
	}
}
