package dbg

import "github.com/google/uuid"

// ResumeDirective is the operator's decision on how paused execution should
// continue.
type ResumeDirective int

const (
	// ResumeUnset means no decision has been made yet.
	ResumeUnset ResumeDirective = iota
	// ResumeContinue resumes normal execution.
	ResumeContinue
	// ResumeStepInto executes the next statement, descending into calls.
	ResumeStepInto
	// ResumeStepOver executes the next statement without descending.
	ResumeStepOver
	// ResumeStepOut runs until the current function returns.
	ResumeStepOut
	// ResumeAbort terminates the debugged program.
	ResumeAbort
)

// String returns the string representation of the directive.
func (d ResumeDirective) String() string {
	switch d {
	case ResumeUnset:
		return "unset"
	case ResumeContinue:
		return "continue"
	case ResumeStepInto:
		return "step-into"
	case ResumeStepOver:
		return "step-over"
	case ResumeStepOut:
		return "step-out"
	case ResumeAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Breakpoint is an opaque reference to a host-engine breakpoint. The console
// only needs display text and whether the breakpoint is the designated
// fatal-error watch.
type Breakpoint interface {
	// Display returns the text shown when the breakpoint is hit.
	Display() string

	// IsFatalWatch reports whether this is the fatal-error watch breakpoint
	// used to intercept otherwise-terminating failures.
	IsFatalWatch() bool
}

// InvocationInfo describes where execution is paused.
type InvocationInfo struct {
	// ScriptPath is the source file, empty when the frame has no file
	// (interactive input, native code).
	ScriptPath string

	// LineNumber is the 1-based line within ScriptPath.
	LineNumber int

	// PositionText is the engine's own rendering of the position, shown
	// when source context is unavailable.
	PositionText string
}

// StopEvent is one "execution stopped" notification. It is created by the
// engine adapter, handed to the registered stop handler, and read back after
// the handler returns.
type StopEvent struct {
	// ID correlates transcript and log lines for one stop.
	ID string

	// Breakpoints holds the breakpoints hit at this stop, possibly empty
	// for step or watch stops.
	Breakpoints []Breakpoint

	// Invocation is the paused location.
	Invocation InvocationInfo

	directive ResumeDirective
}

// NewStopEvent creates a stop event for the given location.
func NewStopEvent(invocation InvocationInfo, breakpoints ...Breakpoint) *StopEvent {
	return &StopEvent{
		ID:          uuid.NewString(),
		Breakpoints: breakpoints,
		Invocation:  invocation,
	}
}

// Resume returns the directive set by the handler, or ResumeUnset.
func (e *StopEvent) Resume() ResumeDirective {
	return e.directive
}

// SetResume records the operator's directive. The first call wins; later
// calls are ignored so the directive stays write-once.
func (e *StopEvent) SetResume(d ResumeDirective) {
	if e.directive != ResumeUnset {
		return
	}
	e.directive = d
}

// Resumed reports whether a directive has been set.
func (e *StopEvent) Resumed() bool {
	return e.directive != ResumeUnset
}

// Frame is one entry of the call stack while stopped.
type Frame struct {
	// Command is the function or command name, empty for anonymous code.
	Command string

	// Location is the engine's text for where the frame is executing.
	Location string

	// Arguments is the engine's text for the frame's arguments.
	Arguments string

	// ScriptPath is the source file, empty when none is associated.
	ScriptPath string

	// LineNumber is the current line within ScriptPath.
	LineNumber int
}

// StopHandler is invoked by the engine on every stop. It must set a resume
// directive on the event before returning.
type StopHandler func(*StopEvent)

// Engine is the host execution engine as seen by the console.
type Engine interface {
	// OnStop registers the stop handler. Registration replaces any prior
	// handler; registering the same handler twice is harmless.
	OnStop(StopHandler)
}

// Evaluator runs one line of host-language text.
type Evaluator interface {
	// Evaluate executes text and returns its textual result. A non-nil
	// error carries the evaluator's own description of the failure.
	Evaluate(text string) (string, error)
}

// StackReader reports call frames for the current stop, innermost first.
type StackReader interface {
	Frames() []Frame
}
