package command

import (
	"errors"
	"fmt"

	"github.com/dshills/luadbg/internal/dbg"
	"github.com/dshills/luadbg/internal/history"
	"github.com/dshills/luadbg/internal/source"
	"github.com/dshills/luadbg/internal/transcript"
)

// Env is what a dispatched command can touch. The session implements it; the
// indirection keeps this package free of session state.
type Env interface {
	// Sink is the transcript destination.
	Sink() transcript.Sink

	// History is the operator input history.
	History() *history.Ring

	// Evaluator runs host-language expressions; may be nil.
	Evaluator() dbg.Evaluator

	// Stack reads the current call frames; may be nil.
	Stack() dbg.StackReader

	// ShowLocation re-renders the current stop location with the given
	// context radius.
	ShowLocation(radius int)

	// ContextRadius returns the effective context preference.
	ContextRadius() int

	// PinContext persists radius as the session default.
	PinContext(radius int)

	// RequestWatch relaunches the viewer, or remembers the wish when the
	// transcript has no viewer yet.
	RequestWatch()
}

// Dispatch executes one line of operator input against the active stop
// event. It returns true when the input produced a resume directive and the
// prompt loop should exit.
//
// Every input is echoed to the transcript as "DBG> <input>" before it runs.
func Dispatch(env Env, event *dbg.StopEvent, input string) bool {
	sink := env.Sink()
	sink.Write("DBG> " + input)

	switch cmd := Parse(input).(type) {
	case Directive:
		event.SetResume(cmd.Kind)
		return true

	case ShowHistory:
		sink.Write(env.History().Render())

	case ShowStack:
		showStack(env, cmd.Detailed)

	case ContextChange:
		if cmd.Pin {
			env.PinContext(cmd.Lines)
		}
		env.ShowLocation(cmd.Lines)

	case FrameSource:
		showFrameSource(env, cmd)

	case Help:
		sink.Write(helpText)

	case Watch:
		env.RequestWatch()

	case Evaluate:
		evaluate(env, cmd.Text)
	}
	return false
}

// evaluate runs text through the host evaluator and writes the result, or
// the error text, to the transcript. Only this fallback path is recorded in
// history.
func evaluate(env Env, text string) {
	sink := env.Sink()

	eval := env.Evaluator()
	if eval == nil {
		sink.Write(dbg.NewDispatchError("evaluate", dbg.ErrNoEvaluator).Error())
		return
	}

	result, err := eval.Evaluate(text)
	if err != nil {
		sink.Write(renderError(err))
	} else if result != "" {
		sink.Write(result)
	}

	env.History().Record(text)
}

// renderError picks the display form by error origin: failures of the
// debugger's own dispatch code print their full description, evaluator
// errors print their own default text.
func renderError(err error) string {
	var de *dbg.DispatchError
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}

// showStack prints the call stack in summary or detailed form.
func showStack(env Env, detailed bool) {
	sink := env.Sink()

	reader := env.Stack()
	if reader == nil {
		sink.Write(dbg.NewDispatchError("stack", dbg.ErrNoStackReader).Error())
		return
	}

	frames := reader.Frames()
	if len(frames) == 0 {
		sink.Write("(no frames)")
		return
	}
	for i, f := range frames {
		sink.Write(formatFrame(i, f, detailed))
	}
}

// formatFrame renders one stack frame line.
func formatFrame(index int, f dbg.Frame, detailed bool) string {
	name := f.Command
	if name == "" {
		name = "<anonymous>"
	}
	where := f.Location
	if f.ScriptPath != "" {
		where = fmt.Sprintf("%s:%d", f.ScriptPath, f.LineNumber)
	}
	line := fmt.Sprintf("%2d> %s (%s)", index, name, where)
	if detailed {
		if f.Arguments != "" {
			line += "\n      args: " + f.Arguments
		}
		if f.Location != "" && f.ScriptPath != "" {
			line += "\n      at:   " + f.Location
		}
	}
	return line
}

// showFrameSource renders source context at a chosen stack frame. Bad
// indexes and file-less frames degrade to a message, never an error.
func showFrameSource(env Env, cmd FrameSource) {
	sink := env.Sink()

	reader := env.Stack()
	if reader == nil {
		sink.Write(dbg.NewDispatchError("stack", dbg.ErrNoStackReader).Error())
		return
	}

	frames := reader.Frames()
	if cmd.Index >= len(frames) {
		sink.Write(fmt.Sprintf("No frame %d: stack has %d frames", cmd.Index, len(frames)))
		return
	}
	frame := frames[cmd.Index]
	if frame.ScriptPath == "" {
		sink.Write(fmt.Sprintf("Frame %d has no script file", cmd.Index))
		return
	}

	radius := cmd.Context
	if radius <= 0 {
		radius = env.ContextRadius()
	}

	lines, err := source.Render(frame.ScriptPath, frame.LineNumber, radius)
	if err != nil {
		sink.Write(fmt.Sprintf("%s:%d", frame.ScriptPath, frame.LineNumber))
		return
	}
	for _, line := range lines {
		sink.Write(line)
	}
}
