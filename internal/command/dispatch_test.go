package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/luadbg/internal/dbg"
	"github.com/dshills/luadbg/internal/history"
	"github.com/dshills/luadbg/internal/transcript"
)

// captureSink records transcript writes for assertions.
type captureSink struct {
	lines   []string
	watches int
}

func (c *captureSink) Write(text string) { c.lines = append(c.lines, text) }

func (c *captureSink) Watch() { c.watches++ }

func (c *captureSink) text() string { return strings.Join(c.lines, "\n") }

// fakeEval returns canned results keyed by input text.
type fakeEval struct {
	results map[string]string
	errs    map[string]error
}

func (f *fakeEval) Evaluate(text string) (string, error) {
	if err, ok := f.errs[text]; ok {
		return "", err
	}
	return f.results[text], nil
}

// fakeStack serves a fixed frame list.
type fakeStack struct {
	frames []dbg.Frame
}

func (f *fakeStack) Frames() []dbg.Frame { return f.frames }

// testEnv implements Env for dispatcher tests.
type testEnv struct {
	sink      *captureSink
	ring      *history.Ring
	eval      dbg.Evaluator
	stack     dbg.StackReader
	radius    int
	pinned    []int
	shown     []int
	watchReqs int
}

func newTestEnv() *testEnv {
	return &testEnv{
		sink:   &captureSink{},
		ring:   history.NewRing(10),
		eval:   &fakeEval{results: map[string]string{}},
		radius: 2,
	}
}

func (e *testEnv) Sink() transcript.Sink { return e.sink }

func (e *testEnv) History() *history.Ring { return e.ring }

func (e *testEnv) Evaluator() dbg.Evaluator { return e.eval }

func (e *testEnv) Stack() dbg.StackReader { return e.stack }

func (e *testEnv) ShowLocation(radius int) { e.shown = append(e.shown, radius) }

func (e *testEnv) ContextRadius() int { return e.radius }

func (e *testEnv) PinContext(radius int) { e.pinned = append(e.pinned, radius) }

func (e *testEnv) RequestWatch() { e.watchReqs++ }

func stopAt(line int) *dbg.StopEvent {
	return dbg.NewStopEvent(dbg.InvocationInfo{ScriptPath: "a.lua", LineNumber: line})
}

func TestDispatchEchoesInput(t *testing.T) {
	env := newTestEnv()
	Dispatch(env, stopAt(1), "r")

	if len(env.sink.lines) == 0 || env.sink.lines[0] != "DBG> r" {
		t.Errorf("input should be echoed first, got %q", env.sink.lines)
	}
}

func TestDispatchContinueForms(t *testing.T) {
	for _, input := range []string{"", "c", "Continue"} {
		env := newTestEnv()
		event := stopAt(1)
		done := Dispatch(env, event, input)
		if !done {
			t.Errorf("Dispatch(%q) should terminate the loop", input)
		}
		if event.Resume() != dbg.ResumeContinue {
			t.Errorf("Dispatch(%q) directive = %v, want continue", input, event.Resume())
		}
	}
}

func TestDispatchQuitAborts(t *testing.T) {
	env := newTestEnv()
	event := stopAt(1)
	done := Dispatch(env, event, "q")
	if !done {
		t.Error("q should terminate the loop")
	}
	if event.Resume() != dbg.ResumeAbort {
		t.Errorf("directive = %v, want abort", event.Resume())
	}
}

func TestDispatchDirectiveWriteOnce(t *testing.T) {
	env := newTestEnv()
	event := stopAt(1)
	Dispatch(env, event, "q")
	event.SetResume(dbg.ResumeContinue)
	if event.Resume() != dbg.ResumeAbort {
		t.Error("resume directive must be write-once")
	}
}

func TestDispatchHistoryCommand(t *testing.T) {
	env := newTestEnv()
	env.ring.Record("print(1)")
	env.ring.Record("print(2)")

	Dispatch(env, stopAt(1), "r")
	if !strings.Contains(env.sink.text(), "print(1)\nprint(2)") {
		t.Errorf("history should be printed oldest first, got %q", env.sink.text())
	}
}

func TestDispatchEvaluateRecordsHistory(t *testing.T) {
	env := newTestEnv()
	env.eval = &fakeEval{results: map[string]string{"x + 1": "4"}}

	Dispatch(env, stopAt(1), "x + 1")
	if got := env.ring.Render(); got != "x + 1" {
		t.Errorf("evaluate path should record history, got %q", got)
	}
	if !strings.Contains(env.sink.text(), "4") {
		t.Errorf("result should reach the sink, got %q", env.sink.text())
	}
}

func TestDispatchOperatorCommandsNotRecorded(t *testing.T) {
	env := newTestEnv()
	for _, input := range []string{"r", "k", "?", "w", "5"} {
		Dispatch(env, stopAt(1), input)
	}
	if env.ring.Len() != 0 {
		t.Errorf("operator commands must not be recorded, history = %q", env.ring.Render())
	}
}

func TestDispatchEvaluatorErrorUsesDefaultForm(t *testing.T) {
	env := newTestEnv()
	env.eval = &fakeEval{errs: map[string]error{
		"boom()": errors.New(`a.lua:3: attempt to call a nil value`),
	}}

	Dispatch(env, stopAt(1), "boom()")
	if !strings.Contains(env.sink.text(), "a.lua:3: attempt to call a nil value") {
		t.Errorf("evaluator error should keep its default text, got %q", env.sink.text())
	}
	if strings.Contains(env.sink.text(), "debugger evaluate failed") {
		t.Error("external error must not be shown as a dispatch failure")
	}
}

func TestDispatchInternalErrorShowsFullForm(t *testing.T) {
	env := newTestEnv()
	env.eval = &fakeEval{errs: map[string]error{
		"x": dbg.NewDispatchError("evaluate", errors.New("sink detached")),
	}}

	Dispatch(env, stopAt(1), "x")
	if !strings.Contains(env.sink.text(), "debugger evaluate failed: sink detached") {
		t.Errorf("dispatch error should show its full description, got %q", env.sink.text())
	}
}

func TestDispatchContextChange(t *testing.T) {
	env := newTestEnv()
	done := Dispatch(env, stopAt(1), "5")
	if done {
		t.Error("context change is not terminal")
	}
	if len(env.shown) != 1 || env.shown[0] != 5 {
		t.Errorf("ShowLocation calls = %v, want [5]", env.shown)
	}
	if len(env.pinned) != 0 {
		t.Errorf("bare integer must not pin, pinned = %v", env.pinned)
	}
}

func TestDispatchPinnedContextChange(t *testing.T) {
	env := newTestEnv()
	Dispatch(env, stopAt(1), "+5")
	if len(env.pinned) != 1 || env.pinned[0] != 5 {
		t.Errorf("+5 should pin, pinned = %v", env.pinned)
	}
	if len(env.shown) != 1 || env.shown[0] != 5 {
		t.Errorf("+5 should also re-render, shown = %v", env.shown)
	}
}

func TestDispatchWatch(t *testing.T) {
	env := newTestEnv()
	Dispatch(env, stopAt(1), "w")
	if env.watchReqs != 1 {
		t.Errorf("watch requests = %d, want 1", env.watchReqs)
	}
}

func TestDispatchHelp(t *testing.T) {
	env := newTestEnv()
	Dispatch(env, stopAt(1), "?")
	for _, mention := range []string{"Continue", "StepInto", "StepOver", "StepOut", "Quit", "history", "stack"} {
		if !strings.Contains(env.sink.text(), mention) {
			t.Errorf("help should mention %q", mention)
		}
	}
}

func TestDispatchStackSummary(t *testing.T) {
	env := newTestEnv()
	env.stack = &fakeStack{frames: []dbg.Frame{
		{Command: "inner", ScriptPath: "a.lua", LineNumber: 3},
		{Command: "outer", ScriptPath: "a.lua", LineNumber: 9},
	}}

	Dispatch(env, stopAt(3), "k")
	out := env.sink.text()
	if !strings.Contains(out, "inner (a.lua:3)") || !strings.Contains(out, "outer (a.lua:9)") {
		t.Errorf("stack summary missing frames: %q", out)
	}
}

func TestDispatchStackDetailed(t *testing.T) {
	env := newTestEnv()
	env.stack = &fakeStack{frames: []dbg.Frame{
		{Command: "inner", ScriptPath: "a.lua", LineNumber: 3, Arguments: "x=1", Location: "function inner"},
	}}

	Dispatch(env, stopAt(3), "K")
	if !strings.Contains(env.sink.text(), "args: x=1") {
		t.Errorf("detailed stack should show arguments: %q", env.sink.text())
	}
}

func TestDispatchFrameSourceOutOfRange(t *testing.T) {
	env := newTestEnv()
	env.stack = &fakeStack{frames: []dbg.Frame{{Command: "f", ScriptPath: "a.lua", LineNumber: 1}}}

	done := Dispatch(env, stopAt(1), "k 9")
	if done {
		t.Error("out-of-range frame must not terminate the loop")
	}
	if !strings.Contains(env.sink.text(), "No frame 9") {
		t.Errorf("expected out-of-range message, got %q", env.sink.text())
	}
}

func TestDispatchFrameSourceNoScript(t *testing.T) {
	env := newTestEnv()
	env.stack = &fakeStack{frames: []dbg.Frame{{Command: "native"}}}

	Dispatch(env, stopAt(1), "k 0")
	if !strings.Contains(env.sink.text(), "has no script file") {
		t.Errorf("expected file-less frame message, got %q", env.sink.text())
	}
}

func TestDispatchFrameSourceRendersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.lua")
	var lines []string
	for i := 1; i <= 9; i++ {
		lines = append(lines, fmt.Sprintf("local l%d = %d", i, i))
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	env := newTestEnv()
	env.stack = &fakeStack{frames: []dbg.Frame{{Command: "f", ScriptPath: path, LineNumber: 5}}}

	Dispatch(env, stopAt(1), "k 0 1")
	out := env.sink.text()
	if !strings.Contains(out, "=>") || !strings.Contains(out, "local l5 = 5") {
		t.Errorf("frame source should render marked context, got %q", out)
	}
}
