package luaeng

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/luadbg/internal/dbg"
	"github.com/dshills/luadbg/internal/logging"
)

// abortMessage is the Lua error text used to unwind the script when the
// operator chooses the abort directive.
const abortMessage = "luadbg: aborted"

// Engine drives a gopher-lua state and delivers stop events to the console.
// It implements dbg.Engine, dbg.Evaluator, and dbg.StackReader.
type Engine struct {
	L   *lua.LState
	log *logging.Logger

	mu      sync.Mutex
	handler dbg.StopHandler
	sites   map[string]bool // "source:line" -> enabled; empty means stop everywhere

	aborting    bool
	watchActive bool
	stepWarned  bool
}

// New creates an engine around an existing Lua state, or a fresh one when L
// is nil. The breakpoint() builtin is installed immediately.
func New(L *lua.LState, log *logging.Logger) *Engine {
	if L == nil {
		L = lua.NewState()
	}
	if log == nil {
		log = logging.NullLogger
	}
	e := &Engine{
		L:     L,
		log:   log.WithComponent("luaeng"),
		sites: make(map[string]bool),
	}
	L.SetGlobal("breakpoint", L.NewFunction(e.breakpointBuiltin))
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.L.Close()
}

// OnStop registers the stop handler, replacing any prior one.
func (e *Engine) OnStop(h dbg.StopHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = h
}

// AddBreakpoint enables the instrumented site at source:line. Once any site
// is registered, breakpoint() calls elsewhere no longer stop.
func (e *Engine) AddBreakpoint(source string, line int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sites[siteKey(source, line)] = true
}

// RemoveBreakpoint disables a previously enabled site.
func (e *Engine) RemoveBreakpoint(source string, line int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sites, siteKey(source, line))
}

func siteKey(source string, line int) string {
	return fmt.Sprintf("%s:%d", source, line)
}

// Run executes the script at path under the debugger. Terminating script
// errors pass through the fatal-error watch before being returned; an
// operator abort returns dbg.ErrAborted.
func (e *Engine) Run(path string) error {
	fn, err := e.L.LoadFile(path)
	if err != nil {
		return err
	}

	e.L.Push(fn)
	watch := e.L.NewFunction(e.fatalWatchHandler)
	err = e.L.PCall(0, lua.MultRet, watch)
	if err == nil {
		return nil
	}
	if e.consumeAbort() || strings.Contains(err.Error(), abortMessage) {
		return dbg.ErrAborted
	}
	return err
}

// consumeAbort reports and clears the aborting flag.
func (e *Engine) consumeAbort() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	was := e.aborting
	e.aborting = false
	return was
}

// breakpointBuiltin is the Lua-visible breakpoint([label]) function. It
// raises a stop at the calling site, honoring the registered site list.
func (e *Engine) breakpointBuiltin(L *lua.LState) int {
	label := L.OptString(1, "")

	inv := e.invocationAt(L, 1)

	e.mu.Lock()
	handler := e.handler
	siteEnabled := len(e.sites) == 0 || e.sites[siteKey(inv.ScriptPath, inv.LineNumber)]
	e.mu.Unlock()

	if handler == nil || !siteEnabled {
		return 0
	}

	bp := &lineBreakpoint{label: label, invocation: inv}
	event := dbg.NewStopEvent(inv, bp)
	handler(event)
	e.applyDirective(L, event)
	return 0
}

// fatalWatchHandler is the protected-call message handler: it sees the error
// object while the failing frames are still live and raises the fatal-error
// watch stop before the unwind.
func (e *Engine) fatalWatchHandler(L *lua.LState) int {
	errObj := L.Get(1)
	msg := lua.LVAsString(errObj)
	if msg == "" {
		msg = errObj.String()
	}

	e.mu.Lock()
	handler := e.handler
	skip := e.aborting || e.watchActive
	if !skip {
		e.watchActive = true
	}
	e.mu.Unlock()

	// An operator abort or a failure inside the watch itself must unwind
	// untouched.
	if handler == nil || skip || strings.Contains(msg, abortMessage) {
		L.Push(errObj)
		return 1
	}
	defer func() {
		e.mu.Lock()
		e.watchActive = false
		e.mu.Unlock()
	}()

	inv := e.invocationAt(L, 1)
	if inv.PositionText == "" {
		inv.PositionText = msg
	}

	event := dbg.NewStopEvent(inv, &watchBreakpoint{message: msg})
	handler(event)

	// The unwind is already in progress; an abort only needs flagging,
	// and raising from inside a message handler would panic through the
	// protected call.
	switch event.Resume() {
	case dbg.ResumeAbort:
		e.mu.Lock()
		e.aborting = true
		e.mu.Unlock()
	case dbg.ResumeStepInto, dbg.ResumeStepOver, dbg.ResumeStepOut:
		e.warnStep(event.Resume())
	}

	L.Push(errObj)
	return 1
}

// applyDirective relays the operator's decision to the Lua state.
func (e *Engine) applyDirective(L *lua.LState, event *dbg.StopEvent) {
	switch event.Resume() {
	case dbg.ResumeAbort:
		e.mu.Lock()
		e.aborting = true
		e.mu.Unlock()
		L.RaiseError(abortMessage)
	case dbg.ResumeStepInto, dbg.ResumeStepOver, dbg.ResumeStepOut:
		e.warnStep(event.Resume())
	}
}

// warnStep logs the missing-hook limitation once per engine.
func (e *Engine) warnStep(d dbg.ResumeDirective) {
	e.mu.Lock()
	warned := e.stepWarned
	e.stepWarned = true
	e.mu.Unlock()
	if !warned {
		e.log.Warn("%s not supported without line hooks; continuing", d)
	}
}

// invocationAt describes the paused location at the given stack level.
func (e *Engine) invocationAt(L *lua.LState, level int) dbg.InvocationInfo {
	inv := dbg.InvocationInfo{
		PositionText: strings.TrimSuffix(strings.TrimSpace(L.Where(level)), ":"),
	}
	if d, ok := L.GetStack(level); ok {
		if _, err := L.GetInfo("Sl", d, lua.LNil); err == nil {
			inv.ScriptPath = sourcePath(d.Source)
			inv.LineNumber = d.CurrentLine
		}
	}
	return inv
}

// sourcePath extracts a file path from a Lua chunk name, empty when the
// chunk has no backing file.
func sourcePath(source string) string {
	source = strings.TrimPrefix(source, "@")
	if source == "" || strings.HasPrefix(source, "=") || strings.HasPrefix(source, "[") {
		return ""
	}
	// Inline chunks (evaluator input) are named, not file-backed.
	if strings.ContainsAny(source, "\n(") {
		return ""
	}
	return source
}

// lineBreakpoint is an ordinary instrumented-site breakpoint.
type lineBreakpoint struct {
	label      string
	invocation dbg.InvocationInfo
}

func (b *lineBreakpoint) Display() string {
	where := b.invocation.PositionText
	if b.invocation.ScriptPath != "" {
		where = fmt.Sprintf("%s:%d", b.invocation.ScriptPath, b.invocation.LineNumber)
	}
	if b.label != "" {
		return fmt.Sprintf("breakpoint %q at %s", b.label, where)
	}
	return "breakpoint at " + where
}

func (b *lineBreakpoint) IsFatalWatch() bool { return false }

// watchBreakpoint is the designated fatal-error watch.
type watchBreakpoint struct {
	message string
}

func (b *watchBreakpoint) Display() string { return "terminating error: " + b.message }

func (b *watchBreakpoint) IsFatalWatch() bool { return true }
