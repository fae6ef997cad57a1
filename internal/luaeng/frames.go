package luaeng

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/luadbg/internal/dbg"
)

// Frames walks the live Lua call stack, innermost first. Frames belonging to
// the debugger's own plumbing (the breakpoint builtin, evaluator chunks) are
// skipped so the operator sees script frames only.
func (e *Engine) Frames() []dbg.Frame {
	L := e.L
	var frames []dbg.Frame

	for level := 0; ; level++ {
		d, ok := L.GetStack(level)
		if !ok {
			break
		}
		if _, err := L.GetInfo("nSl", d, lua.LNil); err != nil {
			continue
		}
		if d.Source == evalChunkName {
			continue
		}
		// Go-implemented frames: the breakpoint builtin, the watch
		// handler, native library functions.
		if d.What == "G" {
			continue
		}

		frames = append(frames, dbg.Frame{
			Command:    frameName(d),
			Location:   strings.TrimSuffix(strings.TrimSpace(L.Where(level)), ":"),
			Arguments:  frameArgs(d),
			ScriptPath: sourcePath(d.Source),
			LineNumber: d.CurrentLine,
		})
	}
	return frames
}

// frameName picks a display name for a frame.
func frameName(d *lua.Debug) string {
	if d.Name != "" {
		return d.Name
	}
	if d.What == "main" {
		return "main chunk"
	}
	return ""
}

// frameArgs summarizes what gopher-lua exposes about a frame's function.
func frameArgs(d *lua.Debug) string {
	if d.What != "Lua" || d.LineDefined <= 0 {
		return ""
	}
	return fmt.Sprintf("defined at lines %d-%d", d.LineDefined, d.LastLineDefined)
}
