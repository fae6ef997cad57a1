// Package command parses and executes one line of operator input.
//
// Parse is total: every input string maps to exactly one Command variant,
// with "evaluate as host-language expression" as the fallback. The variants
// form a sealed set so dispatch can switch exhaustively.
package command

import (
	"strconv"
	"strings"

	"github.com/dshills/luadbg/internal/dbg"
)

// Command is one parsed operator input. The set of implementations is fixed;
// Dispatch handles every variant.
type Command interface {
	isCommand()
}

// Directive terminates the prompt loop with a resume decision.
type Directive struct {
	Kind dbg.ResumeDirective
}

// ShowHistory prints the recorded command history.
type ShowHistory struct{}

// ShowStack prints the current call stack.
type ShowStack struct {
	Detailed bool
}

// ContextChange re-renders the current location with Lines of context.
// Pin additionally persists Lines as the session default.
type ContextChange struct {
	Lines int
	Pin   bool
}

// FrameSource renders source at a specific stack frame.
type FrameSource struct {
	Index   int
	Context int // 0 means "use the session preference"
}

// Help prints the command summary.
type Help struct{}

// Watch relaunches the companion transcript viewer.
type Watch struct{}

// Evaluate hands the raw input to the host-language evaluator.
type Evaluate struct {
	Text string
}

func (Directive) isCommand()     {}
func (ShowHistory) isCommand()   {}
func (ShowStack) isCommand()     {}
func (ContextChange) isCommand() {}
func (FrameSource) isCommand()   {}
func (Help) isCommand()          {}
func (Watch) isCommand()         {}
func (Evaluate) isCommand()      {}

// Parse maps one trimmed line of operator input to a Command. Word commands
// match case-insensitively; the stack commands k and K are case-sensitive
// because they select the display form.
func Parse(input string) Command {
	trimmed := strings.TrimSpace(input)

	switch strings.ToLower(trimmed) {
	case "", "c", "continue":
		return Directive{Kind: dbg.ResumeContinue}
	case "s", "stepinto":
		return Directive{Kind: dbg.ResumeStepInto}
	case "v", "stepover":
		return Directive{Kind: dbg.ResumeStepOver}
	case "o", "stepout":
		return Directive{Kind: dbg.ResumeStepOut}
	case "q", "quit":
		return Directive{Kind: dbg.ResumeAbort}
	case "r":
		return ShowHistory{}
	case "?", "h":
		return Help{}
	case "w":
		return Watch{}
	}

	switch trimmed {
	case "k":
		return ShowStack{}
	case "K":
		return ShowStack{Detailed: true}
	}

	if lines, pin, ok := parseContext(trimmed); ok {
		return ContextChange{Lines: lines, Pin: pin}
	}

	if frame, ok := parseFrameSource(trimmed); ok {
		return frame
	}

	return Evaluate{Text: trimmed}
}

// parseContext matches an integer token with an optional + prefix.
func parseContext(s string) (lines int, pin bool, ok bool) {
	rest := s
	if strings.HasPrefix(rest, "+") {
		pin = true
		rest = rest[1:]
	}
	if rest == "" {
		return 0, false, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false, false
	}
	return n, pin, true
}

// parseFrameSource matches "k <index>" and "k <index> <context>".
func parseFrameSource(s string) (FrameSource, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 || len(fields) > 3 {
		return FrameSource{}, false
	}
	if fields[0] != "k" && fields[0] != "K" {
		return FrameSource{}, false
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 0 {
		return FrameSource{}, false
	}
	cmd := FrameSource{Index: index}
	if len(fields) == 3 {
		ctx, err := strconv.Atoi(fields[2])
		if err != nil || ctx < 0 {
			return FrameSource{}, false
		}
		cmd.Context = ctx
	}
	return cmd, true
}
