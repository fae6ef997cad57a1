package session

import (
	"strings"

	"github.com/dshills/luadbg/internal/command"
	"github.com/dshills/luadbg/internal/dbg"
	"github.com/dshills/luadbg/internal/history"
	"github.com/dshills/luadbg/internal/source"
	"github.com/dshills/luadbg/internal/transcript"
)

// fatalWatchBanner is printed when the designated fatal-error watch
// breakpoint intercepts a terminating failure.
const fatalWatchBanner = "TERMINATING ERROR BREAKPOINT"

// HandleStop is the stop hook registered on the engine. It reports the stop,
// then runs the prompt loop until the operator produces a resume directive.
//
// HandleStop is re-entrant: evaluating an expression can raise a nested stop
// inside the engine, which re-enters here with its own event and loop while
// the outer invocation stays blocked on its own dispatch.
func (s *Session) HandleStop(event *dbg.StopEvent) {
	log := s.log.WithField("stop", shortID(event.ID))
	log.Debug("stop at %s:%d", event.Invocation.ScriptPath, event.Invocation.LineNumber)

	lp := &loop{session: s, event: event, radius: s.DefaultContext()}
	lp.report()

	for !event.Resumed() {
		input, ok := s.readInput()
		if !ok {
			// Cancelled input resumes execution, never errors.
			event.SetResume(dbg.ResumeContinue)
			break
		}
		command.Dispatch(lp, event, input)
		s.setLastAction(input)
	}

	log.Debug("resuming with %s", event.Resume())
}

// readInput reads one trimmed operator line, seeded with the last action.
func (s *Session) readInput() (string, bool) {
	s.mu.Lock()
	prompter := s.prompter
	s.mu.Unlock()

	if prompter == nil {
		return "", false
	}
	line, ok := prompter.ReadLine("DBG", s.lastActionSeed())
	if !ok {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// loop is the per-stop state: one loop per handler invocation, owned by it.
// It implements command.Env over the shared session plus the stop-scoped
// context preference.
type loop struct {
	session *Session
	event   *dbg.StopEvent
	radius  int
}

// report prints the breakpoint banner lines and the paused location.
func (lp *loop) report() {
	sink := lp.session.Sink()
	for _, bp := range lp.event.Breakpoints {
		if bp.IsFatalWatch() {
			sink.Write(fatalWatchBanner)
			continue
		}
		sink.Write("Hit " + bp.Display())
	}
	lp.ShowLocation(lp.radius)
}

func (lp *loop) Sink() transcript.Sink { return lp.session.Sink() }

func (lp *loop) History() *history.Ring { return lp.session.History() }

func (lp *loop) Evaluator() dbg.Evaluator { return lp.session.Evaluator() }

func (lp *loop) Stack() dbg.StackReader { return lp.session.Stack() }

// ShowLocation renders source context around the paused location, degrading
// to the bare position line when the source or radius is unusable. The given
// radius becomes this stop's preference; the session default is untouched.
func (lp *loop) ShowLocation(radius int) {
	lp.radius = radius
	sink := lp.session.Sink()
	inv := lp.event.Invocation

	if inv.ScriptPath != "" {
		lines, err := source.Render(inv.ScriptPath, inv.LineNumber, radius)
		if err == nil {
			for _, line := range lines {
				sink.Write(line)
			}
			return
		}
	}
	sink.Write(positionLine(inv))
}

// ContextRadius returns this stop's effective context preference.
func (lp *loop) ContextRadius() int { return lp.radius }

func (lp *loop) PinContext(radius int) { lp.session.PinContext(radius) }

func (lp *loop) RequestWatch() { lp.session.RequestWatch() }

// shortID trims a stop UUID for log fields.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
