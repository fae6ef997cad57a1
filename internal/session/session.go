package session

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/luadbg/internal/dbg"
	"github.com/dshills/luadbg/internal/history"
	"github.com/dshills/luadbg/internal/logging"
	"github.com/dshills/luadbg/internal/transcript"
)

// Options configures Attach.
type Options struct {
	// OutputPath, when set, redirects the transcript to an append-only
	// file tailed by the companion viewer. Empty means console output.
	OutputPath string

	// ConsoleOut is the interactive output channel for console mode.
	// Defaults to os.Stdout.
	ConsoleOut io.Writer

	// MaxHistory bounds the command history. Defaults to history.DefaultMax.
	MaxHistory int

	// DefaultContext is the context radius used at each stop until the
	// operator pins another with "+<n>".
	DefaultContext int

	// Prompter reads operator input. Required for interactive use.
	Prompter dbg.Prompter

	// Evaluator runs host-language expressions typed at the prompt.
	Evaluator dbg.Evaluator

	// Stack reads call frames while stopped.
	Stack dbg.StackReader

	// Spawner overrides the companion viewer launcher. Nil uses the
	// default process spawner.
	Spawner transcript.Spawner

	// OnPin is called after the operator pins a context preference,
	// letting the caller persist it. Best-effort; may be nil.
	OnPin func(int)

	// Logger receives diagnostics. Nil disables logging.
	Logger *logging.Logger
}

// Session is the debugger's shared state: configuration, history, transcript
// target, and the seed text for the next prompt. One Session serves every
// stop for the life of the process.
type Session struct {
	mu             sync.Mutex
	maxHistory     int
	defaultContext int
	history        *history.Ring
	lastAction     string
	sink           transcript.Sink
	fileSink       *transcript.FileSink
	watchPending   bool

	prompter  dbg.Prompter
	evaluator dbg.Evaluator
	stack     dbg.StackReader
	onPin     func(int)
	log       *logging.Logger

	engines []dbg.Engine
}

// New creates a session from opts. Most callers use Attach instead; New
// exists for hosts that manage registration themselves.
func New(opts Options) *Session {
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = history.DefaultMax
	}
	log := opts.Logger
	if log == nil {
		log = logging.NullLogger
	}

	s := &Session{
		maxHistory:     maxHistory,
		defaultContext: opts.DefaultContext,
		history:        history.NewRing(maxHistory),
		prompter:       opts.Prompter,
		evaluator:      opts.Evaluator,
		stack:          opts.Stack,
		onPin:          opts.OnPin,
		log:            log.WithComponent("session"),
	}
	s.configureOutput(opts)
	return s
}

// attach state shared across Attach calls.
var (
	attachMu sync.Mutex
	current  *Session
)

// Attach connects the debugger console to an engine. The first call creates
// the process-wide session; later calls reuse it, re-evaluating the output
// configuration but never registering the stop hook twice on the same
// engine.
func Attach(engine dbg.Engine, opts Options) *Session {
	attachMu.Lock()
	defer attachMu.Unlock()

	if current == nil {
		current = New(opts)
	} else {
		current.reconfigure(opts)
	}
	current.register(engine)
	return current
}

// ResetForTest clears the process-wide session. Tests only.
func ResetForTest() {
	attachMu.Lock()
	defer attachMu.Unlock()
	current = nil
}

// register installs the stop hook unless this engine is already attached.
func (s *Session) register(engine dbg.Engine) {
	if engine == nil {
		return
	}
	s.mu.Lock()
	for _, e := range s.engines {
		if e == engine {
			s.mu.Unlock()
			return
		}
	}
	s.engines = append(s.engines, engine)
	s.mu.Unlock()

	engine.OnStop(s.HandleStop)
	s.log.Debug("stop hook registered")
}

// reconfigure re-evaluates output configuration and collaborator wiring on a
// repeat Attach.
func (s *Session) reconfigure(opts Options) {
	s.configureOutput(opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.Prompter != nil {
		s.prompter = opts.Prompter
	}
	if opts.Evaluator != nil {
		s.evaluator = opts.Evaluator
	}
	if opts.Stack != nil {
		s.stack = opts.Stack
	}
	if opts.OnPin != nil {
		s.onPin = opts.OnPin
	}
}

// configureOutput selects the transcript sink from opts. A pending watch
// request carries over to a newly configured file sink.
func (s *Session) configureOutput(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.OutputPath == "" {
		s.sink = transcript.NewConsoleSink(opts.ConsoleOut)
		s.fileSink = nil
		return
	}

	if s.fileSink != nil && s.fileSink.Path() == opts.OutputPath {
		return
	}
	fs := transcript.NewFileSink(opts.OutputPath, opts.Spawner, opts.Logger)
	s.sink = fs
	s.fileSink = fs
	if s.watchPending {
		s.watchPending = false
		fs.Watch()
	}
}

// Sink returns the current transcript sink.
func (s *Session) Sink() transcript.Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink
}

// History returns the operator input history.
func (s *Session) History() *history.Ring {
	return s.history
}

// Evaluator returns the host-language evaluator, possibly nil.
func (s *Session) Evaluator() dbg.Evaluator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator
}

// Stack returns the stack introspection capability, possibly nil.
func (s *Session) Stack() dbg.StackReader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack
}

// DefaultContext returns the context radius used at the start of each stop.
func (s *Session) DefaultContext() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultContext
}

// PinContext makes radius the default for future stops and notifies the
// persistence hook.
func (s *Session) PinContext(radius int) {
	s.mu.Lock()
	s.defaultContext = radius
	hook := s.onPin
	s.mu.Unlock()

	if hook != nil {
		hook(radius)
	}
}

// RequestWatch relaunches the companion viewer. In console mode the wish is
// remembered until a transcript file is configured.
func (s *Session) RequestWatch() {
	s.mu.Lock()
	fs := s.fileSink
	if fs == nil {
		s.watchPending = true
	}
	sink := s.sink
	s.mu.Unlock()

	if fs != nil {
		fs.Watch()
		return
	}
	sink.Write("No transcript file configured; viewer will start once one is.")
}

// lastActionSeed returns the seed for the next prompt.
func (s *Session) lastActionSeed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAction
}

// setLastAction records the seed shown at the next prompt. Empty input keeps
// the previous seed.
func (s *Session) setLastAction(input string) {
	if input == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAction = input
}

// positionLine is the bare location text shown when source context is
// unavailable.
func positionLine(inv dbg.InvocationInfo) string {
	if inv.PositionText != "" {
		return inv.PositionText
	}
	if inv.ScriptPath != "" {
		return fmt.Sprintf("%s:%d", inv.ScriptPath, inv.LineNumber)
	}
	return fmt.Sprintf("line %d", inv.LineNumber)
}
