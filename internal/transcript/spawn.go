package transcript

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/dshills/luadbg/internal/logging"
)

// ViewerEnv names the environment variable overriding the viewer terminal
// command. Its value is the terminal program plus the flag that takes a
// command to run, e.g. "xterm -e".
const ViewerEnv = "LUADBG_VIEWER"

// ViewerSpawner launches this binary's own "tail" subcommand in a separate
// terminal so the operator can watch the transcript file grow.
type ViewerSpawner struct {
	log *logging.Logger
}

// NewViewerSpawner creates the default viewer spawner.
func NewViewerSpawner(log *logging.Logger) *ViewerSpawner {
	if log == nil {
		log = logging.NullLogger
	}
	return &ViewerSpawner{log: log.WithComponent("viewer")}
}

// Spawn starts the viewer pointed at path and releases it. The viewer shares
// nothing with the debugger beyond the file it tails.
func (v *ViewerSpawner) Spawn(path string) error {
	self, err := os.Executable()
	if err != nil {
		return err
	}

	terminal, flag := viewerTerminal()
	var cmd *exec.Cmd
	if terminal != "" {
		cmd = exec.Command(terminal, flag, self+" tail "+shellQuote(path))
	} else {
		// No terminal available: run headless so at least the follow
		// process exists for tooling that captures its output.
		cmd = exec.Command(self, "tail", path)
		cmd.Stdout = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	v.log.Debug("spawned viewer pid=%d path=%s", cmd.Process.Pid, path)
	return cmd.Process.Release()
}

// viewerTerminal picks the terminal program used to host the viewer.
func viewerTerminal() (string, string) {
	if env := os.Getenv(ViewerEnv); env != "" {
		prog, flag := splitCommand(env)
		return prog, flag
	}
	if runtime.GOOS == "darwin" {
		return "", ""
	}
	for _, candidate := range []string{"x-terminal-emulator", "xterm"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, "-e"
		}
	}
	return "", ""
}

// splitCommand splits "prog flag" into its two parts; a bare program gets
// the conventional -e flag.
func splitCommand(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i], s[i+1:]
		}
	}
	return s, "-e"
}

// shellQuote wraps path in single quotes for the terminal's -e argument.
func shellQuote(path string) string {
	quoted := "'"
	for _, r := range path {
		if r == '\'' {
			quoted += `'\''`
			continue
		}
		quoted += string(r)
	}
	return quoted + "'"
}
