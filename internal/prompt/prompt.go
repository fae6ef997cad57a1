// Package prompt reads operator input lines for the debugger.
//
// Two readers exist: a terminal reader using raw mode when stdin is a tty,
// and a plain reader for pipes and tests. Both show the previous command as
// a bracketed seed; submitting an empty line accepts the seed.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dshills/luadbg/internal/dbg"
)

// New picks the appropriate reader for the current stdin.
func New() dbg.Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return NewTerminalReader()
	}
	return NewPlainReader(os.Stdin, os.Stdout)
}

// promptText renders the prompt, including the seed when present.
func promptText(base, seed string) string {
	if seed == "" {
		return base + "> "
	}
	return fmt.Sprintf("%s [%s]> ", base, seed)
}

// PlainReader reads lines from a buffered reader, echoing prompts to out.
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader creates a reader over in, writing prompts to out.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{in: bufio.NewReader(in), out: out}
}

// ReadLine reads one line. An empty submission returns the seed; EOF reports
// cancellation.
func (r *PlainReader) ReadLine(base, seed string) (string, bool) {
	fmt.Fprint(r.out, promptText(base, seed))
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return seed, true
	}
	return line, true
}

// TerminalReader reads lines from the controlling terminal in raw mode.
type TerminalReader struct{}

// NewTerminalReader creates a terminal reader for stdin/stdout.
func NewTerminalReader() *TerminalReader {
	return &TerminalReader{}
}

// stdinOut joins stdin and stdout into the ReadWriter x/term wants.
type stdinOut struct{}

func (stdinOut) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdinOut) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// ReadLine reads one line in raw mode. Ctrl-C and Ctrl-D cancel. An empty
// submission returns the seed.
func (r *TerminalReader) ReadLine(base, seed string) (string, bool) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Degraded terminal: fall back to plain line reading.
		return NewPlainReader(os.Stdin, os.Stdout).ReadLine(base, seed)
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(stdinOut{}, promptText(base, seed))
	line, err := t.ReadLine()
	if err != nil {
		return "", false
	}
	if strings.TrimSpace(line) == "" {
		return seed, true
	}
	return line, true
}
